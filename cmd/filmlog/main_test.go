package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/filmlog/internal/config"
)

func filmPage(roll, film, brand string) map[string]any {
	return map[string]any{
		"object": "page",
		"properties": map[string]any{
			"ID":    map[string]any{"title": []any{map[string]any{"plain_text": roll}}},
			"Film":  map[string]any{"multi_select": []any{map[string]any{"name": film}}},
			"Brand": map[string]any{"multi_select": []any{map[string]any{"name": brand}}},
			"ISO":   map[string]any{"number": 400},
		},
	}
}

func newNotionServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /databases/db123", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret_abc", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":               "db123",
			"title":            []any{map[string]any{"plain_text": "35mm log"}},
			"properties":       map[string]any{"ID": map[string]any{}, "Film": map[string]any{}},
			"last_edited_time": "2024-03-01T10:00:00.000Z",
		})
	})
	mux.HandleFunc("POST /databases/db123/query", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []any{
				filmPage("1", "Kodak", "Kodak"),
				filmPage("2", "Ilford", "Ilford"),
				filmPage("3", "Kodak", "Kodak"),
			},
			"has_more":    false,
			"next_cursor": nil,
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	creds := filepath.Join(dir, "credentials.txt")
	require.NoError(t, os.WriteFile(creds, []byte("secret_abc\ndb123\n"), 0600))

	return &config.Config{
		CredentialsFile: creds,
		OutputFile:      filepath.Join(dir, "output.html"),
		NotionAPIURL:    apiURL,
		NotionVersion:   "2022-06-28",
		PageSize:        100,
		RequestTimeout:  5 * time.Second,
		FilmColorMode:   "hash",
		LogLevel:        "error",
		LogFormat:       "text",
	}
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	var out bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	server := newNotionServer(t)
	cfg := testConfig(t, server.URL)

	out, err := execute(t, cfg)
	require.NoError(t, err)

	assert.Equal(t, "HTML file created: "+cfg.OutputFile+"\n", out)
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>35mm log</title>")
	assert.Contains(t, string(data), "data:image/png;base64,")
}

func TestGenerateCommandFlagsOverrideConfig(t *testing.T) {
	server := newNotionServer(t)
	cfg := testConfig(t, server.URL)
	output := filepath.Join(t.TempDir(), "nested", "report.html")

	_, err := execute(t, cfg, "--output", output, "--seed", "42")
	require.NoError(t, err)

	assert.Equal(t, output, cfg.OutputFile)
	assert.Equal(t, "seeded", cfg.FilmColorMode)
	assert.Equal(t, uint64(42), cfg.ColorSeed)
	assert.FileExists(t, output)
}

func TestGenerateCommandMissingCredentials(t *testing.T) {
	server := newNotionServer(t)
	cfg := testConfig(t, server.URL)

	_, err := execute(t, cfg, "--credentials", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.NoFileExists(t, cfg.OutputFile)
}

func TestGenerateCommandInvalidColorMode(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:0")

	_, err := execute(t, cfg, "--film-colors", "rainbow")
	assert.ErrorContains(t, err, "rainbow")
}

func TestGenerateCommandAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`))
	}))
	t.Cleanup(server.Close)
	cfg := testConfig(t, server.URL)

	_, err := execute(t, cfg)
	assert.ErrorContains(t, err, "unauthorized")
	assert.NoFileExists(t, cfg.OutputFile)
}

func TestInspectCommand(t *testing.T) {
	server := newNotionServer(t)
	cfg := testConfig(t, server.URL)
	_, err := execute(t, cfg)
	require.NoError(t, err)

	out, err := execute(t, cfg, "inspect", cfg.OutputFile)
	require.NoError(t, err)

	assert.Contains(t, out, cfg.OutputFile+": 3 rows")
	assert.Contains(t, out, "film (3 rows)")
	assert.Regexp(t, `Ilford\s+1\s+33\.3%`, out)
	assert.Regexp(t, `Kodak\s+2\s+66\.7%`, out)
}

func TestInspectCommandMissingFile(t *testing.T) {
	cfg := testConfig(t, "")

	_, err := execute(t, cfg, "inspect", filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunReportsErrorsOnStderr(t *testing.T) {
	cfg := testConfig(t, "")
	missing := filepath.Join(t.TempDir(), "missing.html")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), cfg, []string{"inspect", missing}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Error: ")
	assert.Contains(t, stderr.String(), missing)
}

func TestRunReportsUnparsableReport(t *testing.T) {
	cfg := testConfig(t, "")
	path := filepath.Join(t.TempDir(), "notes.html")
	require.NoError(t, os.WriteFile(path, []byte("<html><body><p>no table</p></body></html>"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), cfg, []string{"inspect", path}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "report has no shot table")
}

func TestRunSuccess(t *testing.T) {
	server := newNotionServer(t)
	cfg := testConfig(t, server.URL)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), cfg, nil, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "HTML file created: "+cfg.OutputFile+"\n", stdout.String())
	assert.NotContains(t, stderr.String(), "Error: ")
}
