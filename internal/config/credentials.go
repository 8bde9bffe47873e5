package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Credentials authenticate against one Notion database.
type Credentials struct {
	Token      string
	DatabaseID string
}

// ConfigError reports a credentials file that cannot be used.
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credentials %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("credentials %s: %s", e.Path, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

type credentialsFile struct {
	Token      string `yaml:"token"`
	DatabaseID string `yaml:"database_id"`
}

// LoadCredentials reads path in one of two layouts: YAML with token and
// database_id keys, or plain text with the token on line 1 and the database id
// on line 2.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "cannot read file", Err: err}
	}

	creds, err := parseYAML(data)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "invalid YAML", Err: err}
	}
	if creds == nil {
		lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
		if len(lines) < 2 {
			return nil, &ConfigError{Path: path, Reason: "expected token on line 1 and database id on line 2"}
		}
		creds = &Credentials{
			Token:      strings.TrimSpace(lines[0]),
			DatabaseID: strings.TrimSpace(lines[1]),
		}
	}

	if creds.Token == "" {
		return nil, &ConfigError{Path: path, Reason: "token is empty"}
	}
	if creds.DatabaseID == "" {
		return nil, &ConfigError{Path: path, Reason: "database id is empty"}
	}
	return creds, nil
}

// parseYAML returns nil, nil when data is not a YAML mapping with at least one
// of the known keys.
func parseYAML(data []byte) (*Credentials, error) {
	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil || probe == nil {
		return nil, nil
	}
	_, hasToken := probe["token"]
	_, hasID := probe["database_id"]
	if !hasToken && !hasID {
		return nil, nil
	}

	var f credentialsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &Credentials{
		Token:      strings.TrimSpace(f.Token),
		DatabaseID: strings.TrimSpace(f.DatabaseID),
	}, nil
}
