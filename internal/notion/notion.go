package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/vbonduro/filmlog/internal/domain"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"

	// maxPageSize is the largest page_size the query endpoint accepts.
	maxPageSize = 100
)

// APIError is a non-200 response from the Notion API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion returned status %d", e.Status)
	}
	return fmt.Sprintf("notion returned status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Database is the metadata of a Notion database.
type Database struct {
	ID             string
	Title          string
	Properties     []string
	LastEditedTime time.Time
}

type Options struct {
	BaseURL  string
	Version  string
	PageSize int
	// MaxPages caps how many query pages are fetched; 0 means no cap.
	MaxPages int
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Client is a read-only Notion API client.
type Client struct {
	token    string
	baseURL  string
	version  string
	pageSize int
	maxPages int
	client   *http.Client
	logger   *slog.Logger
}

func NewClient(token string, opts Options) *Client {
	c := &Client{
		token:    token,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		version:  opts.Version,
		pageSize: opts.PageSize,
		maxPages: opts.MaxPages,
		client:   &http.Client{Timeout: opts.Timeout},
		logger:   opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.version == "" {
		c.version = DefaultVersion
	}
	if c.pageSize <= 0 || c.pageSize > maxPageSize {
		c.pageSize = maxPageSize
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

type databaseResponse struct {
	ID             string                     `json:"id"`
	LastEditedTime time.Time                  `json:"last_edited_time"`
	Title          []richText                 `json:"title"`
	Properties     map[string]json.RawMessage `json:"properties"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type queryRequest struct {
	PageSize    int    `json:"page_size,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []domain.RawRow `json:"results"`
	HasMore    bool            `json:"has_more"`
	NextCursor *string         `json:"next_cursor"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RetrieveDatabase fetches the metadata of database id.
func (c *Client) RetrieveDatabase(ctx context.Context, id string) (*Database, error) {
	var resp databaseResponse
	if err := c.do(ctx, http.MethodGet, "/databases/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to retrieve database: %w", err)
	}

	db := &Database{
		ID:             resp.ID,
		LastEditedTime: resp.LastEditedTime,
		Properties:     make([]string, 0, len(resp.Properties)),
	}
	var title strings.Builder
	for _, t := range resp.Title {
		title.WriteString(t.PlainText)
	}
	db.Title = title.String()
	for name := range resp.Properties {
		db.Properties = append(db.Properties, name)
	}
	slices.Sort(db.Properties)
	return db, nil
}

// QueryDatabase returns every row of database id in the order Notion returns
// them, following next_cursor until the last page or the page cap.
func (c *Client) QueryDatabase(ctx context.Context, id string) ([]domain.RawRow, error) {
	path := "/databases/" + url.PathEscape(id) + "/query"

	var rows []domain.RawRow
	body := queryRequest{PageSize: c.pageSize}
	for page := 1; ; page++ {
		var resp queryResponse
		if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
			return nil, fmt.Errorf("failed to query database page %d: %w", page, err)
		}
		rows = append(rows, resp.Results...)
		c.logger.Debug("fetched query page", "page", page, "rows", len(resp.Results), "has_more", resp.HasMore)

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		if c.maxPages > 0 && page >= c.maxPages {
			c.logger.Warn("page cap reached, remaining rows not fetched", "max_pages", c.maxPages, "rows", len(rows))
			break
		}
		body.StartCursor = *resp.NextCursor
	}
	return rows, nil
}

// do sends an authenticated request and decodes a 200 response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call notion: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close notion response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Code = errBody.Code
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
