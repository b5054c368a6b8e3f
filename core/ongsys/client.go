package ongsys

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoMorePages signals that the API declared the end of the listing,
// either through its 422 sentinel status or a "no records" error payload.
var ErrNoMorePages = errors.New("ongsys: no more pages")

// Page is one decoded page of a listing endpoint.
type Page struct {
	// Records holds the rows of the page.
	Records []Record
	// Declared is the server-declared total record count, 0 if absent.
	Declared int
}

// Client is a thin HTTP client for the ONGSYS paginated listing API.
type Client struct {
	cfg      Config
	http     *http.Client
	log      *zap.Logger
	observer func(endpoint string, ext *Extraction)
}

// Observe registers a callback invoked with every finished extraction,
// used to archive raw batches without coupling the jobs to storage.
func (c *Client) Observe(fn func(endpoint string, ext *Extraction)) {
	c.observer = fn
}

// NewClient creates a source client with fixed per-call timeouts.
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		log:  log,
	}
}

// GetPage fetches one page of the given listing endpoint.
// It returns ErrNoMorePages when the API signals the end of the data.
func (c *Client) GetPage(ctx context.Context, endpoint string, page int) (*Page, error) {
	url := fmt.Sprintf("%s/%s?pageNumber=%d",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		strings.TrimLeft(endpoint, "/"),
		page,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// The API ends pagination with a 422 rather than an empty page on
	// some endpoints. Both are treated as authoritative.
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, ErrNoMorePages
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet(body))
	}

	var envelope struct {
		Data         []map[string]any `json:"data"`
		TotalRecords any              `json:"totalRecords"`
		Error        string           `json:"error"`
		Message      string           `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("invalid JSON in page %d: %w", page, err)
	}

	if noMoreRecords(envelope.Error) || noMoreRecords(envelope.Message) {
		return nil, ErrNoMorePages
	}

	result := &Page{Declared: declaredTotal(envelope.TotalRecords)}
	for _, row := range envelope.Data {
		result.Records = append(result.Records, Record(row))
	}
	return result, nil
}

// noMoreRecords recognizes the textual end-of-data payloads the API has
// been observed to emit in place of an empty page.
func noMoreRecords(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "no more records") ||
		strings.Contains(m, "nenhum registro")
}

// declaredTotal coerces the totalRecords field, which arrives either as a
// JSON number or a quoted string depending on the endpoint.
func declaredTotal(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	default:
		return 0
	}
}

// snippet truncates a response body for log output.
func snippet(body []byte) string {
	const max = 300
	s := string(body)
	if len(s) > max {
		return s[:max]
	}
	return s
}
