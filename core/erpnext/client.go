package erpnext

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Doc is a destination record as returned by the resource API.
type Doc map[string]any

// Name returns the internal docname of the record.
func (d Doc) Name() string {
	if s, ok := d["name"].(string); ok {
		return s
	}
	return ""
}

// Filter is one field-equality (or other operator) condition for listing.
// It is wire-encoded as the JSON triple [field, op, value].
type Filter struct {
	Field string
	Op    string
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: "=", Value: value}
}

// ListOptions controls a listing request.
type ListOptions struct {
	Filters []Filter
	Fields  []string
	Limit   int
	Start   int
}

// Existence is the tri-state outcome of an existence check.
// A 404 is authoritative absence; other failures leave existence unknown.
type Existence int

const (
	// Absent means the API confirmed the document does not exist.
	Absent Existence = iota
	// Found means the document exists.
	Found
	// Unknown means the check could not be completed; callers may assume
	// absence only on paths explicitly designed to tolerate duplicates.
	Unknown
)

// Client is the destination seam: everything the sync jobs need from the
// resource API, swappable for a stub in tests.
type Client interface {
	// GetDoc fetches a document by exact docname. ErrNotFound on 404.
	GetDoc(ctx context.Context, doctype, name string, fields []string) (Doc, error)
	// List fetches documents matching the options.
	List(ctx context.Context, doctype string, opts ListOptions) ([]Doc, error)
	// FindOne returns the first document matching the filters, or nil.
	FindOne(ctx context.Context, doctype string, filters []Filter) (Doc, error)
	// Create POSTs a new document. ErrConflict on a duplicate signal.
	Create(ctx context.Context, doctype string, payload map[string]any) error
	// Update PUTs only the changed fields of an existing document.
	Update(ctx context.Context, doctype, name string, changes map[string]any) error
	// Exists checks for a document by docname with a filtered-search
	// fallback when the direct fetch is inconclusive.
	Exists(ctx context.Context, doctype, name string) Existence
}

// HTTPClient implements Client against a live ERPNext instance.
type HTTPClient struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewClient creates a destination client with token authentication.
func NewClient(cfg Config, log *zap.Logger) *HTTPClient {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	return &HTTPClient{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		log:  log,
	}
}

// resourceURL builds the URL for a doctype (and optional docname) under
// api/resource, escaping segments since doctypes contain spaces.
func (c *HTTPClient) resourceURL(doctype, name string) string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	u := base + "/api/resource/" + url.PathEscape(doctype)
	if name != "" {
		u += "/" + url.PathEscape(name)
	}
	return u
}

func (c *HTTPClient) do(ctx context.Context, method, rawURL string, params url.Values, payload any) ([]byte, int, error) {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", c.cfg.APIKey, c.cfg.APISecret))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return data, resp.StatusCode, nil
}

// decodeDoc tolerates both response envelopes the API is known to produce:
// {"data": {...}} and a bare object.
func decodeDoc(body []byte) (Doc, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		var doc Doc
		if err := json.Unmarshal(envelope.Data, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	var doc Doc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	delete(doc, "data")
	return doc, nil
}

func (c *HTTPClient) GetDoc(ctx context.Context, doctype, name string, fields []string) (Doc, error) {
	params := url.Values{}
	if len(fields) > 0 {
		encoded, _ := json.Marshal(fields)
		params.Set("fields", string(encoded))
	}

	body, status, err := c.do(ctx, http.MethodGet, c.resourceURL(doctype, name), params, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, ErrNotFound
	case status != http.StatusOK:
		return nil, &APIError{StatusCode: status, Method: http.MethodGet, Path: doctype + "/" + name, Body: snippet(body)}
	}
	doc, err := decodeDoc(body)
	if err != nil {
		return nil, fmt.Errorf("invalid document response: %w", err)
	}
	return doc, nil
}

func (c *HTTPClient) List(ctx context.Context, doctype string, opts ListOptions) ([]Doc, error) {
	params := url.Values{}
	if len(opts.Filters) > 0 {
		triples := make([][]any, 0, len(opts.Filters))
		for _, f := range opts.Filters {
			triples = append(triples, []any{f.Field, f.Op, f.Value})
		}
		encoded, _ := json.Marshal(triples)
		params.Set("filters", string(encoded))
	}
	if len(opts.Fields) > 0 {
		encoded, _ := json.Marshal(opts.Fields)
		params.Set("fields", string(encoded))
	}
	if opts.Limit > 0 {
		params.Set("limit_page_length", fmt.Sprintf("%d", opts.Limit))
	}
	if opts.Start > 0 {
		params.Set("limit_start", fmt.Sprintf("%d", opts.Start))
	}

	body, status, err := c.do(ctx, http.MethodGet, c.resourceURL(doctype, ""), params, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status, Method: http.MethodGet, Path: doctype, Body: snippet(body)}
	}

	var envelope struct {
		Data []Doc `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("invalid list response: %w", err)
	}
	return envelope.Data, nil
}

func (c *HTTPClient) FindOne(ctx context.Context, doctype string, filters []Filter) (Doc, error) {
	docs, err := c.List(ctx, doctype, ListOptions{Filters: filters, Fields: []string{"name"}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

func (c *HTTPClient) Create(ctx context.Context, doctype string, payload map[string]any) error {
	body, status, err := c.do(ctx, http.MethodPost, c.resourceURL(doctype, ""), nil, payload)
	if err != nil {
		return err
	}
	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		return nil
	case isConflict(status, body):
		return fmt.Errorf("%w: %s", ErrConflict, snippet(body))
	default:
		return &APIError{StatusCode: status, Method: http.MethodPost, Path: doctype, Body: snippet(body)}
	}
}

func (c *HTTPClient) Update(ctx context.Context, doctype, name string, changes map[string]any) error {
	body, status, err := c.do(ctx, http.MethodPut, c.resourceURL(doctype, name), nil, changes)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &APIError{StatusCode: status, Method: http.MethodPut, Path: doctype + "/" + name, Body: snippet(body)}
	}
	return nil
}

// Exists tries the cheap fetch-by-docname first. A 404 is authoritative
// absence. Any other failure falls back to a name-equality search; if that
// is inconclusive too the result is Unknown, logged as a warning.
func (c *HTTPClient) Exists(ctx context.Context, doctype, name string) Existence {
	_, err := c.GetDoc(ctx, doctype, name, []string{"name"})
	if err == nil {
		return Found
	}
	if errors.Is(err, ErrNotFound) {
		return Absent
	}

	doc, ferr := c.FindOne(ctx, doctype, []Filter{Eq("name", name)})
	if ferr == nil {
		if doc != nil {
			return Found
		}
		return Absent
	}

	c.log.Warn("existence check inconclusive",
		zap.String("doctype", doctype),
		zap.String("docname", name),
		zap.NamedError("direct_error", err),
		zap.NamedError("filter_error", ferr),
	)
	return Unknown
}

// isConflict recognizes the duplicate signals the API emits on create.
func isConflict(status int, body []byte) bool {
	if status == http.StatusConflict || status == http.StatusExpectationFailed {
		return true
	}
	return strings.Contains(strings.ToLower(string(body)), "already exists")
}

func snippet(body []byte) string {
	const max = 300
	s := string(body)
	if len(s) > max {
		return s[:max]
	}
	return s
}
