// Package api is the client for the registration backend's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

var _ portal.Backend = Client{}

const defaultServerError = "there was a problem communicating with the server"

// Error is a non-2xx answer from the backend
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// IsStatus reports whether err is a backend error with the given status code
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type Client struct {
	http    *http.Client
	baseURL string
	token   string
	catalog *i18n.Catalog
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithCatalog localizes the fallback error messages
func WithCatalog(catalog *i18n.Catalog) Option {
	return func(c *Client) { c.catalog = catalog }
}

func New(baseURL string, opts ...Option) Client {
	c := Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithToken returns a copy of the client that authenticates as the token's owner
func (c Client) WithToken(token string) Client {
	c.token = token
	return c
}

func (c Client) text(key string) string {
	if c.catalog == nil {
		return defaultServerError
	}
	return c.catalog.Text(key)
}

func (c Client) send(ctx context.Context, method, path string, query url.Values, body any, fallback string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	return handleResponse(res, fallback)
}

// handleResponse returns the body of a 2xx response, or an *Error carrying the
// backend's own message when it sent one.
func handleResponse(res *http.Response, fallback string) ([]byte, error) {
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return raw, nil
	}

	msg := errorMessage(raw)
	if msg == "" {
		msg = fallback
	}

	return nil, &Error{StatusCode: res.StatusCode, Message: msg}
}

func errorMessage(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return ""
	}

	for _, key := range []string{"detail", "message", "error"} {
		if s, ok := data[key].(string); ok && s != "" {
			return s
		}
	}
	if s := firstText(data["errors"]); s != "" {
		return s
	}

	// field errors, e.g. {"code": ["duplicate course code"]}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := firstText(data[k]); s != "" {
			if k == "non_field_errors" {
				return s
			}
			return fmt.Sprintf("%s: %s", k, s)
		}
	}

	return ""
}

func firstText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

func decode(raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode json: %w", err)
	}
	return nil
}

// decodeList accepts a bare array or a paginated {"results": [...]} envelope
func decodeList(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '{' {
		var page struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return fmt.Errorf("failed to decode json: %w", err)
		}
		if len(page.Results) == 0 {
			return nil
		}
		trimmed = page.Results
	}

	return decode(trimmed, out)
}

func idPath(format string, id int) string {
	return fmt.Sprintf(format, id)
}

func codePath(format, code string) string {
	return fmt.Sprintf(format, url.PathEscape(code))
}
