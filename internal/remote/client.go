// Package remote provides an HTTP client for the remote users collection.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"student-directory/internal/model"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://68a04cea6e38a02c58184c4b.mockapi.io"
	usersPath      = "/users"

	opList   = "list"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// StatusError is returned when the remote collection answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s users: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s users: status %d: %s", e.Op, e.StatusCode, e.Body)
}

type Options struct {
	BaseURL string
	// Timeout of zero leaves requests unbounded.
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client talks to the /users collection.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListUsers(ctx context.Context) ([]model.Record, error) {
	var records []model.Record
	if err := c.do(ctx, opList, http.MethodGet, usersPath, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

func (c *Client) CreateUser(ctx context.Context, draft model.Draft) (model.Record, error) {
	var rec model.Record
	if err := c.do(ctx, opCreate, http.MethodPost, usersPath, draft, &rec); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

func (c *Client) UpdateUser(ctx context.Context, id model.RecordID, draft model.Draft) (model.Record, error) {
	var rec model.Record
	if err := c.do(ctx, opUpdate, http.MethodPut, userPath(id), draft, &rec); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

func (c *Client) DeleteUser(ctx context.Context, id model.RecordID) error {
	return c.do(ctx, opDelete, http.MethodDelete, userPath(id), nil, nil)
}

func userPath(id model.RecordID) string {
	return usersPath + "/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() { observe(op, start, err) }()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s users: encoding payload: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s users: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s users: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s users: decoding response: %w", op, err)
	}
	return nil
}
