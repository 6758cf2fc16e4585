// Package remote implements core.NoteStore over the note server's HTTP/JSON API.
//
// Routes:
//
//	GET    /notes       -> 200 [note...]
//	POST   /notes       -> 201 note (with id)
//	PUT    /notes/{id}  -> 204
//	DELETE /notes/{id}  -> 204
//	GET    /healthz     -> 204
//
// Transport failures, 5xx answers and undecodable bodies map to
// core.ErrStoreUnavailable; 4xx answers map to core.ErrRejected.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/notebook/pkg/core"
)

// DefaultTimeout bounds a single request when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

// ErrorBody is the JSON shape of non-2xx answers.
type ErrorBody struct {
	Error string `json:"error"`
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// BaseURL is "host:port" or a full URL. "http://" is assumed when no scheme is given.
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client talks to a note server.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a client for the server at config.BaseURL.
func NewClient(config Config) (*Client, error) {
	raw := strings.TrimSpace(config.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("remote: empty base url")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("remote: invalid base url %q: %w", config.BaseURL, err)
	}

	c := &Client{
		base:    base,
		http:    config.HTTPClient,
		timeout: config.Timeout,
		logger:  config.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c, nil
}

// BaseURL returns the resolved server URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// FetchAll implements core.NoteStore.
func (c *Client) FetchAll(ctx context.Context) ([]*core.Note, error) {
	var notes []*core.Note
	if err := c.do(ctx, http.MethodGet, c.base.JoinPath("notes"), nil, &notes, http.StatusOK); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*core.Note{}
	}
	return notes, nil
}

// Create implements core.NoteStore.
func (c *Client) Create(ctx context.Context, n *core.Note) (*core.Note, error) {
	var created core.Note
	if err := c.do(ctx, http.MethodPost, c.base.JoinPath("notes"), n, &created, http.StatusCreated, http.StatusOK); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update implements core.NoteStore.
func (c *Client) Update(ctx context.Context, n *core.Note) error {
	return c.do(ctx, http.MethodPut, c.noteURL(n.ID), n, nil, http.StatusNoContent, http.StatusOK)
}

// Delete implements core.NoteStore.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.noteURL(id), nil, nil, http.StatusNoContent, http.StatusOK)
}

// Ping checks that the server answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.base.JoinPath("healthz"), nil, nil, http.StatusNoContent, http.StatusOK)
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "remote-store"
}

func (c *Client) noteURL(id int64) *url.URL {
	return c.base.JoinPath("notes", strconv.FormatInt(id, 10))
}

func (c *Client) do(ctx context.Context, method string, target *url.URL, in, out any, want ...int) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", core.ErrRejected, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", core.ErrStoreUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("remote request", "method", method, "url", target.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", core.ErrStoreUnavailable, method, target.Path, err)
	}
	defer resp.Body.Close()

	if !slices.Contains(want, resp.StatusCode) {
		return statusError(method, target.Path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", core.ErrStoreUnavailable, method, target.Path, err)
	}
	return nil
}

func statusError(method, path string, resp *http.Response) error {
	msg := http.StatusText(resp.StatusCode)
	var eb ErrorBody
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil {
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w: %s %s: %s", core.ErrRejected, core.ErrNoteNotFound, method, path, msg)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s %s: %d %s", core.ErrRejected, method, path, resp.StatusCode, msg)
	default:
		return fmt.Errorf("%w: %s %s: %d %s", core.ErrStoreUnavailable, method, path, resp.StatusCode, msg)
	}
}

// IsUnavailable reports whether err means the server could not be used.
func IsUnavailable(err error) bool {
	return errors.Is(err, core.ErrStoreUnavailable)
}

var _ core.NoteStore = (*Client)(nil)
var _ core.Pinger = (*Client)(nil)
