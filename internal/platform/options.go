package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/notebook/pkg/core"
)

// options holds the internal configuration for building a Manager.
type options struct {
	store          core.NoteStore
	logger         *slog.Logger
	host           *HostConfig
	hostConfigPath string
	httpClient     *http.Client
	timeout        time.Duration
}

// Option defines a functional option for configuring notebook.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the manager and the remote client.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom note store (e.g. memory, sqlite).
// If provided, no remote client is created and host configuration is skipped.
func WithStore(store core.NoteStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithHost sets the remote host explicitly instead of resolving it from a file.
func WithHost(host HostConfig) Option {
	return func(o *options) {
		o.host = &host
	}
}

// WithHostConfigFile points host resolution at a specific file.
// Defaults to searching HostConfigFile upwards from the working directory.
func WithHostConfigFile(path string) Option {
	return func(o *options) {
		o.hostConfigPath = path
	}
}

// WithHTTPClient sets the HTTP client used to reach the remote store.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTimeout bounds each remote call. Zero means the client default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}
