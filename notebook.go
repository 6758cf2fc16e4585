package notebook

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/notebook/internal/platform"
	"github.com/aretw0/notebook/pkg/core"
)

// Version of the notebook module.
const Version = "0.1.0"

// --- Types ---

// Note is a public alias for the domain entity.
type Note = core.Note

// Manager is a public alias for the note manager.
type Manager = core.Manager

// ViewSelector is a public alias for the filtering and sorting selector.
type ViewSelector = core.ViewSelector

// HostConfig addresses the remote note store.
type HostConfig = platform.HostConfig

// --- Configuration ---

// Option defines a functional option for configuring notebook.
type Option = platform.Option

// WithLogger sets the logger for the manager and the remote client.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom note store instead of the remote one.
func WithStore(store core.NoteStore) Option {
	return platform.WithStore(store)
}

// WithHost sets the remote host explicitly.
func WithHost(url string, port int) Option {
	return platform.WithHost(platform.HostConfig{URL: url, Port: port})
}

// WithHostConfigFile reads the remote host from a specific file.
func WithHostConfigFile(path string) Option {
	return platform.WithHostConfigFile(path)
}

// WithHTTPClient sets the HTTP client used for the remote store.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// WithTimeout bounds each remote call.
func WithTimeout(d time.Duration) Option {
	return platform.WithTimeout(d)
}

// --- Factory ---

// New creates a Manager. The notes are not loaded until LoadNotes is called.
func New(opts ...Option) (*core.Manager, error) {
	return platform.New(opts...)
}

// Open creates a Manager and loads the notes.
func Open(ctx context.Context, opts ...Option) (*core.Manager, error) {
	m, err := platform.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := m.LoadNotes(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// NewEditSession starts an edit session on m using the preferences at
// prefsPath. Unreadable preferences fall back to the defaults.
func NewEditSession(m *core.Manager, prefsPath string, confirmer core.Confirmer, logger *slog.Logger) *core.EditSession {
	policy, err := platform.LoadPreferences(prefsPath, logger)
	if err != nil && logger != nil {
		logger.Warn("preferences couldn't be loaded, using defaults", "error", err)
	}
	return core.NewEditSession(m, policy, confirmer, logger)
}

// ResolveHost returns the host configuration found at path, or searched
// upwards from the working directory when path is empty.
func ResolveHost(path string, logger *slog.Logger) HostConfig {
	return platform.ResolveHost(path, logger)
}
