package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/notebook/pkg/adapters/fs"
	"github.com/aretw0/notebook/pkg/adapters/memory"
	"github.com/aretw0/notebook/pkg/adapters/remote"
	"github.com/aretw0/notebook/pkg/adapters/sqlite"
	"github.com/aretw0/notebook/pkg/core"
)

// Backend names accepted by OpenBackend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendFS     = "fs"
)

// New builds a Manager. Without WithStore the manager talks to the remote
// note store addressed by the resolved host configuration.
func New(opts ...Option) (*core.Manager, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := initStore(o)
	if err != nil {
		return nil, err
	}
	return core.NewManager(store, o.logger), nil
}

// Init returns the note store New would use.
func Init(opts ...Option) (core.NoteStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStore(o)
}

func initStore(o *options) (core.NoteStore, error) {
	if o.store != nil {
		return o.store, nil
	}

	var host HostConfig
	if o.host != nil {
		host = *o.host
	} else {
		host = ResolveHost(o.hostConfigPath, o.logger)
	}

	client, err := remote.NewClient(remote.Config{
		BaseURL:    host.HostWithPort(),
		HTTPClient: o.httpClient,
		Timeout:    o.timeout,
		Logger:     o.logger,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// OpenBackend opens a server-side note store by name. The returned close
// function releases its resources and is never nil.
func OpenBackend(ctx context.Context, name, path string, logger *slog.Logger) (core.NoteStore, func() error, error) {
	noop := func() error { return nil }

	switch name {
	case BackendMemory:
		return memory.NewStore(), noop, nil

	case BackendSQLite:
		if path == "" {
			path = "notebook.sqlite3"
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	case BackendFS:
		if path == "" {
			path = "notes"
		}
		store := fs.NewStore(fs.Config{Path: path, Logger: logger})
		if err := store.Initialize(ctx); err != nil {
			return nil, noop, err
		}
		if err := store.Watch(ctx, nil); err != nil {
			// The store stays usable without the watcher.
			if logger != nil {
				logger.Warn("file watcher unavailable", "error", err)
			}
		}
		return store, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown backend: %s", name)
	}
}
