package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// Watch observes the store directory and marks the index stale whenever a
// note file is created, changed or removed by someone else. onChange, when
// not nil, receives the relative path of every relevant file event.
// The watcher stops when ctx is cancelled.
func (s *Store) Watch(ctx context.Context, onChange func(rel string)) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer s.setWatcherActive(false)
		defer watcher.Close()
		return s.watchLoop(ctx, watcher, onChange)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.handleWatchError(fmt.Errorf("watcher panic: %w", err))
	}))
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onChange func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			rel, relevant := s.relevant(event)
			if !relevant {
				continue
			}
			s.config.Logger.Debug("note file changed", "file", rel, "op", event.Op.String())
			s.cache.MarkStale()
			if onChange != nil {
				onChange(rel)
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.handleWatchError(wErr)
		}
	}
}

func (s *Store) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	rel, err := filepath.Rel(s.Path, event.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, noteExt) || s.ignored(rel) {
		return "", false
	}
	return rel, true
}

func (s *Store) handleWatchError(err error) {
	s.config.Logger.Error("fsnotify error", "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}
