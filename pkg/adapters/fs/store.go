// Package fs implements core.NoteStore on the local filesystem.
//
// Every note is a YAML file (`<id>.yaml`) below the store root. A small JSON
// index in the system directory remembers the file of each id and the next
// free id. The files are the source of truth: the index is rebuilt from a
// scan whenever it is missing, corrupted or marked stale by the watcher.
package fs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notebook/pkg/core"
)

const (
	// DefaultSystemDir holds the index and is never scanned for notes.
	DefaultSystemDir = ".notebook"

	noteExt     = ".yaml"
	notePattern = "**/*" + noteExt
)

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	SystemDir string // e.g. ".notebook"
	Logger    *slog.Logger
	// ErrorHandler receives runtime errors of the watcher. Optional.
	ErrorHandler func(error)
}

// Store implements core.NoteStore using one YAML file per note.
type Store struct {
	Path   string
	config Config
	cache  *cache

	mu            sync.RWMutex
	watcherActive bool
	lastReconcile *time.Time
}

// NewStore creates a filesystem store. Call Initialize before use.
func NewStore(config Config) *Store {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		Path:   config.Path,
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

// Initialize creates the store directory and loads the index.
func (s *Store) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Join(s.Path, s.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := s.cache.Load(); err != nil {
		return err
	}
	_, err := s.reconcile(ctx)
	return err
}

// FetchAll reads every note file, ordered by id.
func (s *Store) FetchAll(ctx context.Context) ([]*core.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes, err := s.scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStoreUnavailable, err)
	}
	out := make([]*core.Note, 0, len(notes))
	for _, sn := range notes {
		out = append(out, sn.note)
	}
	return out, nil
}

// Create writes n under a freshly reserved id.
func (s *Store) Create(ctx context.Context, n *core.Note) (*core.Note, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil note", core.ErrRejected)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.Stale() {
		if _, err := s.reconcileLocked(ctx); err != nil {
			return nil, err
		}
	}

	created := n.Clone()
	created.ID = s.cache.Reserve()
	rel := strconv.FormatInt(created.ID, 10) + noteExt
	if err := s.writeNote(rel, created); err != nil {
		return nil, err
	}
	s.config.Logger.Debug("note file written", "id", created.ID, "file", rel)
	return created, s.cache.Save()
}

// Update rewrites the file of an existing note.
func (s *Store) Update(ctx context.Context, n *core.Note) error {
	if n == nil {
		return fmt.Errorf("%w: nil note", core.ErrRejected)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(ctx, n.ID)
	if err != nil {
		return err
	}
	if err := s.writeNote(entry.File, n.Clone()); err != nil {
		return err
	}
	return s.cache.Save()
}

// Delete removes the file of a note.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.Path, filepath.FromSlash(entry.File))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete note file: %w", err)
	}
	s.cache.Delete(id)
	s.config.Logger.Debug("note file removed", "id", id, "file", entry.File)
	return s.cache.Save()
}

// Ping checks that the store directory is reachable.
func (s *Store) Ping(ctx context.Context) error {
	info, err := os.Stat(s.Path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("store path is not a directory: %s", s.Path)
	}
	return nil
}

// Reconcile rebuilds the index from the files on disk and returns the ids found.
func (s *Store) Reconcile(ctx context.Context) ([]int64, error) {
	return s.reconcile(ctx)
}

func (s *Store) reconcile(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconcileLocked(ctx)
}

func (s *Store) reconcileLocked(ctx context.Context) ([]int64, error) {
	notes, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	entries := make(map[int64]*indexEntry, len(notes))
	ids := make([]int64, 0, len(notes))
	for _, sn := range notes {
		entries[sn.note.ID] = &indexEntry{ID: sn.note.ID, File: sn.file, LastModified: sn.modified}
		ids = append(ids, sn.note.ID)
	}
	s.cache.Replace(entries)

	now := time.Now()
	s.lastReconcile = &now
	return ids, s.cache.Save()
}

func (s *Store) lookup(ctx context.Context, id int64) (*indexEntry, error) {
	if entry, ok := s.cache.Get(id); ok && !s.cache.Stale() {
		return entry, nil
	}
	if _, err := s.reconcileLocked(ctx); err != nil {
		return nil, err
	}
	if entry, ok := s.cache.Get(id); ok {
		return entry, nil
	}
	return nil, fmt.Errorf("%w: %w: %d", core.ErrRejected, core.ErrNoteNotFound, id)
}

type scannedNote struct {
	note     *core.Note
	file     string
	modified time.Time
}

// scan parses every note file. Duplicate ids are an error because the
// index could not tell the files apart.
func (s *Store) scan(ctx context.Context) ([]scannedNote, error) {
	root := os.DirFS(s.Path)
	matches, err := doublestar.Glob(root, notePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list note files: %w", err)
	}

	byID := make(map[int64]string, len(matches))
	notes := make([]scannedNote, 0, len(matches))
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.ignored(rel) {
			continue
		}
		n, modified, err := readNote(root, rel)
		if err != nil {
			return nil, err
		}
		if other, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("note id %d used by %s and %s", n.ID, other, rel)
		}
		byID[n.ID] = rel
		notes = append(notes, scannedNote{note: n, file: rel, modified: modified})
	}

	slices.SortFunc(notes, func(a, b scannedNote) int {
		return cmp.Compare(a.note.ID, b.note.ID)
	})
	return notes, nil
}

func (s *Store) ignored(rel string) bool {
	first, _, _ := strings.Cut(rel, "/")
	return first == s.config.SystemDir || strings.HasPrefix(filepath.Base(rel), TempFilePrefix)
}

// readNote decodes a note file. A file without an id takes it from its name.
func readNote(root fs.FS, rel string) (*core.Note, time.Time, error) {
	data, err := fs.ReadFile(root, rel)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	info, err := fs.Stat(root, rel)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to stat %s: %w", rel, err)
	}

	var n core.Note
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse %s: %w", rel, err)
	}
	if n.ID == core.NoID {
		stem := strings.TrimSuffix(filepath.Base(rel), noteExt)
		id, err := strconv.ParseInt(stem, 10, 64)
		if err != nil || id <= 0 {
			return nil, time.Time{}, fmt.Errorf("%s has no id", rel)
		}
		n.ID = id
	}
	n.Normalize()
	return &n, info.ModTime(), nil
}

func (s *Store) writeNote(rel string, n *core.Note) error {
	full := filepath.Join(s.Path, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	err := writeAtomic(full, 0644, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(n); err != nil {
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return fmt.Errorf("failed to write note %d: %w", n.ID, err)
	}

	info, err := os.Stat(full)
	if err != nil {
		return errors.Join(fmt.Errorf("failed to stat note %d", n.ID), err)
	}
	s.cache.Set(&indexEntry{ID: n.ID, File: rel, LastModified: info.ModTime()})
	return nil
}

var _ core.NoteStore = (*Store)(nil)
var _ core.Pinger = (*Store)(nil)
