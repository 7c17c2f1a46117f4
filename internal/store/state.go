package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/roach88/erpbridge/internal/model"
)

// Record holds the ledger handles created for one item.
type Record struct {
	SpecHash     model.Hash `json:"spec_hash"`
	ResourceHash model.Hash `json:"resource_hash"`
}

// State maps item keys to their records.
type State map[string]Record

// Has reports whether key has a record.
func (s State) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Get returns the record for key.
func (s State) Get(key string) (Record, bool) {
	r, ok := s[key]
	return r, ok
}

// Put records the handles for key, replacing any previous record.
func (s State) Put(key string, r Record) {
	s[key] = r
}

// Keys returns the item keys in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns an independent copy.
func (s State) Clone() State {
	out := make(State, len(s))
	maps.Copy(out, s)
	return out
}

// Backend loads and saves the full sync state.
type Backend interface {
	// Load returns the stored state. A backend with nothing stored returns an
	// empty, non-nil State.
	Load(ctx context.Context) (State, error)

	// Save replaces the stored state with s.
	Save(ctx context.Context, s State) error

	Close() error
}

// Run summarizes one sync run for the history table.
type Run struct {
	ID               string
	StartedAt        time.Time
	FinishedAt       time.Time
	SpecsCreated     int
	ResourcesCreated int
	Skipped          int
	ErrorCount       int
}

// RunRecorder is implemented by backends that keep a run history.
type RunRecorder interface {
	RecordRun(ctx context.Context, run Run) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Kind names a backend implementation.
type Kind string

const (
	KindJSON   Kind = "json"
	KindSQLite Kind = "sqlite"
)

// ParseKind validates a configured backend name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindJSON, KindSQLite:
		return k, nil
	}
	return "", fmt.Errorf("unknown state backend %q: must be %q or %q", s, KindJSON, KindSQLite)
}

// ErrNoState is returned by OpenExisting when nothing has been saved at the path yet.
var ErrNoState = fmt.Errorf("no sync state: %w", fs.ErrNotExist)

// OpenExisting opens the backend for reading without creating anything.
// A missing SQLite database yields ErrNoState. A missing JSON file is not an
// error since it already loads as an empty state.
func OpenExisting(kind Kind, path string) (Backend, error) {
	if kind == KindSQLite {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w at %s", ErrNoState, path)
			}
			return nil, err
		}
	}
	return Open(kind, path)
}

// Open opens the backend of the given kind at path.
func Open(kind Kind, path string) (Backend, error) {
	switch kind {
	case KindJSON, "":
		return NewJSONFile(path), nil
	case KindSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("unknown state backend %q", kind)
}
