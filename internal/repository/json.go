// Package repository provides persistence implementations for the entry
// store: a whole-file JSON snapshot (the default) and a PostgreSQL table.
package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/heybori/cashflow/internal/models"
)

// EntryRepository is the persistence contract the ledger service depends on.
type EntryRepository interface {
	// List returns every stored entry in unspecified order.
	List(ctx context.Context) ([]models.Entry, error)
	// Append stores one new entry.
	Append(ctx context.Context, entry models.Entry) error
	// Delete removes an entry by id, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// snapshot is the on-disk document shape.
type snapshot struct {
	Entries []models.Entry `json:"entries"`
}

// JSONRepository persists the entry set as a single JSON document that is
// read and rewritten wholesale on every mutation. Reads are self-healing:
// a missing, empty, or malformed file is repaired to an empty document and
// never surfaced to the caller as an error. Writes go through a temp file
// plus rename so a crash mid-write cannot corrupt the previous snapshot,
// and a single-writer mutex serializes concurrent mutations.
type JSONRepository struct {
	path string
	mu   sync.Mutex
}

// NewJSONRepository creates a repository backed by the JSON document at
// path, creating the parent directory and an empty document if absent.
func NewJSONRepository(path string) (*JSONRepository, error) {
	r := &JSONRepository{path: path}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := r.write(snapshot{Entries: []models.Entry{}}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// List returns the current snapshot's entries.
func (r *JSONRepository) List(ctx context.Context) ([]models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read().Entries, nil
}

// Append rewrites the snapshot with the new entry included.
func (r *JSONRepository) Append(ctx context.Context, entry models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.read()
	snap.Entries = append(snap.Entries, entry)
	return r.write(snap)
}

// Delete rewrites the snapshot without the named entry.
func (r *JSONRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.read()
	kept := snap.Entries[:0]
	found := false
	for _, e := range snap.Entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return false, nil
	}
	snap.Entries = kept
	return true, r.write(snap)
}

// read loads the snapshot, repairing any unreadable or malformed document to
// an empty one.
func (r *JSONRepository) read() snapshot {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return r.repair()
	}
	var snap snapshot
	if len(raw) == 0 || json.Unmarshal(raw, &snap) != nil {
		return r.repair()
	}
	if snap.Entries == nil {
		snap.Entries = []models.Entry{}
	}
	return snap
}

func (r *JSONRepository) repair() snapshot {
	fresh := snapshot{Entries: []models.Entry{}}
	// Best effort: the caller still gets an empty document if the rewrite
	// fails.
	_ = r.write(fresh)
	return fresh
}

func (r *JSONRepository) write(snap snapshot) error {
	tmp := r.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}
