// Package service provides the ledger business logic, delegating persistence
// to an EntryRepository.
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/heybori/cashflow/internal/auth"
	"github.com/heybori/cashflow/internal/ledger"
	"github.com/heybori/cashflow/internal/models"
	"github.com/heybori/cashflow/internal/repository"
)

// ErrNotFound is returned by Remove when no entry has the given id, or when
// the entry belongs to a program outside the caller's scope. A scoped caller
// cannot distinguish the two, so foreign ids are unguessable.
var ErrNotFound = errors.New("entry not found")

// Ledger implements the ledger operations over a repository. The repository
// snapshot is treated as immutable for the duration of one call.
type Ledger struct {
	repo repository.EntryRepository
	// now is swappable in tests.
	now func() time.Time
}

// NewLedger constructs a Ledger using the provided repository.
func NewLedger(repo repository.EntryRepository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// Add validates and normalizes the submitted entry, forcing a scoped
// session's program onto it, and appends it to the store.
func (s *Ledger) Add(ctx context.Context, params ledger.EntryParams, session auth.Session) (models.Entry, error) {
	entry, err := ledger.NewEntry(params, session.Program, s.now())
	if err != nil {
		return models.Entry{}, err
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

// List returns the filtered entry set in newest-first order.
func (s *Ledger) List(ctx context.Context, filters ledger.Filters, session auth.Session) ([]models.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := ledger.Apply(entries, filters, session)
	ledger.SortNewestFirst(out)
	return out, nil
}

// Summarize aggregates the trailing windowDays of filtered entries.
func (s *Ledger) Summarize(ctx context.Context, windowDays int, filters ledger.Filters, session auth.Session) (models.Summary, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	return ledger.Summarize(entries, windowDays, filters, session, s.now()), nil
}

// ExportCSV writes the filtered entry set to w as a CSV document, applying
// the same scope rules and ordering as List.
func (s *Ledger) ExportCSV(ctx context.Context, w io.Writer, filters ledger.Filters, session auth.Session) error {
	entries, err := s.List(ctx, filters, session)
	if err != nil {
		return err
	}
	return ledger.WriteCSV(w, entries)
}

// Remove deletes an entry by id. A scoped session may only remove entries of
// its own program.
func (s *Ledger) Remove(ctx context.Context, id string, session auth.Session) error {
	if session.Program != "" {
		entries, err := s.repo.List(ctx)
		if err != nil {
			return err
		}
		owned := false
		for _, e := range entries {
			if e.ID == id && e.Program == session.Program {
				owned = true
				break
			}
		}
		if !owned {
			return ErrNotFound
		}
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
