package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heybori/cashflow/internal/auth"
	"github.com/heybori/cashflow/internal/ledger"
	"github.com/heybori/cashflow/internal/models"
)

type mockRepo struct {
	ListFunc   func(ctx context.Context) ([]models.Entry, error)
	AppendFunc func(ctx context.Context, entry models.Entry) error
	DeleteFunc func(ctx context.Context, id string) (bool, error)
}

func (m *mockRepo) List(ctx context.Context) ([]models.Entry, error) {
	return m.ListFunc(ctx)
}
func (m *mockRepo) Append(ctx context.Context, entry models.Entry) error {
	return m.AppendFunc(ctx, entry)
}
func (m *mockRepo) Delete(ctx context.Context, id string) (bool, error) {
	return m.DeleteFunc(ctx, id)
}

// memRepo is a simple in-memory repository for flow tests.
type memRepo struct {
	entries []models.Entry
}

func (m *memRepo) List(ctx context.Context) ([]models.Entry, error) {
	out := make([]models.Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}
func (m *memRepo) Append(ctx context.Context, entry models.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}
func (m *memRepo) Delete(ctx context.Context, id string) (bool, error) {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newTestLedger(repo *memRepo) *Ledger {
	svc := NewLedger(repo)
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestAdd_StoresNormalizedEntry(t *testing.T) {
	repo := &memRepo{}
	svc := newTestLedger(repo)

	entry, err := svc.Add(context.Background(), ledger.EntryParams{
		Type: "income", Amount: "12.3456", Category: "dues",
	}, auth.Session{Authorized: true, Program: "Alpha"})
	require.NoError(t, err)

	assert.Equal(t, 12.35, entry.Amount)
	assert.Equal(t, "Alpha", entry.Program)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, entry, repo.entries[0])
}

func TestAdd_ValidationErrorDoesNotTouchStore(t *testing.T) {
	appended := false
	repo := &mockRepo{
		AppendFunc: func(ctx context.Context, entry models.Entry) error {
			appended = true
			return nil
		},
	}
	svc := NewLedger(repo)

	_, err := svc.Add(context.Background(), ledger.EntryParams{Type: "other", Amount: "1"}, auth.Session{Authorized: true})
	var verr *ledger.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, appended)
}

func TestList_SortedNewestFirst(t *testing.T) {
	repo := &memRepo{entries: []models.Entry{
		{ID: "old", Date: "2026-08-01", CreatedAt: 1},
		{ID: "new", Date: "2026-08-27", CreatedAt: 2},
	}}
	svc := newTestLedger(repo)

	got, err := svc.List(context.Background(), ledger.Filters{}, auth.Session{Authorized: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
}

func TestList_Idempotent(t *testing.T) {
	repo := &memRepo{entries: []models.Entry{
		{ID: "a", Program: "Alpha", Date: "2026-08-01", CreatedAt: 1},
		{ID: "b", Program: "Alpha", Date: "2026-08-02", CreatedAt: 2},
		{ID: "c", Program: "Beta", Date: "2026-08-03", CreatedAt: 3},
	}}
	svc := newTestLedger(repo)
	session := auth.Session{Authorized: true, Program: "Alpha"}

	first, err := svc.List(context.Background(), ledger.Filters{}, session)
	require.NoError(t, err)
	second, err := svc.List(context.Background(), ledger.Filters{}, session)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestList_RepoError(t *testing.T) {
	wantErr := errors.New("read failed")
	repo := &mockRepo{
		ListFunc: func(ctx context.Context) ([]models.Entry, error) { return nil, wantErr },
	}
	svc := NewLedger(repo)

	_, err := svc.List(context.Background(), ledger.Filters{}, auth.Session{Authorized: true})
	assert.ErrorIs(t, err, wantErr)
}

func TestSummarize_ScopedTotals(t *testing.T) {
	repo := &memRepo{entries: []models.Entry{
		{ID: "a", Type: models.Income, Amount: 10, Program: "Alpha", Date: "2026-08-27"},
		{ID: "b", Type: models.Income, Amount: 99, Program: "Beta", Date: "2026-08-27"},
	}}
	svc := newTestLedger(repo)

	s, err := svc.Summarize(context.Background(), 30, ledger.Filters{}, auth.Session{Authorized: true, Program: "Alpha"})
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.Totals.Income)
	assert.Equal(t, 1, s.Count)
}

func TestExportCSV_AppliesScope(t *testing.T) {
	repo := &memRepo{entries: []models.Entry{
		{ID: "a", Type: models.Income, Amount: 10, Program: "Alpha", Date: "2026-08-27"},
		{ID: "b", Type: models.Income, Amount: 99, Program: "Beta", Date: "2026-08-27"},
	}}
	svc := newTestLedger(repo)

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), &buf, ledger.Filters{}, auth.Session{Authorized: true, Program: "Alpha"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "Beta")
}

func TestRemove_ScopedSessionCannotDeleteForeignEntry(t *testing.T) {
	repo := &memRepo{entries: []models.Entry{
		{ID: "mine", Program: "Alpha"},
		{ID: "theirs", Program: "Beta"},
	}}
	svc := newTestLedger(repo)
	session := auth.Session{Authorized: true, Program: "Alpha"}

	err := svc.Remove(context.Background(), "theirs", session)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, repo.entries, 2, "nothing removed")

	require.NoError(t, svc.Remove(context.Background(), "mine", session))
	require.Len(t, repo.entries, 1)
	assert.Equal(t, "theirs", repo.entries[0].ID)
}

func TestRemove_UnknownID(t *testing.T) {
	svc := newTestLedger(&memRepo{})
	err := svc.Remove(context.Background(), "ghost", auth.Session{Authorized: true})
	assert.ErrorIs(t, err, ErrNotFound)
}
