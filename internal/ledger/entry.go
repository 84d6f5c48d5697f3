// Package ledger holds the domain logic of the cash flow core: entry
// validation, scope-aware filtering, and windowed aggregation. Everything in
// this package is a pure computation over an in-memory entry snapshot.
package ledger

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heybori/cashflow/internal/models"
)

// dateFormat is the canonical YYYY-MM-DD entry date layout.
const dateFormat = "2006-01-02"

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidationError reports a single violated constraint of an add request.
type ValidationError struct {
	// Field names the offending input field.
	Field string
	// Reason is the human-readable constraint message.
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// EntryParams is the loosely-typed add request before validation. Amount
// arrives as a string so callers can accept both JSON numbers and form
// values without coercing ad hoc.
type EntryParams struct {
	Type     string
	Amount   string
	Category string
	Note     string
	Date     string
	Team     string
	League   string
	Program  string
}

// NewEntry validates and normalizes an add request into a fully-constrained
// entry. scopeProgram, when non-empty, silently overrides the submitted
// program so a scoped session cannot write into another tenant. Malformed
// dates clamp to today. The amount is parsed as a positive decimal and
// rounded half-up to cents before it ever reaches storage.
func NewEntry(params EntryParams, scopeProgram string, now time.Time) (models.Entry, error) {
	typ := models.EntryType(strings.ToLower(strings.TrimSpace(params.Type)))
	if typ != models.Income && typ != models.Expense {
		return models.Entry{}, &ValidationError{Field: "type", Reason: "type must be income|expense"}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(params.Amount))
	if err != nil || !amount.IsPositive() {
		return models.Entry{}, &ValidationError{Field: "amount", Reason: "amount must be a positive number"}
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return models.Entry{}, &ValidationError{Field: "amount", Reason: "amount must be at least 0.01"}
	}

	category := strings.TrimSpace(params.Category)
	if category == "" {
		category = models.Uncategorized
	}

	program := strings.TrimSpace(params.Program)
	if scopeProgram != "" {
		program = scopeProgram
	}

	ts := now.UnixMilli()
	return models.Entry{
		ID:        uuid.NewString(),
		Type:      typ,
		Amount:    amount.InexactFloat64(),
		Category:  category,
		Note:      strings.TrimSpace(params.Note),
		Date:      clampDate(params.Date, now),
		Team:      strings.TrimSpace(params.Team),
		League:    strings.TrimSpace(params.League),
		Program:   program,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

// clampDate returns the input when it is a parseable YYYY-MM-DD date and
// today otherwise.
func clampDate(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if isoDate.MatchString(s) {
		if _, err := time.Parse(dateFormat, s); err == nil {
			return s
		}
	}
	return now.UTC().Format(dateFormat)
}

// SortNewestFirst orders entries by (date desc, createdAt desc), the
// canonical list order.
func SortNewestFirst(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].CreatedAt > entries[j].CreatedAt
	})
}

// round2 rounds a high-precision accumulator to cents for output.
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// teamLeagueKey builds the "<team> | <league>" composite aggregation key,
// substituting a dash for missing sides.
func teamLeagueKey(team, league string) string {
	if team == "" {
		team = models.NoTeamLeague
	}
	if league == "" {
		league = models.NoTeamLeague
	}
	return fmt.Sprintf("%s | %s", team, league)
}
