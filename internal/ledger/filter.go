package ledger

import (
	"time"

	"github.com/heybori/cashflow/internal/auth"
	"github.com/heybori/cashflow/internal/models"
)

// Filters carries the optional list/summary/export query constraints. All
// dimensions combine with logical AND. String matches are exact and
// case-sensitive; From/To form an inclusive calendar-date range.
type Filters struct {
	Team    string
	League  string
	Program string
	// From and To are YYYY-MM-DD bounds. Unparseable values are treated
	// as unbounded rather than rejected; the same policy applies to
	// list, summary, and export.
	From string
	To   string
}

// Apply returns the subset of entries matching the filters under the given
// session. When the session is scoped to a program, that program replaces
// any client-supplied program filter before matching: a caller can never
// widen its view to another tenant by naming one in the query.
func Apply(entries []models.Entry, f Filters, session auth.Session) []models.Entry {
	program := f.Program
	if session.Program != "" {
		program = session.Program
	}

	from, hasFrom := parseDay(f.From)
	to, hasTo := parseDay(f.To)

	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Team != "" && e.Team != f.Team {
			continue
		}
		if f.League != "" && e.League != f.League {
			continue
		}
		if program != "" && e.Program != program {
			continue
		}
		if hasFrom || hasTo {
			day, ok := parseDay(e.Date)
			if !ok {
				continue
			}
			if hasFrom && day.Before(from) {
				continue
			}
			// To is inclusive of the entire day.
			if hasTo && day.After(to) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// parseDay parses a YYYY-MM-DD string into a UTC midnight instant.
func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
