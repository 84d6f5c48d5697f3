package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/heybori/cashflow/internal/auth"
	"github.com/heybori/cashflow/internal/models"
)

// Window bounds for the trailing summary range, in days.
const (
	MinWindowDays     = 1
	MaxWindowDays     = 365
	DefaultWindowDays = 30
)

// ClampWindow forces a requested range into [MinWindowDays, MaxWindowDays],
// substituting the default for non-positive unset values.
func ClampWindow(days int) int {
	if days == 0 {
		days = DefaultWindowDays
	}
	if days < MinWindowDays {
		return MinWindowDays
	}
	if days > MaxWindowDays {
		return MaxWindowDays
	}
	return days
}

// Summarize aggregates the entries falling inside the trailing windowDays
// window that also pass the scope filter. The window is day-granular: an
// entry dated exactly windowDays ago is included, one day further back is
// not. Entries with a missing or unparseable date count as today. Sums
// accumulate in decimals and are rounded to cents only at the output
// boundary.
func Summarize(entries []models.Entry, windowDays int, f Filters, session auth.Session, now time.Time) models.Summary {
	days := ClampWindow(windowDays)
	today := now.UTC().Truncate(24 * time.Hour)
	cutoff := today.AddDate(0, 0, -days)

	within := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		day, ok := parseDay(e.Date)
		if !ok {
			day = today
		}
		if day.Before(cutoff) {
			continue
		}
		within = append(within, e)
	}
	within = Apply(within, f, session)

	var income, expense decimal.Decimal
	byCategory := make(map[string]bucket)
	byTeamLeague := make(map[string]bucket)
	byProgram := make(map[string]bucket)

	for _, e := range within {
		amount := decimal.NewFromFloat(e.Amount)
		if e.Type == models.Income {
			income = income.Add(amount)
		} else {
			expense = expense.Add(amount)
		}

		category := e.Category
		if category == "" {
			category = models.Uncategorized
		}
		byCategory[category] = byCategory[category].add(e.Type, amount)
		tl := teamLeagueKey(e.Team, e.League)
		byTeamLeague[tl] = byTeamLeague[tl].add(e.Type, amount)
		program := e.Program
		if program == "" {
			program = models.NoProgram
		}
		byProgram[program] = byProgram[program].add(e.Type, amount)
	}

	return models.Summary{
		RangeDays: days,
		Totals: models.Totals{
			Income:  round2(income),
			Expense: round2(expense),
			Net:     round2(income.Sub(expense)),
		},
		ByCategory:   roundBuckets(byCategory),
		ByTeamLeague: roundBuckets(byTeamLeague),
		ByProgram:    roundBuckets(byProgram),
		Count:        len(within),
	}
}

// bucket accumulates one grouped income/expense pair at full precision.
type bucket struct {
	income  decimal.Decimal
	expense decimal.Decimal
}

func (b bucket) add(typ models.EntryType, amount decimal.Decimal) bucket {
	if typ == models.Income {
		b.income = b.income.Add(amount)
	} else {
		b.expense = b.expense.Add(amount)
	}
	return b
}

func roundBuckets(in map[string]bucket) map[string]models.Bucket {
	out := make(map[string]models.Bucket, len(in))
	for k, b := range in {
		out[k] = models.Bucket{Income: round2(b.income), Expense: round2(b.expense)}
	}
	return out
}
