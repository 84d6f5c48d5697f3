// Package models defines the core data structures for ledger entries and
// aggregation results.
package models

// EntryType identifies the direction of a ledger entry.
type EntryType string

const (
	// Income represents money coming into a program.
	Income EntryType = "income"
	// Expense represents money going out of a program.
	Expense EntryType = "expense"
)

// Sentinel labels substituted for blank categorical fields so aggregation
// buckets stay well-defined.
const (
	// Uncategorized is stored in place of a blank category.
	Uncategorized = "(uncategorized)"
	// NoProgram keys aggregation rows for entries without a program.
	NoProgram = "(no program)"
	// NoTeamLeague stands in for a missing team or league inside the
	// "<team> | <league>" composite key.
	NoTeamLeague = "-"
)

// Entry is a single income or expense transaction. Entries are append-only:
// once stored they are never mutated, only removed by id.
type Entry struct {
	// ID is the unique identifier assigned at creation.
	ID string `json:"id"`
	// Type is either "income" or "expense".
	Type EntryType `json:"type"`
	// Amount is the transaction value in currency units, always rounded
	// to two decimal places.
	Amount float64 `json:"amount"`
	// Category buckets the entry for reporting; never blank (see Uncategorized).
	Category string `json:"category"`
	// Note is free-form text supplied by the caller.
	Note string `json:"note"`
	// Date is the calendar date of the transaction in YYYY-MM-DD form.
	Date string `json:"date"`
	// Team and League are optional grouping labels.
	Team   string `json:"team"`
	League string `json:"league"`
	// Program is the tenant the entry belongs to; scoped sessions only
	// ever see entries of their own program.
	Program string `json:"program"`
	// CreatedAt and UpdatedAt are Unix-millisecond timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Totals holds the rolled-up income/expense sums of a summary window.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// Bucket is one grouped income/expense pair inside a summary break-down.
type Bucket struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Summary is the aggregation result over a trailing date window.
type Summary struct {
	RangeDays    int               `json:"rangeDays"`
	Totals       Totals            `json:"totals"`
	ByCategory   map[string]Bucket `json:"byCategory"`
	ByTeamLeague map[string]Bucket `json:"byTeamLeague"`
	ByProgram    map[string]Bucket `json:"byProgram"`
	// Count is the number of entries that contributed to Totals.
	Count int `json:"count"`
}
