// Package query computes the derived views the UI consumes: filtered and
// sorted transaction lists plus dashboard aggregates. All functions are pure;
// they never mutate their inputs and can be re-run on every change.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/core"
)

const (
	DateModeNone  DateMode = ""
	DateModeDay   DateMode = "day"
	DateModeMonth DateMode = "month"
	DateModeRange DateMode = "range"
)

const (
	SortDateDesc   SortKey = "date-desc"
	SortDateAsc    SortKey = "date-asc"
	SortAmountDesc SortKey = "amount-desc"
	SortAmountAsc  SortKey = "amount-asc"
)

type (
	DateMode string
	SortKey  string

	// DateFilter narrows transactions to a single day, a calendar month, or
	// an inclusive date range. The zero value passes everything.
	DateFilter struct {
		Mode  DateMode
		Day   time.Time // day mode
		Year  int       // month mode
		Month time.Month
		Start time.Time // range mode, inclusive
		End   time.Time
	}

	// Filter is the per-page set of user-chosen parameters. The zero value
	// matches all transactions sorted by date, newest first.
	Filter struct {
		Date     DateFilter
		Search   string
		Kind     core.Kind // empty = all
		Category string    // empty = all
		Sort     SortKey
	}
)

// Matches reports whether the transaction date passes the filter. Only the
// calendar date is considered, never the time of day.
func (f DateFilter) Matches(at time.Time) bool {
	switch f.Mode {
	case DateModeDay:
		if f.Day.IsZero() {
			return true
		}
		return sameDay(at, f.Day)
	case DateModeMonth:
		if f.Year == 0 {
			return true
		}
		return at.Year() == f.Year && at.Month() == f.Month
	case DateModeRange:
		if f.Start.IsZero() || f.End.IsZero() {
			return true
		}
		start := startOfDay(f.Start)
		end := endOfDay(f.End)
		return !at.Before(start) && !at.After(end)
	default:
		return true
	}
}

// Normalize drops a category selection that is impossible under the current
// kind filter, so narrowing the kind never silently yields an empty list.
func (f Filter) Normalize(categories []core.Category) Filter {
	if f.Kind == "" || f.Category == "" {
		return f
	}
	for _, c := range categories {
		if c.Name == f.Category && c.Kind == f.Kind {
			return f
		}
	}
	f.Category = ""
	return f
}

// Apply returns the transactions matching the filter, stably sorted by the
// filter's sort key. Category labels are resolved against categories for the
// free-text search, with the uncategorized fallback for dangling references.
func Apply(transactions []core.Transaction, categories []core.Category, f Filter) []core.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !f.Date.Matches(t.Date) {
			continue
		}
		if f.Kind != "" && t.Kind != f.Kind {
			continue
		}
		label := ResolveCategory(t, categories)
		if f.Category != "" && label != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Note), search) &&
			!strings.Contains(strings.ToLower(label), search) {
			continue
		}
		out = append(out, t)
	}
	sortTransactions(out, f.Sort)
	return out
}

// ResolveCategory returns the display label for the transaction's category
// reference. A reference that no longer resolves degrades to the fallback
// label instead of failing.
func ResolveCategory(t core.Transaction, categories []core.Category) string {
	for _, c := range categories {
		if c.Name == t.Category {
			return c.Name
		}
	}
	return core.UncategorizedLabel
}

// sortTransactions orders in place. The sort must be stable: equal keys keep
// their pre-sort relative order.
func sortTransactions(ts []core.Transaction, key SortKey) {
	switch key {
	case SortDateAsc:
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].Date.Before(ts[j].Date) })
	case SortAmountDesc:
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].Amount.Cents > ts[j].Amount.Cents })
	case SortAmountAsc:
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].Amount.Cents < ts[j].Amount.Cents })
	default: // SortDateDesc
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].Date.After(ts[j].Date) })
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
