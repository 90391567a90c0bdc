package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/core"
	"github.com/sanalover24/Expense-Tracker/internal/query"
)

const maxBodyBytes = 64 << 10

// decodeJSON reads a JSON request body into dst with a size cap.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline, and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

type transactionPayload struct {
	Kind     string `json:"kind"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Note     string `json:"note"`
}

// toTransaction builds a validated draft from the payload. When existing is
// non-nil (an update) the payload's date replaces only the calendar date,
// keeping the stored time of day, and blank fields keep their current value.
func (p transactionPayload) toTransaction(existing *core.Transaction) (core.Transaction, error) {
	var t core.Transaction
	if existing != nil {
		t = *existing
	}

	if p.Kind != "" || existing == nil {
		kind, err := core.ParseKind(p.Kind)
		if err != nil {
			return core.Transaction{}, err
		}
		t.Kind = kind
	}

	if p.Amount != "" || existing == nil {
		cents, err := core.ParseDecimalToCents(strings.TrimSpace(p.Amount))
		if err != nil {
			return core.Transaction{}, err
		}
		t.Amount = core.Money{Cents: cents}
	}

	if p.Category != "" || existing == nil {
		t.Category = sanitizeInput(p.Category)
	}

	if p.Date != "" || existing == nil {
		date, err := parseDate(p.Date)
		if err != nil {
			return core.Transaction{}, err
		}
		if existing != nil && !existing.Date.IsZero() {
			// Keep the original time of day so intra-day ordering survives
			// a date edit.
			prev := existing.Date
			date = time.Date(date.Year(), date.Month(), date.Day(),
				prev.Hour(), prev.Minute(), prev.Second(), prev.Nanosecond(), prev.Location())
		}
		t.Date = date
	}

	if p.Note != "" || existing == nil {
		t.Note = sanitizeInput(p.Note)
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

type categoryPayload struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (p categoryPayload) toCategory() (core.Category, error) {
	var kind core.Kind
	if p.Kind != "" {
		parsed, err := core.ParseKind(p.Kind)
		if err != nil {
			return core.Category{}, err
		}
		kind = parsed
	}
	return core.Category{Name: sanitizeInput(p.Name), Kind: kind}, nil
}

// parseDate accepts a plain calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, unprocessable("invalid date: expected YYYY-MM-DD or RFC 3339")
}

// parseFilter reads the list-view query parameters. Unknown or malformed
// values fall back to the zero filter rather than failing the request.
func parseFilter(values url.Values) query.Filter {
	f := query.Filter{
		Search:   sanitizeInput(values.Get("q")),
		Category: sanitizeInput(values.Get("category")),
		Sort:     parseSortKey(values.Get("sort")),
	}

	if kind, err := core.ParseKind(values.Get("kind")); err == nil {
		f.Kind = kind
	}

	switch query.DateMode(strings.TrimSpace(values.Get("mode"))) {
	case query.DateModeDay:
		f.Date.Mode = query.DateModeDay
		if day, err := time.Parse("2006-01-02", values.Get("day")); err == nil {
			f.Date.Day = day
		}
	case query.DateModeMonth:
		f.Date.Mode = query.DateModeMonth
		if y, err := strconv.Atoi(values.Get("year")); err == nil {
			f.Date.Year = y
		}
		if m, err := strconv.Atoi(values.Get("month")); err == nil && m >= 1 && m <= 12 {
			f.Date.Month = time.Month(m)
		} else {
			f.Date.Year = 0
		}
	case query.DateModeRange:
		f.Date.Mode = query.DateModeRange
		start, errStart := time.Parse("2006-01-02", values.Get("start"))
		end, errEnd := time.Parse("2006-01-02", values.Get("end"))
		if errStart == nil && errEnd == nil && !end.Before(start) {
			f.Date.Start = start
			f.Date.End = end
		}
	}

	return f
}

func parseSortKey(s string) query.SortKey {
	switch query.SortKey(strings.TrimSpace(s)) {
	case query.SortDateAsc:
		return query.SortDateAsc
	case query.SortAmountDesc:
		return query.SortAmountDesc
	case query.SortAmountAsc:
		return query.SortAmountAsc
	default:
		return query.SortDateDesc
	}
}
