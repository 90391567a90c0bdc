package http

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/core"
	"github.com/sanalover24/Expense-Tracker/internal/query"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, f query.Filter)
	}{
		{
			name:  "empty query gives zero filter with default sort",
			query: "",
			check: func(t *testing.T, f query.Filter) {
				if f.Date.Mode != query.DateModeNone || f.Sort != query.SortDateDesc {
					t.Errorf("filter=%+v", f)
				}
			},
		},
		{
			name:  "day mode",
			query: "mode=day&day=2026-03-15",
			check: func(t *testing.T, f query.Filter) {
				if f.Date.Mode != query.DateModeDay {
					t.Fatalf("mode=%q", f.Date.Mode)
				}
				if got := f.Date.Day.Format("2006-01-02"); got != "2026-03-15" {
					t.Errorf("day=%s", got)
				}
			},
		},
		{
			name:  "month mode",
			query: "mode=month&year=2026&month=2",
			check: func(t *testing.T, f query.Filter) {
				if f.Date.Year != 2026 || f.Date.Month != time.February {
					t.Errorf("year=%d month=%v", f.Date.Year, f.Date.Month)
				}
			},
		},
		{
			name:  "month mode with out-of-range month passes everything",
			query: "mode=month&year=2026&month=13",
			check: func(t *testing.T, f query.Filter) {
				if f.Date.Year != 0 {
					t.Errorf("year=%d, want 0 for malformed month", f.Date.Year)
				}
			},
		},
		{
			name:  "range mode",
			query: "mode=range&start=2026-01-01&end=2026-01-31",
			check: func(t *testing.T, f query.Filter) {
				if f.Date.Start.IsZero() || f.Date.End.IsZero() {
					t.Errorf("range not parsed: %+v", f.Date)
				}
			},
		},
		{
			name:  "inverted range falls back to no bounds",
			query: "mode=range&start=2026-02-01&end=2026-01-01",
			check: func(t *testing.T, f query.Filter) {
				if !f.Date.Start.IsZero() || !f.Date.End.IsZero() {
					t.Errorf("inverted range should be dropped: %+v", f.Date)
				}
			},
		},
		{
			name:  "kind search category sort",
			query: "kind=expense&q=coffee&category=Food&sort=amount-desc",
			check: func(t *testing.T, f query.Filter) {
				if f.Kind != core.Expense || f.Search != "coffee" ||
					f.Category != "Food" || f.Sort != query.SortAmountDesc {
					t.Errorf("filter=%+v", f)
				}
			},
		},
		{
			name:  "unknown kind and sort fall back",
			query: "kind=transfer&sort=alphabetical",
			check: func(t *testing.T, f query.Filter) {
				if f.Kind != "" || f.Sort != query.SortDateDesc {
					t.Errorf("filter=%+v", f)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			tt.check(t, parseFilter(values))
		})
	}
}

func TestParseDate(t *testing.T) {
	if _, err := parseDate("2026-05-09"); err != nil {
		t.Errorf("calendar date rejected: %v", err)
	}
	if _, err := parseDate("2026-05-09T14:30:00Z"); err != nil {
		t.Errorf("RFC 3339 rejected: %v", err)
	}
	if _, err := parseDate("09/05/2026"); err == nil {
		t.Error("slash date should be rejected")
	}
}

func TestToTransactionCreate(t *testing.T) {
	p := transactionPayload{
		Kind:     "expense",
		Amount:   "12.50",
		Category: "Food",
		Date:     "2026-04-01",
		Note:     "  lunch \x00 ",
	}
	tx, err := p.toTransaction(nil)
	if err != nil {
		t.Fatalf("toTransaction: %v", err)
	}
	if tx.Amount.Cents != 1250 || tx.Kind != core.Expense {
		t.Errorf("tx=%+v", tx)
	}
	if tx.Note != "lunch" {
		t.Errorf("note=%q, control characters should be stripped", tx.Note)
	}
}

func TestToTransactionCreateRequiresAllFields(t *testing.T) {
	tests := []struct {
		name    string
		payload transactionPayload
		wantErr error
	}{
		{"missing kind", transactionPayload{Amount: "1.00", Category: "Food", Date: "2026-04-01"}, core.ErrInvalidKind},
		{"missing amount", transactionPayload{Kind: "income", Category: "Salary", Date: "2026-04-01"}, core.ErrInvalidAmount},
		{"missing category", transactionPayload{Kind: "income", Amount: "1.00", Date: "2026-04-01"}, core.ErrEmptyCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.payload.toTransaction(nil); !errors.Is(err, tt.wantErr) {
				t.Errorf("err=%v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestToTransactionUpdateMergesBlankFields(t *testing.T) {
	existing := core.Transaction{
		ID:       "t1",
		Kind:     core.Expense,
		Category: "Food",
		Amount:   core.Money{Cents: 900},
		Date:     time.Date(2026, 4, 1, 13, 45, 10, 0, time.UTC),
		Note:     "lunch",
	}

	p := transactionPayload{Amount: "11.00"}
	tx, err := p.toTransaction(&existing)
	if err != nil {
		t.Fatalf("toTransaction: %v", err)
	}
	if tx.Amount.Cents != 1100 {
		t.Errorf("cents=%d, want 1100", tx.Amount.Cents)
	}
	if tx.Kind != core.Expense || tx.Category != "Food" || tx.Note != "lunch" {
		t.Errorf("blank fields should keep current values: %+v", tx)
	}
	if !tx.Date.Equal(existing.Date) {
		t.Errorf("date changed without a date in the payload")
	}
}

func TestToTransactionUpdateKeepsTimeOfDay(t *testing.T) {
	existing := core.Transaction{
		ID:       "t1",
		Kind:     core.Expense,
		Category: "Food",
		Amount:   core.Money{Cents: 900},
		Date:     time.Date(2026, 4, 1, 13, 45, 10, 0, time.UTC),
	}

	p := transactionPayload{Date: "2026-04-07"}
	tx, err := p.toTransaction(&existing)
	if err != nil {
		t.Fatalf("toTransaction: %v", err)
	}
	want := time.Date(2026, 4, 7, 13, 45, 10, 0, time.UTC)
	if !tx.Date.Equal(want) {
		t.Errorf("date=%v, want %v", tx.Date, want)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  plain  ", "plain"},
		{"a\x00b\x1fc", "abc"},
		{"keeps\ttabs and\nnewlines", "keeps\ttabs and\nnewlines"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}
