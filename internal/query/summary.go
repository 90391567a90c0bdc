package query

import (
	"sort"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/core"
)

type (
	// Totals are the income/expense sums of a transaction set.
	Totals struct {
		Income  core.Money
		Expense core.Money
		Balance core.Money
	}

	// CategoryTotal is an expense sum aggregated by category label.
	CategoryTotal struct {
		Name   string
		Amount core.Money
	}

	// DayTotal carries one day of the trailing weekly series.
	DayTotal struct {
		Label   string // short weekday name, e.g. "Mon"
		Date    time.Time
		Income  core.Money
		Expense core.Money
	}
)

// Summarize sums the given transactions by kind. An empty input yields zero
// totals, never an error.
func Summarize(transactions []core.Transaction) Totals {
	var t Totals
	for _, tr := range transactions {
		switch tr.Kind {
		case core.Income:
			t.Income = t.Income.Add(tr.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(tr.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// ExpenseByCategory aggregates expense totals per category label for the
// calendar month containing now. The dashboard always shows the current
// month regardless of any page-level date filter. Categories with no
// matching expenses are omitted entirely; results are ordered by amount,
// largest first, with ties broken by label for a deterministic output.
func ExpenseByCategory(transactions []core.Transaction, categories []core.Category, now time.Time) []CategoryTotal {
	sums := make(map[string]int64)
	for _, t := range transactions {
		if t.Kind != core.Expense {
			continue
		}
		if t.Date.Year() != now.Year() || t.Date.Month() != now.Month() {
			continue
		}
		sums[ResolveCategory(t, categories)] += t.Amount.Cents
	}

	out := make([]CategoryTotal, 0, len(sums))
	for name, cents := range sums {
		out = append(out, CategoryTotal{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// WeeklySeries buckets daily income and expense totals for the seven
// calendar days ending at now, oldest day first. The window is fixed and
// independent of any filter.
func WeeklySeries(transactions []core.Transaction, now time.Time) []DayTotal {
	out := make([]DayTotal, 0, 7)
	for i := 6; i >= 0; i-- {
		day := startOfDay(now.AddDate(0, 0, -i))
		dt := DayTotal{Label: day.Format("Mon"), Date: day}
		for _, t := range transactions {
			if !sameDay(t.Date, day) {
				continue
			}
			switch t.Kind {
			case core.Income:
				dt.Income = dt.Income.Add(t.Amount)
			case core.Expense:
				dt.Expense = dt.Expense.Add(t.Amount)
			}
		}
		out = append(out, dt)
	}
	return out
}

// MonthTotals sums transactions in the calendar month containing now.
// The dashboard stat cards use this rather than the page filter.
func MonthTotals(transactions []core.Transaction, now time.Time) Totals {
	month := make([]core.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Date.Year() == now.Year() && t.Date.Month() == now.Month() {
			month = append(month, t)
		}
	}
	return Summarize(month)
}
