// Package seed provides the default dataset used for new accounts and the
// destructive "reset to defaults" action.
package seed

import (
	"time"

	"github.com/google/uuid"
	"github.com/sanalover24/Expense-Tracker/internal/core"
)

// Categories returns the default category set.
func Categories() []core.Category {
	return []core.Category{
		{ID: uuid.NewString(), Name: "Salary", Kind: core.Income},
		{ID: uuid.NewString(), Name: "Freelance", Kind: core.Income},
		{ID: uuid.NewString(), Name: "Gifts", Kind: core.Income},
		{ID: uuid.NewString(), Name: "Food", Kind: core.Expense},
		{ID: uuid.NewString(), Name: "Rent", Kind: core.Expense},
		{ID: uuid.NewString(), Name: "Transport", Kind: core.Expense},
		{ID: uuid.NewString(), Name: "Shopping", Kind: core.Expense},
		{ID: uuid.NewString(), Name: "Utilities", Kind: core.Expense},
		{ID: uuid.NewString(), Name: "Entertainment", Kind: core.Expense},
	}
}

// Transactions returns the sample transaction set, dated within the calendar
// month containing now so a fresh account has a meaningful dashboard.
// Days past the current month's length are clamped to its last day.
func Transactions(now time.Time) []core.Transaction {
	samples := []struct {
		kind     core.Kind
		category string
		cents    int64
		day      int
		hour     int
		minute   int
		note     string
	}{
		{core.Income, "Salary", 5000000, 1, 9, 0, "Monthly salary"},
		{core.Expense, "Rent", 1800000, 3, 18, 30, "House rent"},
		{core.Expense, "Shopping", 250000, 5, 15, 15, "New shoes"},
		{core.Income, "Freelance", 800000, 6, 11, 0, "Logo design"},
		{core.Expense, "Food", 120000, 2, 13, 0, "Lunch at cafe"},
		{core.Expense, "Transport", 50000, 8, 8, 45, "Bus fare"},
		{core.Expense, "Food", 150000, 10, 20, 0, "Dinner with friends"},
		{core.Expense, "Entertainment", 80000, 12, 19, 30, "Movie tickets"},
		{core.Income, "Gifts", 200000, 15, 12, 0, "Birthday gift"},
		{core.Expense, "Utilities", 320000, 20, 18, 0, "Electricity and Internet bill"},
	}

	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	out := make([]core.Transaction, 0, len(samples))
	for _, s := range samples {
		day := s.day
		if day > lastDay {
			day = lastDay
		}
		out = append(out, core.Transaction{
			ID:       uuid.NewString(),
			Kind:     s.kind,
			Category: s.category,
			Amount:   core.Money{Cents: s.cents},
			Date:     time.Date(now.Year(), now.Month(), day, s.hour, s.minute, 0, 0, now.Location()),
			Note:     s.note,
		})
	}
	return out
}
