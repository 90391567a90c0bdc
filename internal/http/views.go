package http

import (
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/core"
	"github.com/sanalover24/Expense-Tracker/internal/query"
)

// JSON shapes returned by the API. Amounts appear both as a decimal string
// and as integer cents so clients never have to parse money.

type transactionView struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Label       string `json:"category_label"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Date        string `json:"date"`
	Note        string `json:"note,omitempty"`
}

func newTransactionView(t core.Transaction, categories []core.Category) transactionView {
	return transactionView{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Category:    t.Category,
		Label:       query.ResolveCategory(t, categories),
		Amount:      t.Amount.String(),
		AmountCents: t.Amount.Cents,
		Date:        t.Date.Format("2006-01-02"),
		Note:        t.Note,
	}
}

func newTransactionViews(ts []core.Transaction, categories []core.Category) []transactionView {
	out := make([]transactionView, 0, len(ts))
	for _, t := range ts {
		out = append(out, newTransactionView(t, categories))
	}
	return out
}

type categoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func newCategoryView(c core.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Kind: string(c.Kind)}
}

type totalsView struct {
	Income       string `json:"income"`
	IncomeCents  int64  `json:"income_cents"`
	Expense      string `json:"expense"`
	ExpenseCents int64  `json:"expense_cents"`
	Balance      string `json:"balance"`
	BalanceCents int64  `json:"balance_cents"`
}

func newTotalsView(t query.Totals) totalsView {
	return totalsView{
		Income:       t.Income.String(),
		IncomeCents:  t.Income.Cents,
		Expense:      t.Expense.String(),
		ExpenseCents: t.Expense.Cents,
		Balance:      t.Balance.String(),
		BalanceCents: t.Balance.Cents,
	}
}

type categoryTotalView struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
}

type dayTotalView struct {
	Label        string `json:"label"`
	Date         string `json:"date"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
}

type listResponse struct {
	Transactions []transactionView `json:"transactions"`
	Summary      totalsView        `json:"summary"`
}

type dashboardResponse struct {
	Month       totalsView          `json:"month"`
	ByCategory  []categoryTotalView `json:"by_category"`
	Weekly      []dayTotalView      `json:"weekly"`
	GeneratedAt string              `json:"generated_at"`
}

func newDashboardResponse(ts []core.Transaction, categories []core.Category, now time.Time) dashboardResponse {
	byCat := query.ExpenseByCategory(ts, categories, now)
	catViews := make([]categoryTotalView, 0, len(byCat))
	for _, c := range byCat {
		catViews = append(catViews, categoryTotalView{
			Name:        c.Name,
			Amount:      c.Amount.String(),
			AmountCents: c.Amount.Cents,
		})
	}

	weekly := query.WeeklySeries(ts, now)
	dayViews := make([]dayTotalView, 0, len(weekly))
	for _, d := range weekly {
		dayViews = append(dayViews, dayTotalView{
			Label:        d.Label,
			Date:         d.Date.Format("2006-01-02"),
			IncomeCents:  d.Income.Cents,
			ExpenseCents: d.Expense.Cents,
		})
	}

	return dashboardResponse{
		Month:       newTotalsView(query.MonthTotals(ts, now)),
		ByCategory:  catViews,
		Weekly:      dayViews,
		GeneratedAt: now.UTC().Format(time.RFC3339),
	}
}
