package http

import (
	"net/http"

	"github.com/sanalover24/Expense-Tracker/internal/core"
	"github.com/sanalover24/Expense-Tracker/internal/query"
)

// handleListTransactions returns transactions matching the query-string
// filter, plus income/expense totals of the filtered set.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	_, st, ok := s.requireStore(w, r)
	if !ok {
		return
	}

	categories := st.Categories()
	f := parseFilter(r.URL.Query()).Normalize(categories)
	filtered := query.Apply(st.Transactions(), categories, f)

	writeJSON(w, http.StatusOK, listResponse{
		Transactions: newTransactionViews(filtered, categories),
		Summary:      newTotalsView(query.Summarize(filtered)),
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, st, ok := s.requireStore(w, r)
	if !ok {
		return
	}

	var p transactionPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	draft, err := p.toTransaction(nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := st.AddTransaction(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	writeJSON(w, http.StatusCreated, newTransactionView(created, st.Categories()))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, st, ok := s.requireStore(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	var existing *core.Transaction
	for _, t := range st.Transactions() {
		if t.ID == id {
			match := t
			existing = &match
			break
		}
	}
	if existing == nil {
		writeError(w, r, notFound("transaction", id))
		return
	}

	var p transactionPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := p.toTransaction(existing)
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated.ID = id

	if err := st.UpdateTransaction(r.Context(), updated); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	writeJSON(w, http.StatusOK, newTransactionView(updated, st.Categories()))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	owner, st, ok := s.requireStore(w, r)
	if !ok {
		return
	}

	if err := st.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
