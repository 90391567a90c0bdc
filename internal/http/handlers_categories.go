package http

import (
	"net/http"

	"github.com/sanalover24/Expense-Tracker/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	_, st, ok := s.requireStore(w, r)
	if !ok {
		return
	}

	categories := st.Categories()
	out := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, newCategoryView(c))
	}
	writeJSON(w, http.StatusOK, map[string][]categoryView{"categories": out})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	owner, st, ok := s.requireStore(w, r)
	if !ok {
		return
	}

	var p categoryPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	draft, err := p.toCategory()
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := st.AddCategory(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	writeJSON(w, http.StatusCreated, newCategoryView(created))
}

// handleUpdateCategory renames a category. The kind is fixed after creation;
// sending a different kind is rejected. Renaming atomically repoints every
// transaction referencing the old name.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	owner, st, ok := s.requireStore(w, r)
	if !ok {
		return
	}

	var p categoryPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	var kind core.Kind
	if p.Kind != "" {
		parsed, err := core.ParseKind(p.Kind)
		if err != nil {
			writeError(w, r, err)
			return
		}
		kind = parsed
	}

	updated := core.Category{
		ID:   r.PathValue("id"),
		Name: sanitizeInput(p.Name),
		Kind: kind,
	}
	if err := st.UpdateCategory(r.Context(), updated); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)

	// Reflect the stored state, including the immutable kind.
	for _, c := range st.Categories() {
		if c.ID == updated.ID {
			writeJSON(w, http.StatusOK, newCategoryView(c))
			return
		}
	}
	writeJSON(w, http.StatusOK, newCategoryView(updated))
}

// handleDeleteCategory removes the category and every transaction that
// references it.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	owner, st, ok := s.requireStore(w, r)
	if !ok {
		return
	}

	if err := st.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
