package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// handleDashboard returns the current-month stat cards, the expense
// breakdown by category, and the trailing seven-day series. The window is
// always anchored to now, independent of any list-view filter. Responses
// are cached per owner and invalidated on every write.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	owner, st, ok := s.requireStore(w, r)
	if !ok {
		return
	}

	key := owner + ":dashboard"
	if cached, found := s.dashCache.Get(key); found {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "owner", owner)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	resp := newDashboardResponse(st.Transactions(), st.Categories(), time.Now())
	s.dashCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// resetConfirmationPhrase must be typed exactly to arm the reset.
const resetConfirmationPhrase = "RESET"

type resetPayload struct {
	Confirm string `json:"confirm"`
}

// handleReset replaces the caller's data with the seed dataset. The request
// must carry the typed confirmation phrase; anything else is rejected
// without touching any data.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	owner, st, ok := s.requireStore(w, r)
	if !ok {
		return
	}

	var p resetPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(p.Confirm) != resetConfirmationPhrase {
		writeError(w, r, unprocessable("reset requires typing the confirmation phrase"))
		return
	}

	if err := st.ResetToDefaults(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateDashboard(owner)
	slog.InfoContext(r.Context(), "Data reset to defaults", "owner", owner)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
