package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/store"
)

const sessionCookie = "session_token"

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var p credentialsPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.sessions.Register(p.Username, p.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": p.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var p credentialsPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := s.sessions.Login(p.Username, p.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	username, err := s.sessions.Identify(token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Warm the store so the first page load after login is served from
	// memory. A failure here is surfaced: signing in with an unreachable
	// backing store is not a working session.
	if _, err := s.stores.Get(r.Context(), username); err != nil {
		s.sessions.SignOut(token)
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	writeJSON(w, http.StatusOK, map[string]string{"username": username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if username, err := s.sessions.Identify(cookie.Value); err == nil {
			// Sign-out drops the in-memory store; a returning identity
			// starts from a fresh load.
			s.stores.Drop(username)
			s.invalidateDashboard(username)
		}
		s.sessions.SignOut(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	username, err := s.identify(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": username})
}

// identify resolves the session cookie to a username.
func (s *Server) identify(r *http.Request) (string, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", store.ErrNotSignedIn
	}
	username, err := s.sessions.Identify(cookie.Value)
	if err != nil {
		return "", err
	}
	return username, nil
}

// requireStore resolves the session and returns the caller's store.
func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) (string, *store.Store, bool) {
	username, err := s.identify(r)
	if err != nil {
		writeError(w, r, err)
		return "", nil, false
	}
	st, err := s.stores.Get(r.Context(), username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Store load failed", "owner", username, "error", err)
		writeError(w, r, err)
		return "", nil, false
	}
	return username, st, true
}
