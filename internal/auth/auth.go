// Package auth provides user accounts and session tokens for the HTTP layer.
// Passwords are stored as salted SHA-256 digests; sessions are random tokens
// held in memory with a sliding expiry.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionExpired     = errors.New("session expired")
	ErrEmptyUsername      = errors.New("username cannot be empty")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type account struct {
	username string
	salt     []byte
	digest   [sha256.Size]byte
}

type session struct {
	username  string
	expiresAt time.Time
}

// Manager holds accounts and live sessions. All methods are safe for
// concurrent use.
type Manager struct {
	mu         sync.RWMutex
	accounts   map[string]account
	sessions   map[string]session
	sessionTTL time.Duration
}

func NewManager(sessionTTL time.Duration) *Manager {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Manager{
		accounts:   make(map[string]account),
		sessions:   make(map[string]session),
		sessionTTL: sessionTTL,
	}
}

// Register creates a new account. Usernames are case-insensitive.
func (m *Manager) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}

	key := strings.ToLower(username)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[key]; ok {
		return fmt.Errorf("%s: %w", username, ErrUserExists)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	m.accounts[key] = account{
		username: username,
		salt:     salt,
		digest:   hashPassword(salt, password),
	}

	slog.Info("Account registered", "username", username)
	return nil
}

// Login checks credentials and returns a new session token.
func (m *Manager) Login(username, password string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(username))

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[key]
	if !ok {
		return "", ErrInvalidCredentials
	}
	digest := hashPassword(acct.salt, password)
	if subtle.ConstantTimeCompare(digest[:], acct.digest[:]) != 1 {
		return "", ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	m.sessions[token] = session{
		username:  acct.username,
		expiresAt: time.Now().Add(m.sessionTTL),
	}

	slog.Info("Session opened", "username", acct.username)
	return token, nil
}

// Identify resolves a session token to a username, extending the expiry.
func (m *Manager) Identify(token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return "", ErrInvalidCredentials
	}
	if time.Now().After(s.expiresAt) {
		delete(m.sessions, token)
		return "", ErrSessionExpired
	}
	s.expiresAt = time.Now().Add(m.sessionTTL)
	m.sessions[token] = s
	return s.username, nil
}

// SignOut invalidates the session token. Unknown tokens are a no-op.
func (m *Manager) SignOut(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Sweep drops expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for token, s := range m.sessions {
		if now.After(s.expiresAt) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

func hashPassword(salt []byte, password string) [sha256.Size]byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(password))
	var digest [sha256.Size]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
