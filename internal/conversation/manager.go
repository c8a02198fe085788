package conversation

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/wibisono/ais-console/internal/hospital"
	"github.com/wibisono/ais-console/pkg/logging"
)

// ErrSessionNotFound is returned for unknown session identifiers.
var ErrSessionNotFound = errors.New("conversation: session not found")

// Manager is the session registry behind the chat surface. Each session is
// an independent state machine over the shared read-only fixture store.
type Manager struct {
	router   Decider
	repo     hospital.Repository
	greeting string
	logger   *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(router Decider, repo hospital.Repository, greeting string, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	return &Manager{
		router:   router,
		repo:     repo,
		greeting: greeting,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create opens a new session with a generated identifier.
func (m *Manager) Create() *Session {
	s := NewSession(generateSessionID(), m.router, m.repo, m.greeting, m.logger)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	m.logger.Info("conversation: session created", "session_id", s.ID())
	return s
}

// Get looks up an existing session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetOrCreate returns the session for id, or a fresh one when id is empty
// or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s
		}
	}
	return m.Create()
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}
