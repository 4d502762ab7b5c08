package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/captionflow/captionflow/internal/editor"
	"github.com/captionflow/captionflow/internal/logging"
)

var ErrSessionNotFound = errors.New("session not found")

// session serializes every call on its Store
type session struct {
	mu      sync.Mutex
	store   *editor.Store
	created time.Time
}

type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*session
	limits   editor.Limits
	logger   *logging.Logger
}

func NewSessions(limits editor.Limits, logger *logging.Logger) *Sessions {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Sessions{
		sessions: make(map[string]*session),
		limits:   limits,
		logger:   logger,
	}
}

func (s *Sessions) Create() string {
	id := uuid.NewString()
	store := editor.New(
		editor.WithLogger(s.logger.With("session", id)),
		editor.WithReadingSpeed(s.limits),
	)

	s.mu.Lock()
	s.sessions[id] = &session{store: store, created: time.Now()}
	s.mu.Unlock()

	s.logger.Infow("Session created", "session", id)
	return id
}

func (s *Sessions) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	s.logger.Infow("Session closed", "session", id)
	return true
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// With runs fn while holding the session's lock.
func (s *Sessions) With(id string, fn func(store *editor.Store) error) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrSessionNotFound
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.store)
}
