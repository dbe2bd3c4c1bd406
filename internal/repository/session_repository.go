package repository

import (
	"sync"
	"time"

	"mastersol/internal/domain"
	"mastersol/internal/session"
)

// SessionRepositoryImpl keeps live sessions in process memory
type SessionRepositoryImpl struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository() *SessionRepositoryImpl {
	return &SessionRepositoryImpl{sessions: make(map[string]*session.Session)}
}

// Save stores a session under its id
func (r *SessionRepositoryImpl) Save(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// GetByID retrieves a session by id
func (r *SessionRepositoryImpl) GetByID(id string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session and returns it
func (r *SessionRepositoryImpl) Delete(id string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return s, nil
}

// DeleteIdle removes every session last seen before cutoff and returns them
func (r *SessionRepositoryImpl) DeleteIdle(cutoff time.Time) []*session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []*session.Session
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			removed = append(removed, s)
			delete(r.sessions, id)
		}
	}
	return removed
}

// Count returns the number of live sessions
func (r *SessionRepositoryImpl) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// All returns every live session
func (r *SessionRepositoryImpl) All() []*session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
