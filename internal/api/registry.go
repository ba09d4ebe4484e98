package api

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/fido/internal/feedback"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionFactory builds a session for assessor giving feedback on target.
type SessionFactory func(assessor, target string) (*feedback.Session, error)

// Lifecycle is told when sessions enter and leave the registry.
type Lifecycle interface {
	SessionStarted(ctx context.Context)
	SessionClosed(ctx context.Context)
}

// Registry holds the open sessions of a server.
type Registry struct {
	factory   SessionFactory
	lifecycle Lifecycle

	mu       sync.RWMutex
	sessions map[string]*feedback.Session
}

// NewRegistry creates an empty registry. lifecycle may be nil.
func NewRegistry(factory SessionFactory, lifecycle Lifecycle) *Registry {
	return &Registry{
		factory:   factory,
		lifecycle: lifecycle,
		sessions:  make(map[string]*feedback.Session),
	}
}

// Create builds, registers, and starts a session.
func (r *Registry) Create(ctx context.Context, assessor, target string) (*feedback.Session, feedback.Turn, error) {
	s, err := r.factory(assessor, target)
	if err != nil {
		return nil, feedback.Turn{}, err
	}

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	if r.lifecycle != nil {
		r.lifecycle.SessionStarted(ctx)
	}

	turn, err := s.Start(ctx)
	if err != nil {
		r.Remove(ctx, s.ID())
		return nil, feedback.Turn{}, err
	}
	return s, turn, nil
}

// Get returns the session with id.
func (r *Registry) Get(id string) (*feedback.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove closes and forgets the session with id.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.Close()
	if r.lifecycle != nil {
		r.lifecycle.SessionClosed(ctx)
	}
	return nil
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every session, for server shutdown.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	for _, id := range ids {
		_ = r.Remove(ctx, id)
	}
}
