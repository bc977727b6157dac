package assistant

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	pkgerrors "github.com/agrisetu/agrisetu-backend/pkg/errors"
	"github.com/agrisetu/agrisetu-backend/pkg/logger"
)

// Manager owns every live session opened through it. Sessions remove
// themselves once their pumps exit; Close stops whatever is still live so
// component teardown never leaks a stream or a device handle.
type Manager struct {
	dialer Dialer
	logg   *logger.Logger

	mu       sync.Mutex
	closed   bool
	sessions map[*Session]struct{}
}

// NewManager builds a session manager over the given stream dialer.
func NewManager(dialer Dialer, logg *logger.Logger) (*Manager, error) {
	if dialer == nil {
		return nil, fmt.Errorf("stream dialer is required")
	}
	return &Manager{
		dialer:   dialer,
		logg:     logg,
		sessions: map[*Session]struct{}{},
	}, nil
}

// Open starts a new live session and tracks it until it stops. Opening on
// a closed manager is a state conflict.
func (m *Manager) Open(ctx context.Context, source AudioSource, onText TranscriptFunc) (*Session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "assistant manager is closed")
	}
	m.mu.Unlock()

	session, err := NewSession(m.dialer, source, onText, m.logg)
	if err != nil {
		return nil, err
	}
	if err := session.Start(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.closed {
		// lost the race with Close; the session must not outlive the manager
		m.mu.Unlock()
		stopErr := session.Stop()
		return nil, multierr.Append(
			pkgerrors.New(pkgerrors.CodeStateConflict, "assistant manager is closed"),
			stopErr,
		)
	}
	m.sessions[session] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-session.Done()
		m.mu.Lock()
		delete(m.sessions, session)
		m.mu.Unlock()
	}()

	return session, nil
}

// ActiveSessions reports how many sessions are currently live.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops every live session and rejects further opens. Safe to call
// more than once; stop failures are combined.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.closed = true
	open := make([]*Session, 0, len(m.sessions))
	for s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	var err error
	for _, s := range open {
		err = multierr.Append(err, s.Stop())
	}
	return err
}
