package monitor

import (
	"context"
	"fmt"
	"sync"
)

// Manager owns the single monitor session. Starting while a session is
// active is an error; stopping is always safe.
type Manager struct {
	sig     Signaler
	stunURL string
	events  Events

	mu   sync.Mutex
	sess *Session
}

// NewManager creates a Manager that dials through sig and reports
// through events.
func NewManager(sig Signaler, stunURL string, events Events) *Manager {
	return &Manager{sig: sig, stunURL: stunURL, events: events}
}

// Start dials a new session. Only one may be active at a time.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.sess != nil {
		select {
		case <-m.sess.Done():
			// Previous session already tore itself down; replace it.
			m.sess = nil
		default:
			m.mu.Unlock()
			return fmt.Errorf("monitor session already active")
		}
	}
	m.mu.Unlock()

	sess, err := Dial(ctx, m.sig, m.stunURL, m.events)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.sess = sess
	m.mu.Unlock()
	return nil
}

// Stop tears down the active session, if any.
func (m *Manager) Stop() {
	m.mu.Lock()
	sess := m.sess
	m.sess = nil
	m.mu.Unlock()
	if sess != nil {
		sess.Stop()
	}
}

// Active reports whether a session is currently running.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return false
	}
	select {
	case <-m.sess.Done():
		return false
	default:
		return true
	}
}

// Phase returns the active session's phase, or PhaseIdle.
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return PhaseIdle
	}
	return m.sess.Phase()
}

// States returns the active session's sub-states, or placeholders.
func (m *Manager) States() SubStates {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return idleStates()
	}
	return m.sess.States()
}
