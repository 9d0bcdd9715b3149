// Package session keeps independent playgrounds, one per user session.
// Sessions never share a knowledge store.
package session

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/playground/pkg/playground"
	"github.com/cognicore/playground/pkg/playground/config"
	"github.com/cognicore/playground/pkg/playground/internalerr"
	"github.com/cognicore/playground/pkg/playground/metrics"
)

// ID identifies a session
type ID string

// Manager creates and tracks sessions.
type Manager struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Collector

	mu       sync.Mutex
	entropy  *ulid.MonotonicEntropy
	sessions map[ID]*playground.Playground
}

// NewManager creates a manager whose sessions are opened with cfg.
func NewManager(cfg config.Config, logger *zap.Logger, m *metrics.Collector) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		sessions: make(map[ID]*playground.Playground),
	}
}

// Create opens a new session with an empty knowledge base.
func (m *Manager) Create(ctx context.Context) (ID, *playground.Playground, error) {
	m.mu.Lock()
	id := ID(ulid.MustNew(ulid.Now(), m.entropy).String())
	m.mu.Unlock()

	p, err := playground.Open(ctx, m.cfg, m.logger.With(zap.String("session", string(id))), m.metrics)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	m.mu.Lock()
	m.sessions[id] = p
	m.mu.Unlock()

	m.logger.Info("Session started", zap.String("session", string(id)))
	return id, p, nil
}

// Get returns the session's playground.
func (m *Manager) Get(id ID) (*playground.Playground, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.sessions[id]
	return p, ok
}

// End closes and forgets a session. Its knowledge is discarded.
func (m *Manager) End(id ID) error {
	m.mu.Lock()
	p, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, internalerr.ErrNotFound)
	}
	m.logger.Info("Session ended", zap.String("session", string(id)))
	return p.Close()
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close ends every session.
func (m *Manager) Close() error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[ID]*playground.Playground)
	m.mu.Unlock()

	var firstErr error
	for _, p := range sessions {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
