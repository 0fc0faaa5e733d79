package agent

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/synctrack/sylvia/internal/crm"
	"github.com/synctrack/sylvia/internal/lead"
	"github.com/synctrack/sylvia/internal/observability/metrics"
	"github.com/synctrack/sylvia/pkg/logging"
)

// Session is one visitor conversation. It owns the lead tracker for
// that conversation; the record never outlives the session.
type Session struct {
	ID        string
	Room      string
	StartedAt time.Time
	Tracker   *lead.Tracker

	endOnce  sync.Once
	endState string
}

// Manager tracks active sessions and finalizes each one exactly once.
type Manager struct {
	submitter  crm.Submitter
	trackerCfg lead.TrackerConfig
	metrics    *metrics.AgentMetrics
	logger     *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. Each session started through
// it gets its own tracker built from trackerCfg.
func NewManager(submitter crm.Submitter, trackerCfg lead.TrackerConfig, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	return &Manager{
		submitter:  submitter,
		trackerCfg: trackerCfg,
		metrics:    trackerCfg.Metrics,
		logger:     logger,
		sessions:   make(map[string]*Session),
	}
}

// Start registers a new session. An empty sessionID gets a generated
// one; starting an already-known ID returns the existing session.
func (m *Manager) Start(room, sessionID string) *Session {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[sessionID]; ok {
		return existing
	}

	s := &Session{
		ID:        sessionID,
		Room:      room,
		StartedAt: time.Now().UTC(),
		Tracker:   lead.NewTracker(m.submitter, m.trackerCfg, m.logger.With("session_id", sessionID)),
	}
	m.sessions[sessionID] = s

	m.logger.Info("agent: session started", "session_id", sessionID, "room", room)
	return s
}

// Get returns an active session.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Active returns the number of live sessions.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown ends every active session. Called when the process stops so
// leads from still-open conversations get their submission attempt.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.End(ctx, id)
	}
}

// End finalizes and drops a session. Safe to call more than once; the
// end-of-session submission runs a single time no matter how the
// session terminates (explicit event or connection drop).
func (m *Manager) End(ctx context.Context, sessionID string) string {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if !ok {
		return ""
	}

	s.endOnce.Do(func() {
		s.endState = s.Tracker.Finalize(ctx)
		m.metrics.ObserveSessionEnd(s.endState)
		m.logger.Info("agent: session ended",
			"session_id", s.ID,
			"room", s.Room,
			"end_state", s.endState,
			"duration_s", time.Since(s.StartedAt).Seconds(),
		)
	})
	return s.endState
}
