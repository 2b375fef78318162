package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// Manager хранит открытые сессии бронирования по UUID
// Неактивные дольше ttl сессии закрываются фоновой очисткой
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	deps Deps
	ttl  time.Duration
	now  func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager создает менеджер сессий
func NewManager(deps Deps, ttl time.Duration) (*Manager, error) {
	if deps.Agenda == nil || deps.Quotes == nil {
		return nil, fmt.Errorf("%w: agenda source and quote client are required", domain.ErrInvalidInput)
	}
	if deps.Bookings == nil || deps.Reschedules == nil {
		return nil, fmt.Errorf("%w: submission use cases are required", domain.ErrInvalidInput)
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("%w: logger is required", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = domain.DefaultSessionTTL
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
		ttl:      ttl,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Create создает и открывает новую сессию
func (m *Manager) Create(ctx context.Context, opts Options) (*Session, error) {
	if m.ctx.Err() != nil {
		return nil, domain.ErrSessionClosed
	}

	id := uuid.NewString()
	s, err := newSession(m.ctx, id, opts, m.deps, m.now)
	if err != nil {
		m.deps.Logger.Warn("SessionManager: create rejected: %v", err)
		return nil, err
	}
	s.onClose = m.remove

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	m.observeOpened()

	m.deps.Logger.Info("SessionManager: session=%s opened, subject=%d, mode=%s", id, s.opts.SubjectID, s.opts.Mode)

	if err := s.Open(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Get возвращает открытую сессию, если ее открыл владелец token
// Чужая сессия неотличима от несуществующей
func (m *Manager) Get(id, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if !s.OwnedBy(token) {
		m.deps.Logger.Warn("SessionManager: session=%s requested with a token of another user", id)
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Close закрывает сессию владельца token
func (m *Manager) Close(id, token string) error {
	s, err := m.Get(id, token)
	if err != nil {
		return err
	}
	s.Close()
	return nil
}

// Count возвращает количество открытых сессий
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExpireIdle закрывает сессии, неактивные дольше ttl на момент now
// Возвращает количество закрытых сессий
func (m *Manager) ExpireIdle(now time.Time) int {
	m.mu.RLock()
	expired := make([]*Session, 0)
	for _, s := range m.sessions {
		if now.Sub(s.LastActive()) > m.ttl {
			expired = append(expired, s)
		}
	}
	m.mu.RUnlock()

	for _, s := range expired {
		m.deps.Logger.Info("SessionManager: session=%s expired after %s idle", s.ID(), m.ttl)
		s.Close()
	}
	return len(expired)
}

// Run периодически закрывает неактивные сессии до отмены ctx
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if n := m.ExpireIdle(m.now()); n > 0 {
				m.deps.Logger.Info("SessionManager: expired %d sessions, %d open", n, m.Count())
			}
		}
	}
}

// Shutdown закрывает все сессии; новые сессии после этого не создаются
func (m *Manager) Shutdown() {
	m.cancel()

	m.mu.RLock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.RUnlock()

	for _, s := range open {
		s.Close()
	}
	m.deps.Logger.Info("SessionManager: shutdown closed %d sessions", len(open))
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok && m.deps.Metrics != nil {
		m.deps.Metrics.SessionClosed()
	}
}

func (m *Manager) observeOpened() {
	if m.deps.Metrics != nil {
		m.deps.Metrics.SessionOpened()
	}
}
