package session

import (
	"sync"
	"time"

	"github.com/orgball2608/tiktok-downloader/internal/controller"
	"github.com/orgball2608/tiktok-downloader/pkg/logger"
	"go.uber.org/fx"
)

type entry struct {
	ctrl     controller.Controller
	lastSeen time.Time
}

// Store keeps one controller per session key.
type Store struct {
	factory controller.Factory
	logger  logger.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type Opts struct {
	fx.In

	Factory controller.Factory
	Logger  logger.Logger
}

func New(opts Opts) *Store {
	return &Store{
		factory:  opts.Factory,
		logger:   opts.Logger.WithComponent("SessionStore"),
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Get returns the controller for key, creating it on first use.
func (s *Store) Get(key string) controller.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[key]
	if !ok {
		e = &entry{ctrl: s.factory(key)}
		s.sessions[key] = e
		s.logger.Debug("Session created", "session", key)
	}
	e.lastSeen = s.now()
	return e.ctrl
}

func (s *Store) Touch(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[key]; ok {
		e.lastSeen = s.now()
	}
}

// Sweep evicts sessions idle for longer than maxIdle and returns how many went.
func (s *Store) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for key, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, key)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("Idle sessions evicted", "count", removed, "remaining", len(s.sessions))
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
