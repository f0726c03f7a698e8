// Package session holds the state shared by every graph of one run: the
// registry of shared blackboards, the guard registry, the random source
// and the logger. Nothing in the runtime is process-global; two sessions
// never observe each other's shared stores or guards.
package session

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/specialistvlad/tickgraph/internal/blackboard"
	"github.com/specialistvlad/tickgraph/internal/bt"
)

// Session is the explicit context threaded through graph construction and
// execution.
type Session struct {
	ID          uuid.UUID
	Blackboards *blackboard.Registry
	Guards      *bt.GuardRegistry
	Rand        *rand.Rand
	Logger      *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithSeed makes the session's random source deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// New creates a session with fresh registries.
func New(opts ...Option) *Session {
	s := &Session{
		ID:          uuid.New(),
		Blackboards: blackboard.NewRegistry(),
		Guards:      bt.NewGuardRegistry(),
		Logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		s.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	s.Logger = s.Logger.With("session", s.ID.String())
	return s
}

// NewBlackboard creates a private store that can reach this session's
// shared stores by path.
func (s *Session) NewBlackboard(name string) *blackboard.Blackboard {
	return blackboard.New(name, blackboard.WithLogger(s.Logger), blackboard.WithRegistry(s.Blackboards))
}

// SharedBlackboard creates a store and registers it under its name.
func (s *Session) SharedBlackboard(name string) (*blackboard.Blackboard, error) {
	bb := s.NewBlackboard(name)
	if err := s.Blackboards.Register(bb); err != nil {
		return nil, fmt.Errorf("session %s: %w", s.ID, err)
	}
	return bb, nil
}
