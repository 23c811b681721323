package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/tic-tac-toe-history/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("game not found")
)

// subscriberBuffer is how many snapshots a subscriber may lag behind before
// it is dropped.
const subscriberBuffer = 4

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID      string
	Game    domain.Game
	Created time.Time
	Updated time.Time
}

type subscriber struct {
	ch        chan GameState
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.ch)
		close(s.done)
	})
}

// Service manages games and subscribers. Commands are applied one at a time
// in the order they acquire the service lock.
type Service struct {
	mu    sync.Mutex
	games map[string]*GameState
	subs  map[string]map[*subscriber]struct{}
	log   zerolog.Logger
	now   func() time.Time
}

// NewService creates a service logging through the global zerolog logger.
func NewService() *Service {
	return NewServiceWithLogger(log.Logger)
}

// NewServiceWithLogger creates a service logging to l.
func NewServiceWithLogger(l zerolog.Logger) *Service {
	return &Service{
		games: make(map[string]*GameState),
		subs:  make(map[string]map[*subscriber]struct{}),
		log:   l.With().Str("component", "app").Logger(),
		now:   time.Now,
	}
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame() (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := s.now()
	gs := &GameState{ID: id, Game: domain.New(), Created: now, Updated: now}
	s.games[id] = gs
	s.log.Info().Str("game_id", id).Msg("game created")
	cp := *gs
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := *gs
	return &cp, true
}

// Len returns the number of registered games.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

// Play places the next mark at cell (0..8).
func (s *Service) Play(id string, cell int) (*GameState, error) {
	return s.apply(id, "play", func(g *domain.Game) error {
		if err := g.Check(cell); err != nil {
			return fmt.Errorf("play cell %d: %w", cell, err)
		}
		g.Play(cell)
		return nil
	})
}

// JumpTo shows the entry at move without altering history.
func (s *Service) JumpTo(id string, move int) (*GameState, error) {
	return s.apply(id, "jump", func(g *domain.Game) error {
		if err := g.CheckJump(move); err != nil {
			return fmt.Errorf("jump: %w", err)
		}
		g.JumpTo(move)
		return nil
	})
}

// ToggleOrder flips the history display order.
func (s *Service) ToggleOrder(id string) (*GameState, error) {
	return s.apply(id, "order", func(g *domain.Game) error {
		g.ToggleOrder()
		return nil
	})
}

// Reset starts the game over from an empty board.
func (s *Service) Reset(id string) (*GameState, error) {
	return s.apply(id, "reset", func(g *domain.Game) error {
		*g = domain.New()
		return nil
	})
}

// apply runs fn against the stored game, updates timestamps, and broadcasts.
// A rejected command returns the unchanged state alongside the error.
func (s *Service) apply(id, op string, fn func(*domain.Game) error) (*GameState, error) {
	var cp GameState

	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	next := gs.Game
	if err := fn(&next); err != nil {
		cp = *gs
		s.mu.Unlock()
		s.log.Debug().Str("game_id", id).Str("op", op).Err(err).Msg("command rejected")
		return &cp, err
	}
	gs.Game = next
	gs.Updated = s.now()
	cp = *gs

	// Fan-out under the lock so no subscriber is closed mid-send; drop slow
	// subscribers instead of blocking the command.
	dropped := 0
	for sub := range s.subs[id] {
		select {
		case sub.ch <- cp:
		default:
			delete(s.subs[id], sub)
			sub.close()
			dropped++
		}
	}
	s.mu.Unlock()

	s.log.Debug().
		Str("game_id", id).
		Str("op", op).
		Int("move", cp.Game.CurrentMove()).
		Str("status", cp.Game.Status().String()).
		Msg("command applied")
	if dropped > 0 {
		s.log.Warn().Str("game_id", id).Int("dropped", dropped).Msg("dropped slow subscribers")
	}
	return &cp, nil
}

// Subscribe registers a subscriber for a game. Returns a channel of state
// snapshots and an unsubscribe func. The channel is closed on unsubscribe,
// when ctx ends, or when the subscriber falls too far behind.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{
		ch:   make(chan GameState, subscriberBuffer),
		done: make(chan struct{}),
	}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(s.subs, id)
				}
			}
			sub.close()
		})
	}
	// The watcher exits with the subscriber, whichever way it goes.
	go func() {
		select {
		case <-ctx.Done():
			unsub()
		case <-sub.done:
		}
	}()
	return sub.ch, unsub, nil
}
