// Package feed fans out newly created games to live subscribers.
package feed

import (
	"log/slog"
	"sync"

	"github.com/vancomm/minesweeper-games/internal/games"
)

const DefaultBuffer = 16

type Subscription struct {
	C <-chan games.Game

	c    chan games.Game
	hub  *Hub
	once sync.Once
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// Hub implements [games.Notifier]. A subscriber whose buffer is full is
// dropped and its channel closed; publishing never blocks.
type Hub struct {
	logger *slog.Logger
	buffer int

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewHub(logger *slog.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		logger: logger,
		buffer: buffer,
		subs:   make(map[*Subscription]struct{}),
	}
}

func (h *Hub) Subscribe() *Subscription {
	c := make(chan games.Game, h.buffer)
	s := &Subscription{C: c, c: c, hub: h}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	return s
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) GameCreated(game games.Game) {
	game.Board = nil

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs {
		select {
		case s.c <- game:
		default:
			h.logger.Warn("dropping slow feed subscriber")
			h.closeLocked(s)
		}
	}
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeLocked(s)
}

func (h *Hub) closeLocked(s *Subscription) {
	delete(h.subs, s)
	s.once.Do(func() { close(s.c) })
}
