package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-games/internal/games"
	"github.com/vancomm/minesweeper-games/internal/mines"
)

// Memory keeps games in process memory. Used by tests and by
// STORE_DRIVER=memory.
type Memory struct {
	mu     sync.RWMutex
	games  map[uuid.UUID]games.Game
	boards map[uuid.UUID]mines.Board
	order  []uuid.UUID
}

func NewMemory() *Memory {
	return &Memory{
		games:  make(map[uuid.UUID]games.Game),
		boards: make(map[uuid.UUID]mines.Board),
	}
}

func (m *Memory) Put(ctx context.Context, game *games.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if game.Board == nil {
		return errMissingBoard
	}

	summary := *game
	summary.Board = nil
	board := *game.Board
	board.Cells = slices.Clone(game.Board.Cells)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[game.ID]; ok {
		return games.ErrDuplicateGame
	}
	m.games[game.ID] = summary
	m.boards[game.ID] = board
	m.order = append(m.order, game.ID)
	return nil
}

func (m *Memory) GetByID(ctx context.Context, id uuid.UUID) (*games.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	game, ok := m.games[id]
	if !ok {
		return nil, games.ErrNotFound
	}
	return &game, nil
}

func (m *Memory) ListByStatus(ctx context.Context, status *games.Status) ([]games.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filter := games.Filter{Status: status}
	list := make([]games.Game, 0, len(m.order))
	for _, id := range m.order {
		if game := m.games[id]; filter.Match(game) {
			list = append(list, game)
		}
	}
	return list, nil
}

func (m *Memory) GetBoard(ctx context.Context, id uuid.UUID) (*mines.Board, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	board, ok := m.boards[id]
	if !ok {
		return nil, games.ErrNotFound
	}
	board.Cells = slices.Clone(board.Cells)
	return &board, nil
}
