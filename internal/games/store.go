package games

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-games/internal/mines"
)

var (
	ErrNotFound      = errors.New("game not found")
	ErrDuplicateGame = errors.New("game already exists")
)

// Store persists games together with their boards.
//
// Put must be all-or-nothing: a reader never observes a game without its
// complete set of cells.
type Store interface {
	Put(ctx context.Context, game *Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*Game, error)
	ListByStatus(ctx context.Context, status *Status) ([]Game, error)
	GetBoard(ctx context.Context, id uuid.UUID) (*mines.Board, error)
}

// Notifier is told about every game right after it has been stored.
type Notifier interface {
	GameCreated(game Game)
}
