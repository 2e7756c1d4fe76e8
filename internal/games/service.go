package games

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-games/internal/mines"
)

type Service struct {
	logger   *slog.Logger
	store    Store
	gen      *mines.Generator
	notifier Notifier
	now      func() time.Time
}

// NewService wires a game service. notifier may be nil.
func NewService(
	logger *slog.Logger,
	store Store,
	gen *mines.Generator,
	notifier Notifier,
) *Service {
	s := &Service{
		logger:   logger,
		store:    store,
		gen:      gen,
		notifier: notifier,
		now:      time.Now,
	}
	return s
}

// CreateGame generates a board and stores it with a new pending game.
func (s *Service) CreateGame(ctx context.Context, rows, columns int) (*Game, error) {
	board, err := s.gen.Generate(rows, columns)
	if err != nil {
		return nil, err
	}

	game := &Game{
		ID:        uuid.New(),
		Status:    Pending,
		Rows:      rows,
		Columns:   columns,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
		Board:     board,
	}

	if err := s.store.Put(ctx, game); err != nil {
		return nil, fmt.Errorf("unable to store game: %w", err)
	}

	s.logger.Debug("created game",
		slog.String("id", game.ID.String()),
		slog.Int("rows", rows),
		slog.Int("columns", columns),
		slog.Int("mines", board.MineCount()),
	)

	if s.notifier != nil {
		s.notifier.GameCreated(*game)
	}

	return game, nil
}

func (s *Service) FindOne(ctx context.Context, id uuid.UUID) (*Game, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) FindAll(ctx context.Context, filter Filter) ([]Game, error) {
	return s.store.ListByStatus(ctx, filter.Status)
}

func (s *Service) Board(ctx context.Context, id uuid.UUID) (*mines.Board, error) {
	return s.store.GetBoard(ctx, id)
}
