package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper-games/internal/games"
	"github.com/vancomm/minesweeper-games/internal/mines"
)

type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

type gameRow struct {
	GameID    pgtype.UUID `db:"game_id"`
	Status    string      `db:"status"`
	Rows      int         `db:"rows"`
	Columns   int         `db:"columns"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r gameRow) game() games.Game {
	return games.Game{
		ID:        uuid.UUID(r.GameID.Bytes),
		Status:    games.Status(r.Status),
		Rows:      r.Rows,
		Columns:   r.Columns,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type cellRow struct {
	X                    int  `db:"x"`
	Y                    int  `db:"y"`
	IsMine               bool `db:"is_mine"`
	NeighboringBombCount int  `db:"neighboring_bomb_count"`
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// Put inserts the game row and copies all of its cells in one transaction.
func (p *Postgres) Put(ctx context.Context, game *games.Game) error {
	if game.Board == nil {
		return errMissingBoard
	}
	id := pgUUID(game.ID)
	cells := game.Board.Cells

	return pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO game (
				game_id, status, "rows", "columns", created_at
			)
			VALUES (
				@game_id, @status, @rows, @columns, @created_at
			);`,
			pgx.NamedArgs{
				"game_id":    id,
				"status":     string(game.Status),
				"rows":       game.Rows,
				"columns":    game.Columns,
				"created_at": game.CreatedAt,
			},
		)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return games.ErrDuplicateGame
		}
		if err != nil {
			return fmt.Errorf("unable to insert game: %w", err)
		}

		n, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"game_cell"},
			[]string{"game_id", "x", "y", "is_mine", "neighboring_bomb_count"},
			pgx.CopyFromSlice(len(cells), func(i int) ([]any, error) {
				c := cells[i]
				return []any{
					id, int32(c.X), int32(c.Y), c.IsMine, int16(c.NeighboringBombCount),
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("unable to copy cells: %w", err)
		}
		if n != int64(len(cells)) {
			return fmt.Errorf("copied %d cells, want %d", n, len(cells))
		}
		return nil
	})
}

func (p *Postgres) GetByID(ctx context.Context, id uuid.UUID) (*games.Game, error) {
	rows, _ := p.db.Query(ctx, `
		SELECT game_id, status, "rows", "columns", created_at
		FROM game
		WHERE game_id = $1;`,
		pgUUID(id),
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[gameRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, games.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	game := row.game()
	return &game, nil
}

type gameFilter struct {
	status *games.Status
}

func (f gameFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.status != nil {
		clauses = append(clauses, "status = @status")
		args["status"] = string(*f.status)
	}
	return strings.Join(clauses, " AND "), args
}

func (p *Postgres) ListByStatus(ctx context.Context, status *games.Status) ([]games.Game, error) {
	query := `
	SELECT game_id, status, "rows", "columns", created_at
	FROM game`

	whereClause, args := gameFilter{status}.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY created_at, game_id;"

	rows, err := p.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	gameRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[gameRow])
	if err != nil {
		return nil, err
	}

	list := make([]games.Game, len(gameRows))
	for i, r := range gameRows {
		list[i] = r.game()
	}
	return list, nil
}

func (p *Postgres) GetBoard(ctx context.Context, id uuid.UUID) (*mines.Board, error) {
	game, err := p.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := p.db.Query(ctx, `
		SELECT x, y, is_mine, neighboring_bomb_count
		FROM game_cell
		WHERE game_id = $1
		ORDER BY y, x;`,
		pgUUID(id),
	)
	if err != nil {
		return nil, err
	}
	cellRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[cellRow])
	if err != nil {
		return nil, err
	}
	if len(cellRows) != game.Rows*game.Columns {
		return nil, fmt.Errorf(
			"game %s has %d cells, want %d", id, len(cellRows), game.Rows*game.Columns,
		)
	}

	board := &mines.Board{
		Rows:    game.Rows,
		Columns: game.Columns,
		Cells:   make([]mines.Cell, len(cellRows)),
	}
	for i, c := range cellRows {
		board.Cells[i] = mines.Cell(c)
	}
	return board, nil
}
