package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/vancomm/minesweeper-games/internal/games"
	"github.com/vancomm/minesweeper-games/internal/mines"
)

const createSQLiteGameTable = `
CREATE TABLE IF NOT EXISTS game (
	game_id		TEXT	PRIMARY KEY,
	status		TEXT	NOT NULL,
	"rows"		INTEGER	NOT NULL CHECK ("rows" > 0),
	"columns"	INTEGER	NOT NULL CHECK ("columns" > 0),
	created_at	INTEGER	NOT NULL,
	board		BLOB	NOT NULL
);
CREATE INDEX IF NOT EXISTS game_status_idx ON game (status, created_at);`

// SQLite stores each game as a single row with its board gob-encoded, so a
// write is atomic without an explicit transaction.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

func NewSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	if _, err := db.ExecContext(ctx, createSQLiteGameTable); err != nil {
		return nil, fmt.Errorf("unable to create game table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite db: %w", err)
	}
	s, err := NewSQLite(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Put(ctx context.Context, game *games.Game) error {
	if game.Board == nil {
		return errMissingBoard
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(game.Board); err != nil {
		return fmt.Errorf("unable to encode board: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO game (game_id, status, "rows", "columns", created_at, board)
VALUES (?, ?, ?, ?, ?, ?);`,
		game.ID.String(),
		string(game.Status),
		game.Rows,
		game.Columns,
		game.CreatedAt.UnixMicro(),
		buf.Bytes(),
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
		return games.ErrDuplicateGame
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*games.Game, error) {
	var (
		game      games.Game
		id        string
		status    string
		createdAt int64
	)
	if err := row.Scan(&id, &status, &game.Rows, &game.Columns, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("db returned invalid game_id %q: %w", id, err)
	}
	game.ID = parsed
	game.Status = games.Status(status)
	game.CreatedAt = time.UnixMicro(createdAt).UTC()
	return &game, nil
}

func (s *SQLite) GetByID(ctx context.Context, id uuid.UUID) (*games.Game, error) {
	game, err := scanGame(s.db.QueryRowContext(ctx, `
SELECT game_id, status, "rows", "columns", created_at
FROM game
WHERE game_id = ?;`,
		id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, games.ErrNotFound
	}
	return game, err
}

func (s *SQLite) ListByStatus(ctx context.Context, status *games.Status) ([]games.Game, error) {
	query := `SELECT game_id, status, "rows", "columns", created_at FROM game`
	args := []any{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at, rowid;`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]games.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *game)
	}
	return list, rows.Err()
}

func (s *SQLite) GetBoard(ctx context.Context, id uuid.UUID) (*mines.Board, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT board FROM game WHERE game_id = ?;`, id.String(),
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, games.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var board mines.Board
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&board); err != nil {
		return nil, fmt.Errorf("db returned invalid game.board: %w", err)
	}
	return &board, nil
}
