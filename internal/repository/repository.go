// Package repository holds the game store backends.
package repository

import (
	"errors"

	"github.com/vancomm/minesweeper-games/internal/games"
)

var errMissingBoard = errors.New("game has no board")

var (
	_ games.Store = (*Memory)(nil)
	_ games.Store = (*Postgres)(nil)
	_ games.Store = (*SQLite)(nil)
)
