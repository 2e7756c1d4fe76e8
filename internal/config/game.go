package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vancomm/minesweeper-games/internal/mines"
)

const defaultMaxCells = 1 << 20

type Game struct {
	MineDensity float64
	Placement   mines.Placement
	// MaxCells caps rows*columns of a requested board.
	MaxCells int
}

func NewGame() (*Game, error) {
	game := &Game{
		MineDensity: mines.DefaultDensity,
		Placement:   mines.Bernoulli,
		MaxCells:    defaultMaxCells,
	}

	if s, ok := os.LookupEnv("MINE_DENSITY"); ok {
		density, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse MINE_DENSITY: %w", err)
		}
		game.MineDensity = density
	}

	if s, ok := os.LookupEnv("MINE_PLACEMENT"); ok {
		placement, err := mines.ParsePlacement(s)
		if err != nil {
			return nil, fmt.Errorf("unable to parse MINE_PLACEMENT: %w", err)
		}
		game.Placement = placement
	}

	if s, ok := os.LookupEnv("MAX_CELLS"); ok {
		maxCells, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("unable to parse MAX_CELLS: %w", err)
		}
		if maxCells <= 0 {
			return nil, fmt.Errorf("MAX_CELLS must be positive, got %d", maxCells)
		}
		game.MaxCells = maxCells
	}

	return game, nil
}
