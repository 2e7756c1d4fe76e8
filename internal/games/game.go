package games

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-games/internal/mines"
)

type Status string

const (
	Pending   Status = "PENDING"
	Cleared   Status = "CLEARED"
	Detonated Status = "DETONATED"
)

var Statuses = []Status{Pending, Cleared, Detonated}

var ErrBadStatus error

func init() {
	allowed := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		allowed = append(allowed, "'"+string(s)+"'")
	}
	ErrBadStatus = fmt.Errorf("status must be one of %s", strings.Join(allowed, ", "))
}

// ParseStatus accepts a status name in any letter case.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", ErrBadStatus
	}
	return status, nil
}

func (s Status) Valid() bool {
	switch s {
	case Pending, Cleared, Detonated:
		return true
	}
	return false
}

// Game is a generated game. Board is set on freshly created games and left
// nil by store lookups, which only return the summary.
type Game struct {
	ID        uuid.UUID
	Status    Status
	Rows      int
	Columns   int
	CreatedAt time.Time
	Board     *mines.Board
}

// Filter narrows a game listing. A nil Status matches every game.
type Filter struct {
	Status *Status
}

func (f Filter) Match(g Game) bool {
	return f.Status == nil || *f.Status == g.Status
}
