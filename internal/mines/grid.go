package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is a single square of a generated board. X is the column and Y is the
// row, both 0-based.
type Cell struct {
	X                    int  `json:"x"`
	Y                    int  `json:"y"`
	IsMine               bool `json:"is_mine"`
	NeighboringBombCount int  `json:"neighboring_bomb_count"`
}

func (c Cell) String() string {
	if c.IsMine {
		return "*"
	}
	return strconv.Itoa(c.NeighboringBombCount)
}

// Board holds exactly Rows*Columns cells in row-major order: the cell at
// (x, y) is Cells[y*Columns+x].
type Board struct {
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Cells   []Cell `json:"cells"`
}

func (b Board) InBounds(x, y int) bool {
	return 0 <= x && x < b.Columns && 0 <= y && y < b.Rows
}

// At returns the cell at (x, y). It panics if the point is out of bounds.
func (b Board) At(x, y int) Cell {
	if !b.InBounds(x, y) {
		panic(fmt.Sprintf("mines: point %d:%d outside of %dx%d board", x, y, b.Columns, b.Rows))
	}
	return b.Cells[y*b.Columns+x]
}

func (b Board) MineCount() (count int) {
	for _, c := range b.Cells {
		if c.IsMine {
			count++
		}
	}
	return
}

// Layout returns the mine flags of the board in row-major order.
func (b Board) Layout() []bool {
	layout := make([]bool, len(b.Cells))
	for i, c := range b.Cells {
		layout[i] = c.IsMine
	}
	return layout
}

func (b Board) String() string {
	var s strings.Builder
	for y := range b.Rows {
		for x := range b.Columns {
			if x > 0 {
				s.WriteByte(' ')
			}
			s.WriteString(b.Cells[y*b.Columns+x].String())
		}
		s.WriteByte('\n')
	}
	return s.String()
}
