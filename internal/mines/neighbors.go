package mines

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Boards with at least this many cells are counted by several goroutines.
const ParallelThreshold = 128 * 128

// Derive builds a board from a finished row-major mine layout. Counts are a
// pure function of the layout.
func Derive(rows, columns int, layout []bool) (*Board, error) {
	if err := ValidateDimensions(rows, columns); err != nil {
		return nil, err
	}
	if len(layout) != rows*columns {
		return nil, fmt.Errorf(
			"%w: have %d cells, want %d", ErrInvalidLayout, len(layout), rows*columns,
		)
	}
	return derive(rows, columns, layout, workersFor(rows*columns)), nil
}

func workersFor(total int) int {
	if total < ParallelThreshold {
		return 1
	}
	return runtime.GOMAXPROCS(0)
}

func derive(rows, columns int, layout []bool, workers int) *Board {
	b := &Board{
		Rows:    rows,
		Columns: columns,
		Cells:   make([]Cell, rows*columns),
	}
	for i := range b.Cells {
		b.Cells[i] = Cell{X: i % columns, Y: i / columns, IsMine: layout[i]}
	}

	if workers <= 1 || rows < 2 {
		countRows(b, layout, 0, rows)
		return b
	}

	// layout is read-only from here on; bands write disjoint cells
	band := (rows + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for from := 0; from < rows; from += band {
		to := min(from+band, rows)
		g.Go(func() error {
			countRows(b, layout, from, to)
			return nil
		})
	}
	g.Wait()

	return b
}

func countRows(b *Board, layout []bool, from, to int) {
	for y := from; y < to; y++ {
		for x := range b.Columns {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= b.Rows {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= b.Columns || (dx == 0 && dy == 0) {
						continue
					}
					if layout[yy*b.Columns+xx] {
						n++
					}
				}
			}
			b.Cells[y*b.Columns+x].NeighboringBombCount = n
		}
	}
}
