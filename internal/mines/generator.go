package mines

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
)

const DefaultDensity = 0.2

type Placement uint8

const (
	// Bernoulli makes every cell a mine independently with probability
	// mineCount/totalCells, so the realized count drifts around the target.
	Bernoulli Placement = iota + 1
	// Exact picks exactly mineCount distinct cells.
	Exact
)

func (p Placement) String() string {
	switch p {
	case Bernoulli:
		return "bernoulli"
	case Exact:
		return "exact"
	default:
		return fmt.Sprintf("Placement(%d)", uint8(p))
	}
}

func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bernoulli":
		return Bernoulli, nil
	case "exact":
		return Exact, nil
	default:
		return 0, fmt.Errorf("placement must be one of 'bernoulli', 'exact', got %q", s)
	}
}

// Generator lays out mines on new boards. It is safe for concurrent use.
type Generator struct {
	density   float64
	placement Placement

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGenerator(density float64, placement Placement, rnd *rand.Rand) (*Generator, error) {
	if math.IsNaN(density) || density < 0 || density > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDensity, density)
	}
	if placement != Bernoulli && placement != Exact {
		return nil, fmt.Errorf("unknown placement %s", placement)
	}
	g := &Generator{
		density:   density,
		placement: placement,
		rnd:       rnd,
	}
	return g, nil
}

func (g *Generator) Density() float64 { return g.density }

func (g *Generator) Placement() Placement { return g.placement }

func ValidateDimensions(rows, columns int) error {
	if rows <= 0 || columns <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, columns)
	}
	return nil
}

// MineCount is the target number of mines for a board of the given size.
func MineCount(rows, columns int, density float64) int {
	return int(math.Floor(float64(rows*columns) * density))
}

// Generate returns a fully populated board: mines are placed first, then
// every cell gets its neighboring bomb count.
func (g *Generator) Generate(rows, columns int) (*Board, error) {
	if err := ValidateDimensions(rows, columns); err != nil {
		return nil, err
	}
	layout := g.placeMines(rows, columns)
	return derive(rows, columns, layout, workersFor(rows*columns)), nil
}

func (g *Generator) placeMines(rows, columns int) []bool {
	total := rows * columns
	mineCount := MineCount(rows, columns, g.density)
	layout := make([]bool, total)

	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.placement {
	case Exact:
		candidates := make([]int, total)
		for i := range candidates {
			candidates[i] = i
		}
		k := total
		for range mineCount {
			i := g.rnd.IntN(k)
			layout[candidates[i]] = true
			k--
			candidates[i] = candidates[k]
		}
	default:
		p := float64(mineCount) / float64(total)
		for i := range layout {
			layout[i] = g.rnd.Float64() < p
		}
	}

	return layout
}
