package grid

import (
	"fmt"

	"github.com/rgayatri23/gridcol/internal/cell"
)

// LevelSpec describes one requested grid level.
type LevelSpec struct {
	Dims   [3]int
	Cutoff float64
	Origin [3]float64
}

// Set is the multigrid: levels ordered finest first (strictly descending
// cutoff), sharing one cell. Distinct levels never alias memory; each owns
// its own arrays.
type Set struct {
	Cell   *cell.Cell
	Levels []*Level
}

// NewSet builds the multigrid from level specs, enforcing the finest-first
// ordering the executor relies on.
func NewSet(c *cell.Cell, specs []LevelSpec) (*Set, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("grid: at least one level required")
	}
	s := &Set{Cell: c, Levels: make([]*Level, 0, len(specs))}
	prev := 0.0
	for i, sp := range specs {
		if i > 0 && sp.Cutoff >= prev {
			return nil, fmt.Errorf("grid: level cutoffs must be strictly descending, level %d has %g after %g",
				i, sp.Cutoff, prev)
		}
		lvl, err := NewLevel(c, sp.Dims, sp.Cutoff, sp.Origin)
		if err != nil {
			return nil, fmt.Errorf("grid: level %d: %w", i, err)
		}
		s.Levels = append(s.Levels, lvl)
		prev = sp.Cutoff
	}
	return s, nil
}

// Select picks the level for a product-Gaussian exponent: the coarsest
// level whose cutoff still exceeds zeta*relCutoff. Exponents steeper than
// every cutoff land on the finest level.
func (s *Set) Select(zeta, relCutoff float64) int {
	need := zeta * relCutoff
	for i := len(s.Levels) - 1; i > 0; i-- {
		if s.Levels[i].Cutoff >= need {
			return i
		}
	}
	return 0
}

// NewArrays allocates one zeroed array per level.
func (s *Set) NewArrays() []*Array {
	arrs := make([]*Array, len(s.Levels))
	for i, lvl := range s.Levels {
		arrs[i] = lvl.NewArray()
	}
	return arrs
}
