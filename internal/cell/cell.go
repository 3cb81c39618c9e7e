package cell

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const orthoTol = 1e-12

// Cell describes the simulation box: lattice vectors as the columns of H,
// with per-axis periodic flags. The inverse matrix and determinant are
// precomputed at construction; a Cell is immutable once built.
type Cell struct {
	H        [3][3]float64
	Periodic [3]bool

	hinv  [3][3]float64
	det   float64
	ortho bool
}

// New validates the lattice matrix and precomputes its inverse. A singular
// matrix is rejected.
func New(h [3][3]float64, periodic [3]bool) (*Cell, error) {
	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, h[i][j])
		}
	}
	det := mat.Det(m)
	if math.Abs(det) < 1e-14 {
		return nil, fmt.Errorf("cell: singular lattice matrix (det=%g)", det)
	}
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, fmt.Errorf("cell: inverting lattice matrix: %w", err)
	}

	c := &Cell{H: h, Periodic: periodic, det: det}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.hinv[i][j] = inv.At(i, j)
		}
	}

	c.ortho = true
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i != j && math.Abs(h[i][j]) > orthoTol {
				c.ortho = false
			}
		}
	}
	return c, nil
}

// Orthorhombic reports whether the lattice vectors are axis-aligned, which
// enables the separable kernel paths.
func (c *Cell) Orthorhombic() bool { return c.ortho }

// Volume returns |det H|.
func (c *Cell) Volume() float64 { return math.Abs(c.det) }

// ToFractional maps a Cartesian point into fractional lattice coordinates.
func (c *Cell) ToFractional(r [3]float64) [3]float64 {
	var f [3]float64
	for i := 0; i < 3; i++ {
		f[i] = c.hinv[i][0]*r[0] + c.hinv[i][1]*r[1] + c.hinv[i][2]*r[2]
	}
	return f
}

// ToCartesian maps fractional lattice coordinates to a Cartesian point.
func (c *Cell) ToCartesian(f [3]float64) [3]float64 {
	var r [3]float64
	for i := 0; i < 3; i++ {
		r[i] = c.H[i][0]*f[0] + c.H[i][1]*f[1] + c.H[i][2]*f[2]
	}
	return r
}

// WrapFrac folds a fractional coordinate into [0,1).
func WrapFrac(f float64) float64 {
	f -= math.Floor(f)
	if f >= 1 { // guards against -1e-17 folding to 1.0
		f = 0
	}
	return f
}
