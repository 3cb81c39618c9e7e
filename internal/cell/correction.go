package cell

import "math"

// Correction carries the precomputed geometry needed to map spherical
// Gaussian supports onto a non-orthorhombic lattice: the rows of the
// inverse lattice matrix and their norms (skew factors). For orthorhombic
// cells the skew factors reduce to the reciprocal box lengths and the
// general formulas fall back to the axis-aligned ones.
//
// A Correction is rebuilt whenever the cell changes and never mutated
// during a collocate/integrate pass.
type Correction struct {
	cell *Cell
	Skew [3]float64
}

// NewCorrection derives the correction for this cell.
func (c *Cell) NewCorrection() *Correction {
	cr := &Correction{cell: c}
	for i := 0; i < 3; i++ {
		cr.Skew[i] = math.Sqrt(c.hinv[i][0]*c.hinv[i][0] +
			c.hinv[i][1]*c.hinv[i][1] +
			c.hinv[i][2]*c.hinv[i][2])
	}
	return cr
}

// FracExtent converts a Cartesian radius into the fractional half-widths of
// the parallelepiped that encloses the sphere. Along axis a the fractional
// coordinate of any point within radius r of a center differs from the
// center's by at most r*|row_a(H^-1)|.
func (cr *Correction) FracExtent(radius float64) [3]float64 {
	return [3]float64{
		radius * cr.Skew[0],
		radius * cr.Skew[1],
		radius * cr.Skew[2],
	}
}

// Cell returns the cell the correction was derived from.
func (cr *Correction) Cell() *Cell { return cr.cell }
