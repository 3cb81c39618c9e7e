package grid

import (
	"fmt"

	"github.com/rgayatri23/gridcol/internal/cell"
)

// Level is one real-space resolution of the multigrid: integer dimensions,
// the plane-wave cutoff that selected them, an origin, and the spacing
// vectors (lattice column divided by the point count along that axis).
type Level struct {
	Dims    [3]int
	Cutoff  float64
	Origin  [3]float64
	Spacing [3][3]float64

	dv float64
}

// NewLevel derives a level's geometry from the cell.
func NewLevel(c *cell.Cell, dims [3]int, cutoff float64, origin [3]float64) (*Level, error) {
	for ax := 0; ax < 3; ax++ {
		if dims[ax] <= 0 {
			return nil, fmt.Errorf("grid: level dims must be positive, got %v", dims)
		}
	}
	if cutoff <= 0 {
		return nil, fmt.Errorf("grid: level cutoff must be positive, got %g", cutoff)
	}
	l := &Level{Dims: dims, Cutoff: cutoff, Origin: origin}
	for ax := 0; ax < 3; ax++ {
		n := float64(dims[ax])
		l.Spacing[ax] = [3]float64{c.H[0][ax] / n, c.H[1][ax] / n, c.H[2][ax] / n}
	}
	l.dv = c.Volume() / float64(dims[0]*dims[1]*dims[2])
	return l, nil
}

// VolumeElement returns the integration weight of one grid point.
func (l *Level) VolumeElement() float64 { return l.dv }

// Point returns the Cartesian position of the (possibly unwrapped) index
// triple (i,j,k). Indices outside [0,n) address periodic images.
func (l *Level) Point(i, j, k int) [3]float64 {
	fi, fj, fk := float64(i), float64(j), float64(k)
	var r [3]float64
	for ax := 0; ax < 3; ax++ {
		r[ax] = l.Origin[ax] + fi*l.Spacing[0][ax] + fj*l.Spacing[1][ax] + fk*l.Spacing[2][ax]
	}
	return r
}

// NewArray allocates a zeroed array shaped for this level.
func (l *Level) NewArray() *Array { return NewArray(l.Dims) }
