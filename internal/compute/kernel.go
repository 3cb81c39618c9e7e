package compute

import (
	"math"

	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/poly"
	"github.com/rgayatri23/gridcol/internal/tasks"
)

// wrapIndex folds an unwrapped grid index into [0,n).
func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// collocateGeneral rasterizes one task's coefficients over its bounding
// box by direct per-point evaluation. It handles any cell shape: the
// displacement is computed in Cartesian space from the unwrapped index, so
// a box wider than the grid sums the correct periodic images into the same
// physical points.
//
// Only wrapped first-axis indices in [xlo,xhi) are written, which is how
// the tiled CPU path partitions grid memory between workers; the serial
// caller passes the full range.
func collocateGeneral(lvl *grid.Level, arr *grid.Array, t *tasks.Task, coef *poly.Coefficients, xlo, xhi int) {
	n := lvl.Dims
	ctr := coef.Center
	zeta := coef.Zeta
	for i := t.Lo[0]; i <= t.Hi[0]; i++ {
		ii := wrapIndex(i, n[0])
		if ii < xlo || ii >= xhi {
			continue
		}
		for j := t.Lo[1]; j <= t.Hi[1]; j++ {
			jj := wrapIndex(j, n[1])
			rowBase := (ii*n[1] + jj) * n[2]
			for k := t.Lo[2]; k <= t.Hi[2]; k++ {
				kk := wrapIndex(k, n[2])
				p := lvl.Point(i, j, k)
				dx, dy, dz := p[0]-ctr[0], p[1]-ctr[1], p[2]-ctr[2]
				d2 := dx*dx + dy*dy + dz*dz
				arr.Data[rowBase+kk] += math.Exp(-zeta*d2) * coef.Eval(dx, dy, dz)
			}
		}
	}
}

// integrateGeneral is the pointwise adjoint of collocateGeneral: it
// gathers the grid values over the task's box into the moment table
//
//	m(kx,ky,kz) = dV * sum_points V * dx^kx dy^ky dz^kz * exp(-zeta r^2)
//
// which BlockAdjoint then contracts into the pair's output block.
func integrateGeneral(lvl *grid.Level, arr *grid.Array, t *tasks.Task, moments *poly.Coefficients) {
	n := lvl.Dims
	ctr := moments.Center
	zeta := moments.Zeta
	kmax := moments.KMax
	px := make([]float64, kmax+1)
	py := make([]float64, kmax+1)
	pz := make([]float64, kmax+1)
	raw := moments.Raw()
	for i := t.Lo[0]; i <= t.Hi[0]; i++ {
		ii := wrapIndex(i, n[0])
		for j := t.Lo[1]; j <= t.Hi[1]; j++ {
			jj := wrapIndex(j, n[1])
			rowBase := (ii*n[1] + jj) * n[2]
			for k := t.Lo[2]; k <= t.Hi[2]; k++ {
				kk := wrapIndex(k, n[2])
				v := arr.Data[rowBase+kk]
				if v == 0 {
					continue
				}
				p := lvl.Point(i, j, k)
				dx, dy, dz := p[0]-ctr[0], p[1]-ctr[1], p[2]-ctr[2]
				d2 := dx*dx + dy*dy + dz*dz
				g := v * math.Exp(-zeta*d2)
				powers(px, dx)
				powers(py, dy)
				powers(pz, dz)
				idx := 0
				for kx := 0; kx <= kmax; kx++ {
					gx := g * px[kx]
					for ky := 0; ky <= kmax; ky++ {
						gxy := gx * py[ky]
						for kz := 0; kz <= kmax; kz++ {
							raw[idx] += gxy * pz[kz]
							idx++
						}
					}
				}
			}
		}
	}
	dv := lvl.VolumeElement()
	for i := range raw {
		raw[i] *= dv
	}
}

// powers fills dst with d^0..d^len-1.
func powers(dst []float64, d float64) {
	dst[0] = 1
	for i := 1; i < len(dst); i++ {
		dst[i] = dst[i-1] * d
	}
}
