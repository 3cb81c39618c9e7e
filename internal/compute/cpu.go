package compute

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/pab"
	"github.com/rgayatri23/gridcol/internal/poly"
	"github.com/rgayatri23/gridcol/internal/tasks"
)

// CPU is the batched backend: on orthorhombic cells it expresses each
// task's rasterization as three dense matrix products over per-axis
// coefficient tables, and falls back to the general per-point path on
// triclinic cells. Both produce the reference result to rounding.
//
// Collocation is parallelized by partitioning the first grid axis into
// slabs, one worker per slab; every worker walks all tasks but writes only
// the rows it owns, so no synchronization is needed on grid memory.
// Integration is parallel over tasks with per-worker block accumulators
// merged at the end.
type CPU struct {
	workers int
}

// NewCPU returns the batched CPU backend; workers <= 0 means GOMAXPROCS.
func NewCPU(workers int) *CPU {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPU{workers: workers}
}

func (c *CPU) Name() string    { return "cpu" }
func (c *CPU) Available() bool { return true }
func (c *CPU) Cleanup()        {}

// orthoSeparable reports whether the level's spacing vectors are
// axis-aligned, the precondition for the separable tensor-product path.
func orthoSeparable(lvl *grid.Level) bool {
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			if a != b && math.Abs(lvl.Spacing[a][b]) > 1e-14 {
				return false
			}
		}
	}
	return true
}

func (c *CPU) Collocate(lvl *grid.Level, arr *grid.Array, tl *tasks.TaskList, level int, blocks [][]float64, op pab.Operator) error {
	lt := tl.LevelTasks(level)
	if len(lt) == 0 {
		return nil
	}
	ortho := orthoSeparable(lvl)

	// Prepare each task's coefficients once, parallel over tasks, before
	// the slab scatter. The slab workers then share the read-only tables
	// instead of each re-deriving them per task.
	coefs := make([]*poly.Coefficients, len(lt))
	np := c.workers
	if np > len(lt) {
		np = len(lt)
	}
	pchunk := (len(lt) + np - 1) / np
	var prep sync.WaitGroup
	for w := 0; w < np; w++ {
		prep.Add(1)
		go func(w int) {
			defer prep.Done()
			arena := poly.NewCoeffArena(tl.MaxL)
			start := w * pchunk
			end := start + pchunk
			if end > len(lt) {
				end = len(lt)
			}
			for i := start; i < end; i++ {
				t := &lt[i]
				coefs[i] = pab.NewBasis(t.Prim).Prepare(blocks[t.Pair], op, arena)
			}
		}(w)
	}
	prep.Wait()

	nw := c.workers
	if nw > lvl.Dims[0] {
		nw = lvl.Dims[0]
	}
	chunk := (lvl.Dims[0] + nw - 1) / nw

	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			xlo := w * chunk
			xhi := xlo + chunk
			if xhi > lvl.Dims[0] {
				xhi = lvl.Dims[0]
			}
			for i := range lt {
				if ortho {
					collocateOrthoSlab(lvl, arr, &lt[i], coefs[i], xlo, xhi)
				} else {
					collocateGeneral(lvl, arr, &lt[i], coefs[i], xlo, xhi)
				}
			}
		}(w)
	}
	wg.Wait()
	return nil
}

func (c *CPU) Integrate(lvl *grid.Level, arr *grid.Array, tl *tasks.TaskList, level int, op pab.Operator, out *BlockMatrix) error {
	lt := tl.LevelTasks(level)
	if len(lt) == 0 {
		return nil
	}
	ortho := orthoSeparable(lvl)

	nw := c.workers
	if nw > len(lt) {
		nw = len(lt)
	}
	chunk := (len(lt) + nw - 1) / nw

	locals := make([]*BlockMatrix, nw)
	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := NewBlockMatrix()
			locals[w] = local
			arena := poly.NewCoeffArena(tl.MaxL)
			start := w * chunk
			end := start + chunk
			if end > len(lt) {
				end = len(lt)
			}
			for i := start; i < end; i++ {
				t := &lt[i]
				basis := pab.NewBasis(t.Prim)
				moments := arena.Get(basis.KMax(op), basis.Zeta, basis.Center)
				if ortho {
					integrateOrtho(lvl, arr, t, moments)
				} else {
					integrateGeneral(lvl, arr, t, moments)
				}
				block := local.Block(t.Pair, basis.NA(), basis.NB())
				basis.BlockAdjoint(moments, op, arena, block)
				arena.Put(moments)
			}
		}(w)
	}
	wg.Wait()

	for _, local := range locals {
		out.Merge(local)
	}
	return nil
}

// axisTable fills one axis's table P[row][k] = d^k * exp(-zeta*d^2) for the
// unwrapped indices idx, where d is the axis displacement from the center.
func axisTable(idx []int, ctr float64, zeta, spacing, origin float64, nk int) *mat.Dense {
	p := mat.NewDense(len(idx), nk, nil)
	for r, i := range idx {
		d := origin + float64(i)*spacing - ctr
		g := math.Exp(-zeta * d * d)
		row := p.RawRowView(r)
		row[0] = g
		for k := 1; k < nk; k++ {
			row[k] = row[k-1] * d
		}
	}
	return p
}

func boxRange(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	idx := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		idx = append(idx, i)
	}
	return idx
}

// collocateOrthoSlab rasterizes one task through dense matrix products:
//
//	V[i,(j,k)] = PX[i,:] * (sum_kx-major M),  M[kx,(j,k)] = PY * (C x PZ^T)
//
// restricted to the first-axis rows whose wrapped index lies in [xlo,xhi).
func collocateOrthoSlab(lvl *grid.Level, arr *grid.Array, t *tasks.Task, coef *poly.Coefficients, xlo, xhi int) {
	n := lvl.Dims
	nk := coef.KMax + 1

	var ownedRows []int
	for i := t.Lo[0]; i <= t.Hi[0]; i++ {
		if ii := wrapIndex(i, n[0]); ii >= xlo && ii < xhi {
			ownedRows = append(ownedRows, i)
		}
	}
	if len(ownedRows) == 0 {
		return
	}
	jIdx := boxRange(t.Lo[1], t.Hi[1])
	kIdx := boxRange(t.Lo[2], t.Hi[2])
	nyb, nzb := len(jIdx), len(kIdx)
	if nyb == 0 || nzb == 0 {
		return
	}

	ctr := coef.Center
	px := axisTable(ownedRows, ctr[0], coef.Zeta, lvl.Spacing[0][0], lvl.Origin[0], nk)
	py := axisTable(jIdx, ctr[1], coef.Zeta, lvl.Spacing[1][1], lvl.Origin[1], nk)
	pz := axisTable(kIdx, ctr[2], coef.Zeta, lvl.Spacing[2][2], lvl.Origin[2], nk)

	cmat := mat.NewDense(nk*nk, nk, coef.Raw())
	t1 := mat.NewDense(nk*nk, nzb, nil)
	t1.Mul(cmat, pz.T())

	m := mat.NewDense(nk, nyb*nzb, nil)
	for kx := 0; kx < nk; kx++ {
		a := t1.Slice(kx*nk, (kx+1)*nk, 0, nzb)
		dst := mat.NewDense(nyb, nzb, m.RawRowView(kx))
		dst.Mul(py, a)
	}

	v := mat.NewDense(len(ownedRows), nyb*nzb, nil)
	v.Mul(px, m)

	for r, i := range ownedRows {
		ii := wrapIndex(i, n[0])
		row := v.RawRowView(r)
		idx := 0
		for _, j := range jIdx {
			jj := wrapIndex(j, n[1])
			base := (ii*n[1] + jj) * n[2]
			for _, k := range kIdx {
				kk := wrapIndex(k, n[2])
				arr.Data[base+kk] += row[idx]
				idx++
			}
		}
	}
}

// integrateOrtho is the transpose of collocateOrthoSlab over the full box:
// it gathers the grid values and contracts them against the same per-axis
// tables into the moment table, scaled by the volume element.
func integrateOrtho(lvl *grid.Level, arr *grid.Array, t *tasks.Task, moments *poly.Coefficients) {
	n := lvl.Dims
	nk := moments.KMax + 1

	iIdx := boxRange(t.Lo[0], t.Hi[0])
	jIdx := boxRange(t.Lo[1], t.Hi[1])
	kIdx := boxRange(t.Lo[2], t.Hi[2])
	nxb, nyb, nzb := len(iIdx), len(jIdx), len(kIdx)
	if nxb == 0 || nyb == 0 || nzb == 0 {
		return
	}

	ctr := moments.Center
	px := axisTable(iIdx, ctr[0], moments.Zeta, lvl.Spacing[0][0], lvl.Origin[0], nk)
	py := axisTable(jIdx, ctr[1], moments.Zeta, lvl.Spacing[1][1], lvl.Origin[1], nk)
	pz := axisTable(kIdx, ctr[2], moments.Zeta, lvl.Spacing[2][2], lvl.Origin[2], nk)

	w := mat.NewDense(nxb, nyb*nzb, nil)
	for r, i := range iIdx {
		ii := wrapIndex(i, n[0])
		row := w.RawRowView(r)
		idx := 0
		for _, j := range jIdx {
			jj := wrapIndex(j, n[1])
			base := (ii*n[1] + jj) * n[2]
			for _, k := range kIdx {
				kk := wrapIndex(k, n[2])
				row[idx] = arr.Data[base+kk]
				idx++
			}
		}
	}

	s1 := mat.NewDense(nk, nyb*nzb, nil)
	s1.Mul(px.T(), w)

	dv := lvl.VolumeElement()
	raw := moments.Raw()
	s2 := mat.NewDense(nk, nzb, nil)
	var mk mat.Dense
	for kx := 0; kx < nk; kx++ {
		b := mat.NewDense(nyb, nzb, s1.RawRowView(kx))
		s2.Mul(py.T(), b)
		mk.Mul(s2, pz)
		for ky := 0; ky < nk; ky++ {
			for kz := 0; kz < nk; kz++ {
				raw[(kx*nk+ky)*nk+kz] += dv * mk.At(ky, kz)
			}
		}
	}
}
