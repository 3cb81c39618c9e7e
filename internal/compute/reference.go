package compute

import (
	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/pab"
	"github.com/rgayatri23/gridcol/internal/poly"
	"github.com/rgayatri23/gridcol/internal/tasks"
)

// Reference is the always-available serial backend: direct nested-loop
// evaluation per grid point, valid for orthorhombic and triclinic cells
// alike. The batched backends are checked against it.
type Reference struct {
	arena *poly.CoeffArena
}

// NewReference returns the reference backend.
func NewReference() *Reference { return &Reference{} }

func (r *Reference) Name() string    { return "reference" }
func (r *Reference) Available() bool { return true }
func (r *Reference) Cleanup()        {}

func (r *Reference) ensureArena(maxL int) *poly.CoeffArena {
	if r.arena == nil || r.arena.MaxK() < 2*maxL+2 {
		r.arena = poly.NewCoeffArena(maxL)
	}
	return r.arena
}

func (r *Reference) Collocate(lvl *grid.Level, arr *grid.Array, tl *tasks.TaskList, level int, blocks [][]float64, op pab.Operator) error {
	arena := r.ensureArena(tl.MaxL)
	lt := tl.LevelTasks(level)
	for i := range lt {
		t := &lt[i]
		basis := pab.NewBasis(t.Prim)
		coef := basis.Prepare(blocks[t.Pair], op, arena)
		collocateGeneral(lvl, arr, t, coef, 0, lvl.Dims[0])
		arena.Put(coef)
	}
	return nil
}

func (r *Reference) Integrate(lvl *grid.Level, arr *grid.Array, tl *tasks.TaskList, level int, op pab.Operator, out *BlockMatrix) error {
	arena := r.ensureArena(tl.MaxL)
	lt := tl.LevelTasks(level)
	for i := range lt {
		t := &lt[i]
		basis := pab.NewBasis(t.Prim)
		moments := arena.Get(basis.KMax(op), basis.Zeta, basis.Center)
		integrateGeneral(lvl, arr, t, moments)
		block := out.Block(t.Pair, basis.NA(), basis.NB())
		basis.BlockAdjoint(moments, op, arena, block)
		arena.Put(moments)
	}
	return nil
}
