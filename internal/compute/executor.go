package compute

import (
	"context"
	"fmt"

	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/pab"
	"github.com/rgayatri23/gridcol/internal/tasks"
)

// Options selects the backend once, at construction. Backend is one of
// "reference", "cpu", "gpu", or "auto".
type Options struct {
	Backend string
	Workers int
}

// Stats is returned alongside results instead of being kept in ambient
// counters.
type Stats struct {
	Backend  string
	PerLevel []int
	Tasks    int
}

// Executor drives a task list through a backend, level by level in the
// caller's order. Constructed once per task list; an unavailable backend
// fails here, never mid-pass.
type Executor struct {
	backend Backend
	tl      *tasks.TaskList
	set     *grid.Set
}

// NewExecutor validates the backend choice and binds it to the task list.
func NewExecutor(opts Options, tl *tasks.TaskList, set *grid.Set) (*Executor, error) {
	var b Backend
	switch opts.Backend {
	case "", "auto":
		b = AutoSelect(opts.Workers)
	case "reference":
		b = NewReference()
	case "cpu":
		b = NewCPU(opts.Workers)
	case "gpu":
		b = NewGPU()
	default:
		return nil, fmt.Errorf("compute: unknown backend %q", opts.Backend)
	}
	if !b.Available() {
		return nil, fmt.Errorf("compute: backend %q: %w", opts.Backend, ErrBackendUnavailable)
	}
	return &Executor{backend: b, tl: tl, set: set}, nil
}

// Backend exposes the selected backend.
func (e *Executor) Backend() Backend { return e.backend }

// Close releases backend resources.
func (e *Executor) Close() { e.backend.Cleanup() }

func (e *Executor) stats() Stats {
	s := Stats{Backend: e.backend.Name(), PerLevel: e.tl.PerLevel, Tasks: len(e.tl.Tasks)}
	return s
}

// checkBlocks validates the operator blocks once so the kernels can index
// them unchecked.
func (e *Executor) checkBlocks(blocks [][]float64) error {
	if len(blocks) != len(e.tl.Pairs) {
		return fmt.Errorf("compute: %d blocks for %d pairs", len(blocks), len(e.tl.Pairs))
	}
	for i, p := range e.tl.Pairs {
		if len(blocks[i]) != p.BlockLen() {
			return fmt.Errorf("compute: pair %d block has %d elements, want %d",
				i, len(blocks[i]), p.BlockLen())
		}
	}
	return nil
}

func (e *Executor) checkArrays(arrs []*grid.Array) error {
	if len(arrs) != len(e.set.Levels) {
		return fmt.Errorf("compute: %d arrays for %d levels", len(arrs), len(e.set.Levels))
	}
	for i, a := range arrs {
		if a.Dims != e.set.Levels[i].Dims {
			return fmt.Errorf("compute: level %d array dims %v, want %v", i, a.Dims, e.set.Levels[i].Dims)
		}
	}
	return nil
}

// Collocate accumulates the operator density of every task into the
// per-level arrays, which the caller owns exclusively for the duration of
// the pass. Levels run in order; results are additive into whatever the
// arrays already hold.
func (e *Executor) Collocate(ctx context.Context, op pab.Operator, blocks [][]float64, arrs []*grid.Array) (Stats, error) {
	if err := e.checkBlocks(blocks); err != nil {
		return Stats{}, err
	}
	if err := e.checkArrays(arrs); err != nil {
		return Stats{}, err
	}
	for lvlIdx, lvl := range e.set.Levels {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		if err := e.backend.Collocate(lvl, arrs[lvlIdx], e.tl, lvlIdx, blocks, op); err != nil {
			return Stats{}, fmt.Errorf("compute: collocating level %d: %w", lvlIdx, err)
		}
	}
	return e.stats(), nil
}

// Integrate contracts the per-level potentials against every task's pair
// polynomial, accumulating one block per touched pair. The adjoint of
// Collocate: accumulation order across tasks only perturbs results at
// floating-point reassociation level.
func (e *Executor) Integrate(ctx context.Context, op pab.Operator, arrs []*grid.Array) (*BlockMatrix, Stats, error) {
	if err := e.checkArrays(arrs); err != nil {
		return nil, Stats{}, err
	}
	out := NewBlockMatrix()
	for lvlIdx, lvl := range e.set.Levels {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
		if err := e.backend.Integrate(lvl, arrs[lvlIdx], e.tl, lvlIdx, op, out); err != nil {
			return nil, Stats{}, fmt.Errorf("compute: integrating level %d: %w", lvlIdx, err)
		}
	}
	return out, e.stats(), nil
}
