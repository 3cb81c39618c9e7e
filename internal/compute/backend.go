package compute

import (
	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/pab"
	"github.com/rgayatri23/gridcol/internal/tasks"
)

// Backend executes one grid level's batch of tasks. Implementations:
// Reference (general per-point loops, any cell), CPU (batched tensor
// contractions with worker-pool tiling), GPU (cgo offload behind the cuda
// build tag).
//
// Collocate accumulates each task's pair density into arr; Integrate is
// the adjoint, contracting arr against each task's pair polynomial into
// out. Both assume the task list validated every input up front and run
// unchecked; an out-of-range index after wrapping is a programming error,
// not a runtime condition.
type Backend interface {
	Name() string
	Available() bool
	Collocate(lvl *grid.Level, arr *grid.Array, tl *tasks.TaskList, level int, blocks [][]float64, op pab.Operator) error
	Integrate(lvl *grid.Level, arr *grid.Array, tl *tasks.TaskList, level int, op pab.Operator, out *BlockMatrix) error
	Cleanup()
}

// AutoSelect returns the fastest available backend: GPU when the build and
// hardware provide one, otherwise the batched CPU path.
func AutoSelect(workers int) Backend {
	gpu := NewGPU()
	if gpu.Available() {
		return gpu
	}
	return NewCPU(workers)
}
