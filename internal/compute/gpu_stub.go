//go:build !cuda

package compute

import (
	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/pab"
	"github.com/rgayatri23/gridcol/internal/tasks"
)

// GPU without the cuda build tag: never available. The executor rejects it
// at construction, so the method stubs are unreachable in practice.
type GPU struct{}

func NewGPU() *GPU { return &GPU{} }

func (g *GPU) Name() string    { return "gpu (not built)" }
func (g *GPU) Available() bool { return false }
func (g *GPU) Cleanup()        {}

func (g *GPU) Collocate(lvl *grid.Level, arr *grid.Array, tl *tasks.TaskList, level int, blocks [][]float64, op pab.Operator) error {
	return ErrBackendUnavailable
}

func (g *GPU) Integrate(lvl *grid.Level, arr *grid.Array, tl *tasks.TaskList, level int, op pab.Operator, out *BlockMatrix) error {
	return ErrBackendUnavailable
}
