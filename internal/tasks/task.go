package tasks

import (
	"github.com/rgayatri23/gridcol/internal/pab"
)

// Task is one primitive pair's contribution to one grid level: the unit of
// work the executor schedules. Lo/Hi is the inclusive, unwrapped index box
// on the level's grid; indices may fall outside [0,n) on periodic axes, in
// which case the kernels fold them back modulo the grid. A box wider than
// the grid therefore visits the same physical point once per periodic
// image, which is exactly the multi-image coverage a radius beyond half the
// cell requires.
//
// Tasks are immutable during execution.
type Task struct {
	Pair   int
	Prim   pab.PrimitivePair
	Level  int
	Zeta   float64
	Center [3]float64
	Radius float64
	Lo, Hi [3]int
}

// TaskList is the ordered task collection for one geometry, plus the
// per-level counts the builder reports instead of ambient global counters.
// It is rebuilt whenever atomic positions or the cell change and reused
// across collocate/integrate passes in between.
type TaskList struct {
	Tasks    []Task
	PerLevel []int
	Pairs    []pab.ShellPair
	MaxL     int

	levelOffsets []int
}

// LevelTasks returns the contiguous slice of tasks assigned to one level.
func (tl *TaskList) LevelTasks(level int) []Task {
	return tl.Tasks[tl.levelOffsets[level] : tl.levelOffsets[level]+tl.PerLevel[level]]
}
