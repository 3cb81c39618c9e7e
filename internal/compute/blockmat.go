package compute

import (
	"fmt"
	"sort"
)

// BlockMatrix is the sparse pair-block output of integration: one dense
// na-by-nb block per contracted pair that any task touched, indexed by pair
// position in the neighbor list. Accumulation is additive across tasks and
// periodic images.
type BlockMatrix struct {
	blocks map[int][]float64
	dims   map[int][2]int
}

// NewBlockMatrix returns an empty matrix.
func NewBlockMatrix() *BlockMatrix {
	return &BlockMatrix{
		blocks: make(map[int][]float64),
		dims:   make(map[int][2]int),
	}
}

// Block returns the pair's block, creating it zeroed on first touch.
// Asking for the same pair with different dimensions is a programming
// error.
func (m *BlockMatrix) Block(pair, na, nb int) []float64 {
	if b, ok := m.blocks[pair]; ok {
		if d := m.dims[pair]; d[0] != na || d[1] != nb {
			panic(fmt.Sprintf("compute: pair %d block requested as %dx%d, previously %dx%d",
				pair, na, nb, d[0], d[1]))
		}
		return b
	}
	b := make([]float64, na*nb)
	m.blocks[pair] = b
	m.dims[pair] = [2]int{na, nb}
	return b
}

// Get returns a pair's block if present.
func (m *BlockMatrix) Get(pair int) ([]float64, bool) {
	b, ok := m.blocks[pair]
	return b, ok
}

// Pairs lists the touched pair indices in ascending order.
func (m *BlockMatrix) Pairs() []int {
	ps := make([]int, 0, len(m.blocks))
	for p := range m.blocks {
		ps = append(ps, p)
	}
	sort.Ints(ps)
	return ps
}

// Merge accumulates another matrix into this one; used to combine
// per-worker partial results.
func (m *BlockMatrix) Merge(o *BlockMatrix) {
	for p, ob := range o.blocks {
		d := o.dims[p]
		b := m.Block(p, d[0], d[1])
		for i, v := range ob {
			b[i] += v
		}
	}
}
