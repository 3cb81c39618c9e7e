package grid

// Array is a dense real-space field on one grid level, stored flat with the
// last index fastest. The engine only reads and writes in place; the array
// is owned by the caller for the duration of a pass.
type Array struct {
	Dims [3]int
	Data []float64
}

// NewArray allocates a zeroed array of the given dimensions.
func NewArray(dims [3]int) *Array {
	return &Array{Dims: dims, Data: make([]float64, dims[0]*dims[1]*dims[2])}
}

// Index maps (i,j,k) to the flat offset. Indices must already be in range;
// the task-list builder guarantees containment after wrapping, so the hot
// kernels call this unchecked.
func (a *Array) Index(i, j, k int) int {
	return (i*a.Dims[1]+j)*a.Dims[2] + k
}

// At returns the value at (i,j,k).
func (a *Array) At(i, j, k int) float64 { return a.Data[a.Index(i, j, k)] }

// Add accumulates v at (i,j,k).
func (a *Array) Add(i, j, k int, v float64) { a.Data[a.Index(i, j, k)] += v }

// Zero clears the array in place.
func (a *Array) Zero() {
	for i := range a.Data {
		a.Data[i] = 0
	}
}

// Total returns the plain sum over all points.
func (a *Array) Total() float64 {
	s := 0.0
	for _, v := range a.Data {
		s += v
	}
	return s
}

// Dot returns the pointwise inner product with another array of the same
// shape.
func (a *Array) Dot(b *Array) float64 {
	if a.Dims != b.Dims {
		panic("grid: Dot on mismatched arrays")
	}
	s := 0.0
	for i, v := range a.Data {
		s += v * b.Data[i]
	}
	return s
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	c := NewArray(a.Dims)
	copy(c.Data, a.Data)
	return c
}
