package poly

// CoeffArena recycles Coefficients tables sized for the maximum supported
// angular momentum, so the per-task hot path never touches the allocator.
// Arenas are not safe for concurrent use; each worker owns one.
type CoeffArena struct {
	maxK int
	free []*Coefficients
}

// NewCoeffArena sizes the arena for pair angular momenta up to maxL per
// shell plus two derivative orders (the Laplacian raises every axis power
// by at most two).
func NewCoeffArena(maxL int) *CoeffArena {
	return &CoeffArena{maxK: 2*maxL + 2}
}

// MaxK reports the largest per-axis power the arena can hand out.
func (a *CoeffArena) MaxK() int { return a.maxK }

// Get returns a zeroed table bound to (kmax, zeta, center). kmax beyond the
// arena's capacity is a contract violation.
func (a *CoeffArena) Get(kmax int, zeta float64, center [3]float64) *Coefficients {
	if kmax > a.maxK {
		panic("poly: angular momentum exceeds arena capacity")
	}
	var c *Coefficients
	if n := len(a.free); n > 0 {
		c = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		c = NewCoefficients(a.maxK)
	}
	c.Reset(kmax, zeta, center)
	return c
}

// Put returns a table to the arena for reuse.
func (a *CoeffArena) Put(c *Coefficients) {
	if c == nil {
		return
	}
	a.free = append(a.free, c)
}
