package pab

import "fmt"

// MaxL is the hard ceiling on per-shell angular momentum the coefficient
// machinery is dimensioned for. Exceeding it is a precondition violation,
// not a recoverable error.
const MaxL = 10

// Shell is one contracted Gaussian shell: a center, a single angular
// momentum, and the primitive exponents with their contraction
// coefficients.
type Shell struct {
	Center    [3]float64
	L         int
	Exponents []float64
	Coeffs    []float64
}

// Validate checks the shell's invariants once, so downstream code can trust
// it unchecked.
func (s Shell) Validate() error {
	if s.L < 0 || s.L > MaxL {
		return fmt.Errorf("pab: angular momentum %d outside [0,%d]", s.L, MaxL)
	}
	if len(s.Exponents) == 0 {
		return fmt.Errorf("pab: shell has no primitives")
	}
	if len(s.Exponents) != len(s.Coeffs) {
		return fmt.Errorf("pab: %d exponents vs %d contraction coefficients",
			len(s.Exponents), len(s.Coeffs))
	}
	for i, a := range s.Exponents {
		if a <= 0 {
			return fmt.Errorf("pab: primitive %d has non-positive exponent %g", i, a)
		}
	}
	return nil
}

// NCart returns the number of Cartesian components of the shell,
// (L+1)(L+2)/2.
func (s Shell) NCart() int { return NCart(s.L) }

// NCart returns the Cartesian component count for angular momentum l.
func NCart(l int) int { return (l + 1) * (l + 2) / 2 }

// CartComponents lists the (lx,ly,lz) triples of angular momentum l in the
// conventional order: lx descending, then ly descending.
func CartComponents(l int) [][3]int {
	comps := make([][3]int, 0, NCart(l))
	for lx := l; lx >= 0; lx-- {
		for ly := l - lx; ly >= 0; ly-- {
			comps = append(comps, [3]int{lx, ly, l - lx - ly})
		}
	}
	return comps
}

// ShellPair is one neighbor-list entry: two contracted shells whose product
// is to be collocated or integrated.
type ShellPair struct {
	A, B Shell
}

// Validate checks both shells.
func (p ShellPair) Validate() error {
	if err := p.A.Validate(); err != nil {
		return fmt.Errorf("shell a: %w", err)
	}
	if err := p.B.Validate(); err != nil {
		return fmt.Errorf("shell b: %w", err)
	}
	return nil
}

// BlockLen returns the expected flat length of the pair's operator block,
// NCart(A.L) * NCart(B.L), stored row-major with the b index fastest.
func (p ShellPair) BlockLen() int { return p.A.NCart() * p.B.NCart() }

// PrimitivePair is one (primitive a, primitive b) combination of a shell
// pair; the unit the task list schedules. CoefProd carries the product of
// the two contraction coefficients.
type PrimitivePair struct {
	PairIndex      int
	AlphaA, AlphaB float64
	CoefProd       float64
	CenterA        [3]float64
	CenterB        [3]float64
	LA, LB         int
}
