package pab

import (
	"github.com/rgayatri23/gridcol/internal/poly"
)

// Basis holds the per-task expansion machinery of one primitive pair: the
// product Gaussian and the three 1D axis tables expressing Cartesian
// component products in the product-Gaussian frame. Built once per task,
// read-only afterwards, shared by preparation and its adjoint.
type Basis struct {
	PP     PrimitivePair
	Zeta   float64
	Center [3]float64
	Pref   float64

	tabs   [3]*poly.AxisTable
	compsA [][3]int
	compsB [][3]int
}

// NewBasis precomputes the product Gaussian and axis tables for a
// primitive pair. Angular momenta above MaxL are a contract violation.
func NewBasis(pp PrimitivePair) *Basis {
	if pp.LA < 0 || pp.LA > MaxL || pp.LB < 0 || pp.LB > MaxL {
		panic("pab: primitive pair angular momentum out of range")
	}
	b := &Basis{PP: pp}
	b.Zeta, b.Center, b.Pref = poly.Product(pp.AlphaA, pp.AlphaB, pp.CenterA, pp.CenterB)
	for ax := 0; ax < 3; ax++ {
		pa := b.Center[ax] - pp.CenterA[ax]
		pb := b.Center[ax] - pp.CenterB[ax]
		b.tabs[ax] = poly.NewAxisTable(pp.LA, pp.LB, pa, pb)
	}
	b.compsA = CartComponents(pp.LA)
	b.compsB = CartComponents(pp.LB)
	return b
}

// KMax returns the per-axis polynomial degree of the prepared coefficients
// for the given operator.
func (b *Basis) KMax(op Operator) int {
	return b.PP.LA + b.PP.LB + op.DerivOrder()
}

// NA and NB report the Cartesian block dimensions.
func (b *Basis) NA() int { return len(b.compsA) }
func (b *Basis) NB() int { return len(b.compsB) }

// accumProduct adds w times the expansion of component pair (ca, cb) into
// dst, which must be bound to the product Gaussian.
func (b *Basis) accumProduct(ca, cb [3]int, w float64, dst *poly.Coefficients) {
	ex, ey, ez := b.tabs[0], b.tabs[1], b.tabs[2]
	for kx := 0; kx <= ca[0]+cb[0]; kx++ {
		wx := w * ex.E(ca[0], cb[0], kx)
		if wx == 0 {
			continue
		}
		for ky := 0; ky <= ca[1]+cb[1]; ky++ {
			wxy := wx * ey.E(ca[1], cb[1], ky)
			if wxy == 0 {
				continue
			}
			for kz := 0; kz <= ca[2]+cb[2]; kz++ {
				dst.Add(kx, ky, kz, wxy*ez.E(ca[2], cb[2], kz))
			}
		}
	}
}

// applyOperator turns the bare product expansion into the requested
// operator's coefficients, recycling tables through the arena. The input
// table is consumed.
func (b *Basis) applyOperator(base *poly.Coefficients, op Operator, arena *poly.CoeffArena) *poly.Coefficients {
	switch op {
	case Density:
		return base
	case GradX, GradY, GradZ:
		dst := arena.Get(base.KMax+1, b.Zeta, b.Center)
		poly.Derivative(base, int(op-GradX), dst)
		arena.Put(base)
		return dst
	case Laplacian:
		dst := arena.Get(base.KMax+2, b.Zeta, b.Center)
		scratch := arena.Get(base.KMax+1, b.Zeta, b.Center)
		poly.Laplacian(base, dst, scratch)
		arena.Put(scratch)
		arena.Put(base)
		return dst
	}
	panic("pab: unknown operator")
}

// Prepare builds the operator's polynomial coefficients for this primitive
// pair from the flat pair block (row-major, b index fastest). The returned
// table comes from the arena; callers hand it back with Put when the task
// completes.
func (b *Basis) Prepare(block []float64, op Operator, arena *poly.CoeffArena) *poly.Coefficients {
	if len(block) != b.NA()*b.NB() {
		panic("pab: block length does not match shell pair dimensions")
	}
	base := arena.Get(b.PP.LA+b.PP.LB, b.Zeta, b.Center)
	scale := b.PP.CoefProd * b.Pref
	for ib, cb := range b.compsB {
		for ia, ca := range b.compsA {
			w := scale * block[ia*len(b.compsB)+ib]
			if w == 0 {
				continue
			}
			b.accumProduct(ca, cb, w, base)
		}
	}
	return b.applyOperator(base, op, arena)
}

// BlockAdjoint is the exact transpose of Prepare: it contracts grid
// moments (same shape Prepare would produce) against each component's
// basis coefficients and accumulates the results into the pair's output
// block.
func (b *Basis) BlockAdjoint(moments *poly.Coefficients, op Operator, arena *poly.CoeffArena, out []float64) {
	if len(out) != b.NA()*b.NB() {
		panic("pab: output block length does not match shell pair dimensions")
	}
	if moments.KMax != b.KMax(op) {
		panic("pab: moments table shape does not match operator")
	}
	scale := b.PP.CoefProd * b.Pref
	for ib, cb := range b.compsB {
		for ia, ca := range b.compsA {
			base := arena.Get(b.PP.LA+b.PP.LB, b.Zeta, b.Center)
			b.accumProduct(ca, cb, scale, base)
			comp := b.applyOperator(base, op, arena)
			out[ia*len(b.compsB)+ib] += comp.Dot(moments)
			arena.Put(comp)
		}
	}
}
