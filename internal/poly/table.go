package poly

// AxisTable holds the 1D expansion coefficients of a Gaussian product along
// one Cartesian axis: (x-Ax)^i * (x-Bx)^j = sum_k E(i,j,k) * (x-Px)^k,
// for i <= la, j <= lb, k <= i+j.
//
// The table is filled by the two-term recursion
//
//	E(i+1,j,k) = pa*E(i,j,k) + E(i,j,k-1)
//	E(i,j+1,k) = pb*E(i,j,k) + E(i,j,k-1)
//
// with pa = Px-Ax and pb = Px-Bx, rather than by summing binomial products
// directly. The recursion keeps intermediate terms on the same scale, which
// stays stable well past l = 10 where the direct alternating sums start to
// cancel.
type AxisTable struct {
	la, lb int
	stride int
	e      []float64
}

// NewAxisTable builds the full triangular table for angular momenta up to
// (la, lb) with displacements pa = Px-Ax, pb = Px-Bx.
func NewAxisTable(la, lb int, pa, pb float64) *AxisTable {
	t := &AxisTable{
		la:     la,
		lb:     lb,
		stride: la + lb + 1,
		e:      make([]float64, (la+1)*(lb+1)*(la+lb+1)),
	}
	t.e[0] = 1

	for i := 0; i < la; i++ {
		src := t.row(i, 0)
		dst := t.row(i+1, 0)
		for k := 0; k <= i; k++ {
			dst[k] += pa * src[k]
			dst[k+1] += src[k]
		}
	}
	for i := 0; i <= la; i++ {
		for j := 0; j < lb; j++ {
			src := t.row(i, j)
			dst := t.row(i, j+1)
			for k := 0; k <= i+j; k++ {
				dst[k] += pb * src[k]
				dst[k+1] += src[k]
			}
		}
	}
	return t
}

func (t *AxisTable) row(i, j int) []float64 {
	off := (i*(t.lb+1) + j) * t.stride
	return t.e[off : off+t.stride]
}

// E returns the coefficient of (x-Px)^k in the expansion of
// (x-Ax)^i (x-Bx)^j. Zero outside the triangle k <= i+j.
func (t *AxisTable) E(i, j, k int) float64 {
	if k < 0 || k > i+j {
		return 0
	}
	return t.row(i, j)[k]
}
