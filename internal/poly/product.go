package poly

import "math"

// Product combines two primitive Gaussians exp(-alphaA*|r-a|^2) and
// exp(-alphaB*|r-b|^2) into a single Gaussian exp(-zeta*|r-center|^2)
// scaled by prefactor.
func Product(alphaA, alphaB float64, a, b [3]float64) (zeta float64, center [3]float64, prefactor float64) {
	zeta = alphaA + alphaB
	mu := alphaA * alphaB / zeta

	d2 := 0.0
	for ax := 0; ax < 3; ax++ {
		center[ax] = (alphaA*a[ax] + alphaB*b[ax]) / zeta
		d := a[ax] - b[ax]
		d2 += d * d
	}
	prefactor = math.Exp(-mu * d2)
	return zeta, center, prefactor
}

// Binomial returns C(n, k) computed by Pascal's triangle. Exact in double
// precision for the angular momenta this package supports.
func Binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	row := make([]float64, n+1)
	row[0] = 1
	for i := 1; i <= n; i++ {
		for j := i; j > 0; j-- {
			row[j] += row[j-1]
		}
	}
	return row[k]
}
