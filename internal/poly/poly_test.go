package poly

import (
	"math"
	"math/rand"
	"testing"
)

func TestProduct(t *testing.T) {
	zeta, center, pref := Product(1.0, 1.5, [3]float64{0, 0, 0}, [3]float64{1, 0, 0})

	if zeta != 2.5 {
		t.Errorf("expected zeta 2.5, got %g", zeta)
	}
	if math.Abs(center[0]-0.6) > 1e-15 || center[1] != 0 || center[2] != 0 {
		t.Errorf("expected center (0.6,0,0), got %v", center)
	}
	want := math.Exp(-1.0 * 1.5 / 2.5)
	if math.Abs(pref-want) > 1e-15 {
		t.Errorf("expected prefactor %g, got %g", want, pref)
	}
}

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k int
		want float64
	}{
		{0, 0, 1},
		{4, 2, 6},
		{10, 5, 252},
		{10, 0, 1},
		{10, 10, 1},
		{5, 7, 0},
		{5, -1, 0},
	}
	for _, tt := range tests {
		if got := Binomial(tt.n, tt.k); got != tt.want {
			t.Errorf("Binomial(%d,%d) = %g, want %g", tt.n, tt.k, got, tt.want)
		}
	}
}

func TestAxisTableMatchesBinomialSum(t *testing.T) {
	pa, pb := 0.37, -0.81
	tab := NewAxisTable(4, 3, pa, pb)

	for i := 0; i <= 4; i++ {
		for j := 0; j <= 3; j++ {
			for k := 0; k <= i+j; k++ {
				want := 0.0
				for p := 0; p <= i; p++ {
					q := k - p
					if q < 0 || q > j {
						continue
					}
					want += Binomial(i, p) * math.Pow(pa, float64(i-p)) *
						Binomial(j, q) * math.Pow(pb, float64(j-q))
				}
				got := tab.E(i, j, k)
				if math.Abs(got-want) > 1e-12*math.Max(1, math.Abs(want)) {
					t.Errorf("E(%d,%d,%d) = %g, want %g", i, j, k, got, want)
				}
			}
		}
	}
}

func TestAxisTableEvaluation(t *testing.T) {
	// The expansion must reproduce (x-a)^i (x-b)^j pointwise around p.
	a, b := -0.4, 0.9
	alphaA, alphaB := 1.3, 0.7
	p := (alphaA*a + alphaB*b) / (alphaA + alphaB)
	tab := NewAxisTable(3, 3, p-a, p-b)

	for _, x := range []float64{-1.2, 0.0, 0.33, 2.5} {
		for i := 0; i <= 3; i++ {
			for j := 0; j <= 3; j++ {
				want := math.Pow(x-a, float64(i)) * math.Pow(x-b, float64(j))
				got := 0.0
				for k := i + j; k >= 0; k-- {
					got = got*(x-p) + tab.E(i, j, k)
				}
				if math.Abs(got-want) > 1e-10*math.Max(1, math.Abs(want)) {
					t.Errorf("x=%g i=%d j=%d: expansion %g, direct %g", x, i, j, got, want)
				}
			}
		}
	}
}

func TestAxisTableHighAngularMomentum(t *testing.T) {
	// The recursion must stay accurate at l=10 per shell.
	a, b := -0.15, 0.25
	p := 0.05
	tab := NewAxisTable(10, 10, p-a, p-b)

	for _, x := range []float64{-0.7, 0.4, 1.1} {
		want := math.Pow(x-a, 10) * math.Pow(x-b, 10)
		got := 0.0
		for k := 20; k >= 0; k-- {
			got = got*(x-p) + tab.E(10, 10, k)
		}
		rel := math.Abs(got-want) / math.Abs(want)
		if rel > 1e-9 {
			t.Errorf("x=%g: l=10 expansion relative error %g", x, rel)
		}
	}
}

// evalFull evaluates the represented function including the Gaussian.
func evalFull(c *Coefficients, r [3]float64) float64 {
	dx, dy, dz := r[0]-c.Center[0], r[1]-c.Center[1], r[2]-c.Center[2]
	return c.Eval(dx, dy, dz) * math.Exp(-c.Zeta*(dx*dx+dy*dy+dz*dz))
}

func randomCoefficients(rng *rand.Rand, kmax int, zeta float64) *Coefficients {
	c := NewCoefficients(kmax)
	c.Zeta = zeta
	c.Center = [3]float64{0.1, -0.2, 0.05}
	for kx := 0; kx <= kmax; kx++ {
		for ky := 0; ky <= kmax; ky++ {
			for kz := 0; kz <= kmax; kz++ {
				c.Add(kx, ky, kz, rng.NormFloat64())
			}
		}
	}
	return c
}

func TestDerivativeMatchesFiniteDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	src := randomCoefficients(rng, 2, 1.4)

	for axis := 0; axis < 3; axis++ {
		dst := NewCoefficients(src.KMax + 1)
		Derivative(src, axis, dst)

		pts := [][3]float64{{0.3, -0.1, 0.2}, {-0.5, 0.4, -0.3}, {0, 0, 0.7}}
		h := 1e-5
		for _, r := range pts {
			rp, rm := r, r
			rp[axis] += h
			rm[axis] -= h
			want := (evalFull(src, rp) - evalFull(src, rm)) / (2 * h)
			got := evalFull(dst, r)
			if math.Abs(got-want) > 1e-6*math.Max(1, math.Abs(want)) {
				t.Errorf("axis %d at %v: derivative %g, finite difference %g", axis, r, got, want)
			}
		}
	}
}

func TestLaplacianMatchesFiniteDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	src := randomCoefficients(rng, 1, 0.9)

	dst := NewCoefficients(src.KMax + 2)
	scratch := NewCoefficients(src.KMax + 1)
	Laplacian(src, dst, scratch)

	h := 1e-4
	r := [3]float64{0.25, -0.35, 0.15}
	want := 0.0
	f0 := evalFull(src, r)
	for axis := 0; axis < 3; axis++ {
		rp, rm := r, r
		rp[axis] += h
		rm[axis] -= h
		want += (evalFull(src, rp) - 2*f0 + evalFull(src, rm)) / (h * h)
	}
	got := evalFull(dst, r)
	if math.Abs(got-want) > 1e-5*math.Max(1, math.Abs(want)) {
		t.Errorf("laplacian %g, finite difference %g", got, want)
	}
}

func TestEvalHorner(t *testing.T) {
	rng := rand.New(rand.NewSource(44))
	c := randomCoefficients(rng, 3, 1.0)

	dx, dy, dz := 0.7, -0.3, 0.45
	want := 0.0
	for kx := 0; kx <= 3; kx++ {
		for ky := 0; ky <= 3; ky++ {
			for kz := 0; kz <= 3; kz++ {
				want += c.At(kx, ky, kz) *
					math.Pow(dx, float64(kx)) * math.Pow(dy, float64(ky)) * math.Pow(dz, float64(kz))
			}
		}
	}
	got := c.Eval(dx, dy, dz)
	if math.Abs(got-want) > 1e-10*math.Max(1, math.Abs(want)) {
		t.Errorf("Eval %g, direct sum %g", got, want)
	}
}

func TestCoeffArena(t *testing.T) {
	a := NewCoeffArena(3)

	c1 := a.Get(4, 1.0, [3]float64{})
	if c1.KMax != 4 {
		t.Errorf("expected kmax 4, got %d", c1.KMax)
	}
	c1.Add(1, 2, 3, 5.0)
	a.Put(c1)

	c2 := a.Get(2, 2.0, [3]float64{1, 0, 0})
	if c2.At(1, 2, 2) != 0 {
		t.Error("recycled table not zeroed")
	}
	if c2.Zeta != 2.0 || c2.Center[0] != 1 {
		t.Error("recycled table not rebound")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for kmax beyond arena capacity")
		}
	}()
	a.Get(9, 1.0, [3]float64{})
}
