package poly

// Coefficients is the dense expansion of a product-Gaussian polynomial in
// its local frame: the represented function is
//
//	sum_{kx,ky,kz} C(kx,ky,kz) dx^kx dy^ky dz^kz * exp(-Zeta*(dx^2+dy^2+dz^2))
//
// with (dx,dy,dz) the Cartesian displacement from Center. Powers run from 0
// to KMax independently on each axis.
type Coefficients struct {
	KMax   int
	Zeta   float64
	Center [3]float64
	c      []float64
}

// NewCoefficients allocates a zeroed table for powers up to kmax per axis.
func NewCoefficients(kmax int) *Coefficients {
	n := kmax + 1
	return &Coefficients{KMax: kmax, c: make([]float64, n*n*n)}
}

func (c *Coefficients) index(kx, ky, kz int) int {
	n := c.KMax + 1
	return (kx*n+ky)*n + kz
}

// At returns C(kx,ky,kz); out-of-range powers read as zero.
func (c *Coefficients) At(kx, ky, kz int) float64 {
	if kx < 0 || ky < 0 || kz < 0 || kx > c.KMax || ky > c.KMax || kz > c.KMax {
		return 0
	}
	return c.c[c.index(kx, ky, kz)]
}

// Add accumulates v into C(kx,ky,kz).
func (c *Coefficients) Add(kx, ky, kz int, v float64) {
	c.c[c.index(kx, ky, kz)] += v
}

// Raw exposes the flat backing slice, kz fastest.
func (c *Coefficients) Raw() []float64 { return c.c }

// Reset rebinds the table to a new product Gaussian and zeroes it. The
// backing array is reused when kmax fits, so repeated Reset in a hot loop
// does not allocate.
func (c *Coefficients) Reset(kmax int, zeta float64, center [3]float64) {
	n := kmax + 1
	need := n * n * n
	if cap(c.c) < need {
		c.c = make([]float64, need)
	} else {
		c.c = c.c[:need]
		for i := range c.c {
			c.c[i] = 0
		}
	}
	c.KMax = kmax
	c.Zeta = zeta
	c.Center = center
}

// Dot returns the elementwise inner product of two tables with identical
// KMax. Tables of different shape are a programming error.
func (c *Coefficients) Dot(o *Coefficients) float64 {
	if c.KMax != o.KMax {
		panic("poly: Dot on mismatched coefficient tables")
	}
	s := 0.0
	for i, v := range c.c {
		s += v * o.c[i]
	}
	return s
}

// AddScaled accumulates a*o into c. Shapes must match.
func (c *Coefficients) AddScaled(a float64, o *Coefficients) {
	if c.KMax != o.KMax {
		panic("poly: AddScaled on mismatched coefficient tables")
	}
	for i, v := range o.c {
		c.c[i] += a * v
	}
}

// Eval evaluates the polynomial part at displacement (dx,dy,dz) by nested
// Horner recursion, kz innermost. The Gaussian factor is not included.
func (c *Coefficients) Eval(dx, dy, dz float64) float64 {
	n := c.KMax + 1
	vx := 0.0
	for kx := c.KMax; kx >= 0; kx-- {
		vy := 0.0
		for ky := c.KMax; ky >= 0; ky-- {
			row := c.c[(kx*n+ky)*n : (kx*n+ky)*n+n]
			vz := 0.0
			for kz := c.KMax; kz >= 0; kz-- {
				vz = vz*dz + row[kz]
			}
			vy = vy*dy + vz
		}
		vx = vx*dx + vy
	}
	return vx
}
