package poly

// accumDerivative adds the coefficients of d/d(axis) of src into dst
// without zeroing it. For a single power,
//
//	d/dt [ t^k e^(-zeta t^2) ] = k t^(k-1) e^(-zeta t^2) - 2 zeta t^(k+1) e^(-zeta t^2)
//
// so dst needs one extra power on that axis.
func accumDerivative(src *Coefficients, axis int, dst *Coefficients) {
	if dst.KMax < src.KMax+1 {
		panic("poly: derivative target table too small")
	}
	for kx := 0; kx <= src.KMax; kx++ {
		for ky := 0; ky <= src.KMax; ky++ {
			for kz := 0; kz <= src.KMax; kz++ {
				v := src.At(kx, ky, kz)
				if v == 0 {
					continue
				}
				k := [3]int{kx, ky, kz}
				down := k
				down[axis]--
				up := k
				up[axis]++
				if k[axis] > 0 {
					dst.Add(down[0], down[1], down[2], float64(k[axis])*v)
				}
				dst.Add(up[0], up[1], up[2], -2*src.Zeta*v)
			}
		}
	}
}

// Derivative writes the coefficients of d/d(axis) of the function src
// represents into dst, which is rebound to the same Gaussian and zeroed.
// dst.KMax must be at least src.KMax+1.
func Derivative(src *Coefficients, axis int, dst *Coefficients) {
	dst.Reset(dst.KMax, src.Zeta, src.Center)
	accumDerivative(src, axis, dst)
}

// Laplacian writes the coefficients of the 3D Laplacian of src into dst,
// which must allow two extra powers per axis. scratch holds the
// intermediate first derivative and must allow one extra power.
func Laplacian(src *Coefficients, dst, scratch *Coefficients) {
	if dst.KMax < src.KMax+2 {
		panic("poly: laplacian target table too small")
	}
	dst.Reset(dst.KMax, src.Zeta, src.Center)
	for axis := 0; axis < 3; axis++ {
		scratch.Reset(scratch.KMax, src.Zeta, src.Center)
		accumDerivative(src, axis, scratch)
		accumDerivative(scratch, axis, dst)
	}
}
