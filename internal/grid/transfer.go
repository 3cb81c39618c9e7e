package grid

import "fmt"

// Prolongate interpolates a coarse-level density onto a commensurate finer
// grid and accumulates it there, using periodic trilinear interpolation.
// The interpolation weights form a partition of unity, so the integral
// (sum times volume element) of the transferred density equals the coarse
// one exactly; this is what multigrid summation into a single fine density
// relies on.
//
// Fine dimensions must be integer multiples of the coarse ones.
func Prolongate(coarse, fine *Array) error {
	for ax := 0; ax < 3; ax++ {
		if coarse.Dims[ax] <= 0 || fine.Dims[ax]%coarse.Dims[ax] != 0 {
			return fmt.Errorf("grid: prolongation needs commensurate dims, got coarse %v fine %v",
				coarse.Dims, fine.Dims)
		}
	}
	nc, nf := coarse.Dims, fine.Dims

	// Per-axis interpolation stencils: fine index -> (lower coarse index, weight).
	type stencil struct {
		i0 int
		w0 float64
	}
	var st [3][]stencil
	for ax := 0; ax < 3; ax++ {
		st[ax] = make([]stencil, nf[ax])
		ratio := float64(nc[ax]) / float64(nf[ax])
		for i := 0; i < nf[ax]; i++ {
			x := float64(i) * ratio
			i0 := int(x)
			st[ax][i] = stencil{i0: i0, w0: 1 - (x - float64(i0))}
		}
	}

	for i := 0; i < nf[0]; i++ {
		sx := st[0][i]
		ix1 := (sx.i0 + 1) % nc[0]
		for j := 0; j < nf[1]; j++ {
			sy := st[1][j]
			jy1 := (sy.i0 + 1) % nc[1]
			for k := 0; k < nf[2]; k++ {
				sz := st[2][k]
				kz1 := (sz.i0 + 1) % nc[2]
				v := sx.w0*sy.w0*sz.w0*coarse.At(sx.i0, sy.i0, sz.i0) +
					sx.w0*sy.w0*(1-sz.w0)*coarse.At(sx.i0, sy.i0, kz1) +
					sx.w0*(1-sy.w0)*sz.w0*coarse.At(sx.i0, jy1, sz.i0) +
					sx.w0*(1-sy.w0)*(1-sz.w0)*coarse.At(sx.i0, jy1, kz1) +
					(1-sx.w0)*sy.w0*sz.w0*coarse.At(ix1, sy.i0, sz.i0) +
					(1-sx.w0)*sy.w0*(1-sz.w0)*coarse.At(ix1, sy.i0, kz1) +
					(1-sx.w0)*(1-sy.w0)*sz.w0*coarse.At(ix1, jy1, sz.i0) +
					(1-sx.w0)*(1-sy.w0)*(1-sz.w0)*coarse.At(ix1, jy1, kz1)
				fine.Add(i, j, k, v)
			}
		}
	}
	return nil
}

// Restrict is the transpose of Prolongate: it gathers a fine-level field
// onto a commensurate coarser grid with the same trilinear weights, so that
// <Prolongate(c), f> == <c, Restrict(f)> pointwise-sum inner products.
// Results accumulate into coarse.
func Restrict(fine, coarse *Array) error {
	for ax := 0; ax < 3; ax++ {
		if coarse.Dims[ax] <= 0 || fine.Dims[ax]%coarse.Dims[ax] != 0 {
			return fmt.Errorf("grid: restriction needs commensurate dims, got coarse %v fine %v",
				coarse.Dims, fine.Dims)
		}
	}
	nc, nf := coarse.Dims, fine.Dims

	for i := 0; i < nf[0]; i++ {
		x := float64(i) * float64(nc[0]) / float64(nf[0])
		ix0 := int(x)
		wx0 := 1 - (x - float64(ix0))
		ix1 := (ix0 + 1) % nc[0]
		for j := 0; j < nf[1]; j++ {
			y := float64(j) * float64(nc[1]) / float64(nf[1])
			jy0 := int(y)
			wy0 := 1 - (y - float64(jy0))
			jy1 := (jy0 + 1) % nc[1]
			for k := 0; k < nf[2]; k++ {
				z := float64(k) * float64(nc[2]) / float64(nf[2])
				kz0 := int(z)
				wz0 := 1 - (z - float64(kz0))
				kz1 := (kz0 + 1) % nc[2]
				v := fine.At(i, j, k)
				coarse.Add(ix0, jy0, kz0, wx0*wy0*wz0*v)
				coarse.Add(ix0, jy0, kz1, wx0*wy0*(1-wz0)*v)
				coarse.Add(ix0, jy1, kz0, wx0*(1-wy0)*wz0*v)
				coarse.Add(ix0, jy1, kz1, wx0*(1-wy0)*(1-wz0)*v)
				coarse.Add(ix1, jy0, kz0, (1-wx0)*wy0*wz0*v)
				coarse.Add(ix1, jy0, kz1, (1-wx0)*wy0*(1-wz0)*v)
				coarse.Add(ix1, jy1, kz0, (1-wx0)*(1-wy0)*wz0*v)
				coarse.Add(ix1, jy1, kz1, (1-wx0)*(1-wy0)*(1-wz0)*v)
			}
		}
	}
	return nil
}
