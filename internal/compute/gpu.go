//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lgridkernels -lstdc++
#include <stdlib.h>

extern int gridcol_device_count();
extern const char* gridcol_device_name();

// Batched kernels: one launch covers every task of a grid level. Both
// return 0 on success, 1 on device memory exhaustion, negative on any
// other device error.
extern int gridcol_collocate_batch(
	double* grid, const int* dims, const double* origin, const double* spacing,
	int ntasks, const double* coefs, const int* coef_off, const int* kmax,
	const double* zeta, const double* center, const int* lo, const int* hi);
extern int gridcol_integrate_batch(
	const double* grid, const int* dims, const double* origin, const double* spacing,
	double dv, int ntasks, double* moments, const int* coef_off, const int* kmax,
	const double* zeta, const double* center, const int* lo, const int* hi);
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/pab"
	"github.com/rgayatri23/gridcol/internal/poly"
	"github.com/rgayatri23/gridcol/internal/tasks"
)

// GPU offloads whole-level task batches to the device. The host prepares
// per-task coefficient buffers, enqueues one batched launch per level, and
// synchronizes the level buffer back before the next consumer reads it. No
// per-task host/device round trips.
type GPU struct {
	available  bool
	deviceName string
}

func NewGPU() *GPU {
	count := int(C.gridcol_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.gridcol_device_name())
	}
	return &GPU{available: count > 0, deviceName: name}
}

func (g *GPU) Name() string {
	if g.available {
		return "gpu (" + g.deviceName + ")"
	}
	return "gpu (no device)"
}

func (g *GPU) Available() bool { return g.available }
func (g *GPU) Cleanup()        {}

// batch is the flattened task payload shared by both directions.
type batch struct {
	coefs   []float64
	coefOff []int32
	kmax    []int32
	zeta    []float64
	center  []float64
	lo, hi  []int32
	bases   []*pab.Basis
}

func makeBatch(lt []tasks.Task, op pab.Operator, blocks [][]float64, arena *poly.CoeffArena, forCollocate bool) *batch {
	b := &batch{}
	for i := range lt {
		t := &lt[i]
		basis := pab.NewBasis(t.Prim)
		b.bases = append(b.bases, basis)
		km := basis.KMax(op)
		nk := km + 1
		b.coefOff = append(b.coefOff, int32(len(b.coefs)))
		if forCollocate {
			coef := basis.Prepare(blocks[t.Pair], op, arena)
			b.coefs = append(b.coefs, coef.Raw()...)
			arena.Put(coef)
		} else {
			b.coefs = append(b.coefs, make([]float64, nk*nk*nk)...)
		}
		b.kmax = append(b.kmax, int32(km))
		b.zeta = append(b.zeta, basis.Zeta)
		b.center = append(b.center, basis.Center[0], basis.Center[1], basis.Center[2])
		b.lo = append(b.lo, int32(t.Lo[0]), int32(t.Lo[1]), int32(t.Lo[2]))
		b.hi = append(b.hi, int32(t.Hi[0]), int32(t.Hi[1]), int32(t.Hi[2]))
	}
	return b
}

func levelGeom(lvl *grid.Level) (dims [3]C.int, origin [3]C.double, spacing [9]C.double) {
	for a := 0; a < 3; a++ {
		dims[a] = C.int(lvl.Dims[a])
		origin[a] = C.double(lvl.Origin[a])
		for c := 0; c < 3; c++ {
			spacing[a*3+c] = C.double(lvl.Spacing[a][c])
		}
	}
	return
}

func deviceErr(rc C.int, what string) error {
	switch {
	case rc == 0:
		return nil
	case rc == 1:
		return fmt.Errorf("%s: %w", what, ErrResourceExhausted)
	default:
		return fmt.Errorf("%s: device error %d", what, int(rc))
	}
}

func (g *GPU) Collocate(lvl *grid.Level, arr *grid.Array, tl *tasks.TaskList, level int, blocks [][]float64, op pab.Operator) error {
	lt := tl.LevelTasks(level)
	if len(lt) == 0 {
		return nil
	}
	arena := poly.NewCoeffArena(tl.MaxL)
	b := makeBatch(lt, op, blocks, arena, true)
	dims, origin, spacing := levelGeom(lvl)

	rc := C.gridcol_collocate_batch(
		(*C.double)(unsafe.Pointer(&arr.Data[0])), &dims[0], &origin[0], &spacing[0],
		C.int(len(lt)),
		(*C.double)(unsafe.Pointer(&b.coefs[0])),
		(*C.int)(unsafe.Pointer(&b.coefOff[0])),
		(*C.int)(unsafe.Pointer(&b.kmax[0])),
		(*C.double)(unsafe.Pointer(&b.zeta[0])),
		(*C.double)(unsafe.Pointer(&b.center[0])),
		(*C.int)(unsafe.Pointer(&b.lo[0])),
		(*C.int)(unsafe.Pointer(&b.hi[0])))
	return deviceErr(rc, "compute: gpu collocate")
}

func (g *GPU) Integrate(lvl *grid.Level, arr *grid.Array, tl *tasks.TaskList, level int, op pab.Operator, out *BlockMatrix) error {
	lt := tl.LevelTasks(level)
	if len(lt) == 0 {
		return nil
	}
	arena := poly.NewCoeffArena(tl.MaxL)
	b := makeBatch(lt, op, nil, arena, false)
	dims, origin, spacing := levelGeom(lvl)

	rc := C.gridcol_integrate_batch(
		(*C.double)(unsafe.Pointer(&arr.Data[0])), &dims[0], &origin[0], &spacing[0],
		C.double(lvl.VolumeElement()), C.int(len(lt)),
		(*C.double)(unsafe.Pointer(&b.coefs[0])),
		(*C.int)(unsafe.Pointer(&b.coefOff[0])),
		(*C.int)(unsafe.Pointer(&b.kmax[0])),
		(*C.double)(unsafe.Pointer(&b.zeta[0])),
		(*C.double)(unsafe.Pointer(&b.center[0])),
		(*C.int)(unsafe.Pointer(&b.lo[0])),
		(*C.int)(unsafe.Pointer(&b.hi[0])))
	if err := deviceErr(rc, "compute: gpu integrate"); err != nil {
		return err
	}

	for i := range lt {
		t := &lt[i]
		basis := b.bases[i]
		km := basis.KMax(op)
		nk := km + 1
		moments := arena.Get(km, basis.Zeta, basis.Center)
		off := int(b.coefOff[i])
		copy(moments.Raw(), b.coefs[off:off+nk*nk*nk])
		block := out.Block(t.Pair, basis.NA(), basis.NB())
		basis.BlockAdjoint(moments, op, arena, block)
		arena.Put(moments)
	}
	return nil
}
