package tasks

import (
	"fmt"
	"math"
	"sort"

	"github.com/rgayatri23/gridcol/internal/cell"
	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/pab"
	"github.com/rgayatri23/gridcol/internal/poly"
)

// OpenBoundsPolicy decides what happens when a Gaussian's support leaves
// the grid along a non-periodic axis.
type OpenBoundsPolicy int

const (
	// OpenReject refuses to build the task list: the caller must enlarge
	// the grid. Always correct, never silently loses density.
	OpenReject OpenBoundsPolicy = iota
	// OpenTruncate clips the bounding box to the grid and drops whatever
	// falls outside.
	OpenTruncate
)

// Params configures task-list construction. Validation happens here, once,
// so the hot kernels can trust every task unchecked.
type Params struct {
	// EpsRho is the amplitude below which a Gaussian tail is screened out;
	// it fixes each pair's radius once and for all.
	EpsRho float64
	// RelCutoff scales the exponent when matching it to a level cutoff.
	RelCutoff float64
	// MaxL caps the per-shell angular momentum accepted from the neighbor
	// list; it must not exceed the compiled ceiling.
	MaxL int
	// OpenBounds selects the non-periodic overflow policy.
	OpenBounds OpenBoundsPolicy
}

// DefaultParams mirrors the engine's conservative defaults.
func DefaultParams() Params {
	return Params{EpsRho: 1e-12, RelCutoff: 20, MaxL: pab.MaxL, OpenBounds: OpenReject}
}

// GaussianRadius returns the distance beyond which
// c * r^lsum * exp(-zeta r^2) stays below eps. Computed once per primitive
// pair; a pair screened out entirely reports zero. The fixed-point
// iteration converges in a few steps because the log term grows much
// slower than the quadratic.
func GaussianRadius(zeta, c float64, lsum int, eps float64) float64 {
	if c <= eps || zeta <= 0 {
		return 0
	}
	logTerm := math.Log(c / eps)
	r := math.Sqrt(logTerm / zeta)
	for it := 0; it < 5; it++ {
		arg := logTerm + float64(lsum)*math.Log(math.Max(r, 1))
		if arg <= 0 {
			return 0
		}
		r = math.Sqrt(arg / zeta)
	}
	return r
}

// Build expands the neighbor list into primitive-pair tasks, assigns each
// to its grid level, computes wrapped bounding boxes, and orders the list
// for locality. No grid memory is touched.
func Build(pairs []pab.ShellPair, set *grid.Set, p Params) (*TaskList, error) {
	if p.EpsRho <= 0 {
		return nil, fmt.Errorf("tasks: eps_rho must be positive, got %g", p.EpsRho)
	}
	if p.RelCutoff <= 0 {
		return nil, fmt.Errorf("tasks: rel_cutoff must be positive, got %g", p.RelCutoff)
	}
	if p.MaxL < 0 || p.MaxL > pab.MaxL {
		return nil, fmt.Errorf("tasks: max_l %d outside [0,%d]", p.MaxL, pab.MaxL)
	}

	c := set.Cell
	corr := c.NewCorrection()

	tl := &TaskList{
		Pairs:    pairs,
		PerLevel: make([]int, len(set.Levels)),
	}

	for ip, pair := range pairs {
		if err := pair.Validate(); err != nil {
			return nil, fmt.Errorf("tasks: pair %d: %w", ip, err)
		}
		if pair.A.L > p.MaxL || pair.B.L > p.MaxL {
			return nil, fmt.Errorf("tasks: pair %d angular momentum exceeds configured max %d", ip, p.MaxL)
		}
		if pair.A.L > tl.MaxL {
			tl.MaxL = pair.A.L
		}
		if pair.B.L > tl.MaxL {
			tl.MaxL = pair.B.L
		}

		for ia, alphaA := range pair.A.Exponents {
			for ib, alphaB := range pair.B.Exponents {
				pp := pab.PrimitivePair{
					PairIndex: ip,
					AlphaA:    alphaA,
					AlphaB:    alphaB,
					CoefProd:  pair.A.Coeffs[ia] * pair.B.Coeffs[ib],
					CenterA:   pair.A.Center,
					CenterB:   pair.B.Center,
					LA:        pair.A.L,
					LB:        pair.B.L,
				}
				task, ok, err := buildTask(pp, set, c, corr, p)
				if err != nil {
					return nil, fmt.Errorf("tasks: pair %d primitives (%d,%d): %w", ip, ia, ib, err)
				}
				if ok {
					tl.Tasks = append(tl.Tasks, task)
				}
			}
		}
	}

	// Level-major, box-origin-minor order: tasks on the same slab of the
	// same level end up adjacent. Stable sort keeps rebuilds bit-identical.
	sort.SliceStable(tl.Tasks, func(i, j int) bool {
		a, b := &tl.Tasks[i], &tl.Tasks[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		for ax := 0; ax < 3; ax++ {
			if a.Lo[ax] != b.Lo[ax] {
				return a.Lo[ax] < b.Lo[ax]
			}
		}
		return a.Pair < b.Pair
	})

	tl.levelOffsets = make([]int, len(set.Levels))
	for _, t := range tl.Tasks {
		tl.PerLevel[t.Level]++
	}
	off := 0
	for lvl := range tl.PerLevel {
		tl.levelOffsets[lvl] = off
		off += tl.PerLevel[lvl]
	}
	return tl, nil
}

func buildTask(pp pab.PrimitivePair, set *grid.Set, c *cell.Cell, corr *cell.Correction, p Params) (Task, bool, error) {
	zeta, center, pref := poly.Product(pp.AlphaA, pp.AlphaB, pp.CenterA, pp.CenterB)

	amp := math.Abs(pp.CoefProd) * pref
	radius := GaussianRadius(zeta, amp, pp.LA+pp.LB, p.EpsRho)
	if radius == 0 {
		// Screened out: defined as zero contribution, no task.
		return Task{}, false, nil
	}

	level := set.Select(zeta, p.RelCutoff)
	lvl := set.Levels[level]
	ext := corr.FracExtent(radius)

	rel := [3]float64{center[0] - lvl.Origin[0], center[1] - lvl.Origin[1], center[2] - lvl.Origin[2]}
	fc := c.ToFractional(rel)

	// Fold the product center into the home cell by translating the whole
	// primitive pair by a lattice vector, so the expansion frame the kernels
	// rebuild from the pair stays consistent with the bounding box.
	var shiftFrac [3]float64
	for ax := 0; ax < 3; ax++ {
		if c.Periodic[ax] {
			w := cell.WrapFrac(fc[ax])
			shiftFrac[ax] = w - fc[ax]
			fc[ax] = w
		}
	}
	shift := c.ToCartesian(shiftFrac)
	for ax := 0; ax < 3; ax++ {
		pp.CenterA[ax] += shift[ax]
		pp.CenterB[ax] += shift[ax]
		center[ax] += shift[ax]
	}

	var lo, hi [3]int
	for ax := 0; ax < 3; ax++ {
		n := lvl.Dims[ax]
		f := fc[ax]
		lo[ax] = int(math.Ceil((f - ext[ax]) * float64(n)))
		hi[ax] = int(math.Floor((f + ext[ax]) * float64(n)))
		if !c.Periodic[ax] {
			if lo[ax] < 0 || hi[ax] > n-1 {
				if p.OpenBounds == OpenReject {
					return Task{}, false, fmt.Errorf("support [%d,%d] leaves open axis %d of %d points (radius %g)",
						lo[ax], hi[ax], ax, n, radius)
				}
				if lo[ax] < 0 {
					lo[ax] = 0
				}
				if hi[ax] > n-1 {
					hi[ax] = n - 1
				}
			}
			if hi[ax] < lo[ax] {
				return Task{}, false, nil
			}
		}
	}

	return Task{
		Pair:   pp.PairIndex,
		Prim:   pp,
		Level:  level,
		Zeta:   zeta,
		Center: center,
		Radius: radius,
		Lo:     lo,
		Hi:     hi,
	}, true, nil
}
