package tasks

import (
	"math"
	"reflect"
	"testing"

	"github.com/rgayatri23/gridcol/internal/cell"
	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/pab"
)

func testSet(t *testing.T, l float64, periodic [3]bool, specs []grid.LevelSpec) *grid.Set {
	t.Helper()
	c, err := cell.New([3][3]float64{{l, 0, 0}, {0, l, 0}, {0, 0, l}}, periodic)
	if err != nil {
		t.Fatal(err)
	}
	s, err := grid.NewSet(c, specs)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func sShell(alpha float64, center [3]float64) pab.Shell {
	return pab.Shell{Center: center, L: 0, Exponents: []float64{alpha}, Coeffs: []float64{1}}
}

func TestGaussianRadius(t *testing.T) {
	eps := 1e-12

	// The returned radius must actually push the amplitude below eps.
	for _, tt := range []struct {
		zeta, c float64
		lsum    int
	}{
		{1.0, 1.0, 0},
		{0.3, 2.5, 2},
		{10.0, 0.1, 4},
	} {
		r := GaussianRadius(tt.zeta, tt.c, tt.lsum, eps)
		if r <= 0 {
			t.Fatalf("zeta=%g: radius %g", tt.zeta, r)
		}
		amp := tt.c * math.Pow(r, float64(tt.lsum)) * math.Exp(-tt.zeta*r*r)
		if amp > eps*1.001 {
			t.Errorf("zeta=%g lsum=%d: amplitude %g at radius %g exceeds eps", tt.zeta, tt.lsum, amp, r)
		}
	}

	// Steeper exponents shrink the support.
	if GaussianRadius(4.0, 1, 0, eps) >= GaussianRadius(1.0, 1, 0, eps) {
		t.Error("radius should decrease with zeta")
	}
	// Fully screened pairs report zero.
	if r := GaussianRadius(1.0, 1e-15, 0, eps); r != 0 {
		t.Errorf("screened pair radius = %g, want 0", r)
	}
}

func TestLevelAssignment(t *testing.T) {
	set := testSet(t, 10, [3]bool{true, true, true}, []grid.LevelSpec{
		{Dims: [3]int{40, 40, 40}, Cutoff: 400},
		{Dims: [3]int{20, 20, 20}, Cutoff: 100},
		{Dims: [3]int{10, 10, 10}, Cutoff: 25},
	})

	pairs := []pab.ShellPair{
		{A: sShell(8.0, [3]float64{5, 5, 5}), B: sShell(8.0, [3]float64{5, 5, 5})},
		{A: sShell(0.4, [3]float64{5, 5, 5}), B: sShell(0.4, [3]float64{5, 5, 5})},
	}
	tl, err := Build(pairs, set, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tl.Tasks))
	}

	byPair := map[int]int{}
	for _, task := range tl.Tasks {
		byPair[task.Pair] = task.Level
	}
	// zeta=16, relCutoff=20 -> needs 320, only the finest level serves.
	if byPair[0] != 0 {
		t.Errorf("steep pair on level %d, want 0", byPair[0])
	}
	// zeta=0.8 -> needs 16, the coarsest level suffices.
	if byPair[1] != 2 {
		t.Errorf("diffuse pair on level %d, want 2", byPair[1])
	}
}

func TestScreenedPairProducesNoTask(t *testing.T) {
	set := testSet(t, 10, [3]bool{true, true, true}, []grid.LevelSpec{
		{Dims: [3]int{20, 20, 20}, Cutoff: 100},
	})
	// Centers 8 apart with steep exponents: the pair prefactor underflows eps.
	pairs := []pab.ShellPair{
		{A: sShell(6.0, [3]float64{0, 0, 0}), B: sShell(6.0, [3]float64{8, 0, 0})},
	}
	tl, err := Build(pairs, set, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Tasks) != 0 {
		t.Errorf("expected no tasks for screened pair, got %d", len(tl.Tasks))
	}
}

func TestBoundingBoxCoversSupport(t *testing.T) {
	set := testSet(t, 10, [3]bool{true, true, true}, []grid.LevelSpec{
		{Dims: [3]int{32, 32, 32}, Cutoff: 100},
	})
	pairs := []pab.ShellPair{
		{A: sShell(1.2, [3]float64{3, 4, 5}), B: sShell(0.9, [3]float64{3.5, 4, 5})},
	}
	tl, err := Build(pairs, set, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tl.Tasks))
	}
	task := tl.Tasks[0]
	lvl := set.Levels[task.Level]
	for ax := 0; ax < 3; ax++ {
		h := lvl.Spacing[ax][ax]
		loEdge := float64(task.Lo[ax]) * h
		hiEdge := float64(task.Hi[ax]) * h
		if loEdge > task.Center[ax]-task.Radius+h || hiEdge < task.Center[ax]+task.Radius-h {
			t.Errorf("axis %d: box [%g,%g] does not cover support [%g,%g]",
				ax, loEdge, hiEdge, task.Center[ax]-task.Radius, task.Center[ax]+task.Radius)
		}
	}
}

func TestDiffuseSupportWiderThanGrid(t *testing.T) {
	set := testSet(t, 4, [3]bool{true, true, true}, []grid.LevelSpec{
		{Dims: [3]int{16, 16, 16}, Cutoff: 50},
	})
	pairs := []pab.ShellPair{
		{A: sShell(0.35, [3]float64{2, 2, 2}), B: sShell(0.35, [3]float64{2, 2, 2})},
	}
	tl, err := Build(pairs, set, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tl.Tasks))
	}
	task := tl.Tasks[0]
	if task.Radius <= 2 {
		t.Fatalf("test premise broken: radius %g should exceed half the cell", task.Radius)
	}
	for ax := 0; ax < 3; ax++ {
		if task.Hi[ax]-task.Lo[ax]+1 <= 16 {
			t.Errorf("axis %d: box [%d,%d] should span more than one period",
				ax, task.Lo[ax], task.Hi[ax])
		}
	}
}

func TestOpenBoundsPolicies(t *testing.T) {
	specs := []grid.LevelSpec{{Dims: [3]int{16, 16, 16}, Cutoff: 50}}
	set := testSet(t, 4, [3]bool{false, true, true}, specs)
	// A Gaussian hugging the open x edge overflows the grid.
	pairs := []pab.ShellPair{
		{A: sShell(1.0, [3]float64{0.2, 2, 2}), B: sShell(1.0, [3]float64{0.2, 2, 2})},
	}

	p := DefaultParams()
	if _, err := Build(pairs, set, p); err == nil {
		t.Error("reject policy should refuse overflow on the open axis")
	}

	p.OpenBounds = OpenTruncate
	tl, err := Build(pairs, set, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(tl.Tasks) != 1 {
		t.Fatalf("expected 1 clamped task, got %d", len(tl.Tasks))
	}
	task := tl.Tasks[0]
	if task.Lo[0] < 0 || task.Hi[0] > 15 {
		t.Errorf("truncated box [%d,%d] leaves the grid", task.Lo[0], task.Hi[0])
	}
}

func TestCenterFoldedIntoHomeCell(t *testing.T) {
	set := testSet(t, 5, [3]bool{true, true, true}, []grid.LevelSpec{
		{Dims: [3]int{20, 20, 20}, Cutoff: 100},
	})
	// Both centers sit a full lattice vector outside the home cell.
	pairs := []pab.ShellPair{
		{A: sShell(2.0, [3]float64{7.5, 1, 1}), B: sShell(2.0, [3]float64{7.5, 1, 1})},
	}
	tl, err := Build(pairs, set, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	task := tl.Tasks[0]
	if task.Center[0] < 0 || task.Center[0] >= 5 {
		t.Errorf("folded center x = %g, want within [0,5)", task.Center[0])
	}
	// The primitive centers must share the fold, keeping the pair geometry.
	if math.Abs(task.Prim.CenterA[0]-task.Center[0]) > 1e-12 {
		t.Errorf("primitive center %g drifted from product center %g",
			task.Prim.CenterA[0], task.Center[0])
	}
}

func TestBuildDeterministic(t *testing.T) {
	set := testSet(t, 8, [3]bool{true, true, true}, []grid.LevelSpec{
		{Dims: [3]int{32, 32, 32}, Cutoff: 200},
		{Dims: [3]int{16, 16, 16}, Cutoff: 50},
	})
	pairs := []pab.ShellPair{
		{A: pab.Shell{Center: [3]float64{1, 2, 3}, L: 1,
			Exponents: []float64{3.0, 0.8}, Coeffs: []float64{0.6, 0.4}},
			B: sShell(1.1, [3]float64{1.5, 2, 3})},
		{A: sShell(0.5, [3]float64{6, 6, 6}), B: sShell(0.7, [3]float64{6.2, 6, 6})},
	}

	a, err := Build(pairs, set, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(pairs, set, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Tasks, b.Tasks) {
		t.Error("identical inputs produced different task lists")
	}

	// Tasks come out level-major and contiguous per level.
	for lvl := 0; lvl < len(set.Levels); lvl++ {
		lt := a.LevelTasks(lvl)
		if len(lt) != a.PerLevel[lvl] {
			t.Errorf("level %d: slice length %d, counter %d", lvl, len(lt), a.PerLevel[lvl])
		}
		for _, task := range lt {
			if task.Level != lvl {
				t.Errorf("level %d slice contains task for level %d", lvl, task.Level)
			}
		}
	}
}

func TestBuildValidation(t *testing.T) {
	set := testSet(t, 8, [3]bool{true, true, true}, []grid.LevelSpec{
		{Dims: [3]int{16, 16, 16}, Cutoff: 50},
	})
	good := []pab.ShellPair{{A: sShell(1, [3]float64{4, 4, 4}), B: sShell(1, [3]float64{4, 4, 4})}}

	p := DefaultParams()
	p.EpsRho = 0
	if _, err := Build(good, set, p); err == nil {
		t.Error("eps_rho=0 should be rejected")
	}

	p = DefaultParams()
	p.RelCutoff = -1
	if _, err := Build(good, set, p); err == nil {
		t.Error("negative rel_cutoff should be rejected")
	}

	p = DefaultParams()
	p.MaxL = 0
	highL := []pab.ShellPair{{
		A: pab.Shell{Center: [3]float64{4, 4, 4}, L: 1, Exponents: []float64{1}, Coeffs: []float64{1}},
		B: sShell(1, [3]float64{4, 4, 4}),
	}}
	if _, err := Build(highL, set, p); err == nil {
		t.Error("angular momentum beyond configured max should be rejected")
	}
}
