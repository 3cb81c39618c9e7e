package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rgayatri23/gridcol/internal/cell"
	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/pab"
)

// Scene is the replay input: cell, grid levels, and the neighbor-list
// pairs with their operator blocks. Everything the engine consumes from
// its collaborators, in one yaml file.
type Scene struct {
	Cell struct {
		H        [3][3]float64 `yaml:"h"`
		Periodic [3]bool       `yaml:"periodic"`
	} `yaml:"cell"`
	Levels []struct {
		Dims   [3]int     `yaml:"dims"`
		Cutoff float64    `yaml:"cutoff"`
		Origin [3]float64 `yaml:"origin"`
	} `yaml:"levels"`
	Pairs []ScenePair `yaml:"pairs"`
}

type SceneShell struct {
	Center    [3]float64 `yaml:"center"`
	L         int        `yaml:"l"`
	Exponents []float64  `yaml:"exponents"`
	Coeffs    []float64  `yaml:"coeffs"`
}

type ScenePair struct {
	A     SceneShell `yaml:"a"`
	B     SceneShell `yaml:"b"`
	Block []float64  `yaml:"block"`
}

// LoadScene parses and materializes a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	if len(s.Levels) == 0 {
		return nil, fmt.Errorf("scene %s: no grid levels", path)
	}
	if len(s.Pairs) == 0 {
		return nil, fmt.Errorf("scene %s: no pairs", path)
	}
	return &s, nil
}

func shellFromScene(s SceneShell) pab.Shell {
	return pab.Shell{Center: s.Center, L: s.L, Exponents: s.Exponents, Coeffs: s.Coeffs}
}

// Materialize builds the cell, multigrid, pair list, and blocks. Pairs
// without an explicit block get a unit block (plain product density).
func (s *Scene) Materialize() (*cell.Cell, *grid.Set, []pab.ShellPair, [][]float64, error) {
	c, err := cell.New(s.Cell.H, s.Cell.Periodic)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	specs := make([]grid.LevelSpec, len(s.Levels))
	for i, l := range s.Levels {
		specs[i] = grid.LevelSpec{Dims: l.Dims, Cutoff: l.Cutoff, Origin: l.Origin}
	}
	set, err := grid.NewSet(c, specs)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	pairs := make([]pab.ShellPair, len(s.Pairs))
	blocks := make([][]float64, len(s.Pairs))
	for i, sp := range s.Pairs {
		pairs[i] = pab.ShellPair{A: shellFromScene(sp.A), B: shellFromScene(sp.B)}
		if len(sp.Block) == 0 {
			blocks[i] = make([]float64, pairs[i].BlockLen())
			for j := range blocks[i] {
				blocks[i][j] = 1
			}
		} else if len(sp.Block) != pairs[i].BlockLen() {
			return nil, nil, nil, nil, fmt.Errorf("scene pair %d: block has %d elements, want %d",
				i, len(sp.Block), pairs[i].BlockLen())
		} else {
			blocks[i] = sp.Block
		}
	}
	return c, set, pairs, blocks, nil
}
