package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/rgayatri23/gridcol/internal/compute"
	"github.com/rgayatri23/gridcol/internal/config"
	"github.com/rgayatri23/gridcol/internal/grid"
	"github.com/rgayatri23/gridcol/internal/pab"
	"github.com/rgayatri23/gridcol/internal/tasks"
)

var (
	configFile  string
	backend     string
	workers     int
	operator    string
	profileAxis int
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridcol",
		Short: "real-space Gaussian collocation/integration engine",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "backend: reference, cpu, gpu, auto")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "worker count (0 = all cores)")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "collocate a scene and report per-level totals",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&operator, "operator", "", "operator: density, grad_x, grad_y, grad_z, laplacian")

	levelsCmd := &cobra.Command{
		Use:   "levels [scene]",
		Short: "show grid-level assignment and task counts",
		Args:  cobra.ExactArgs(1),
		RunE:  showLevels,
	}

	profileCmd := &cobra.Command{
		Use:   "profile [scene]",
		Short: "plot a density line profile through the finest grid",
		Args:  cobra.ExactArgs(1),
		RunE:  profileScene,
	}
	profileCmd.Flags().IntVar(&profileAxis, "axis", 0, "profile axis (0, 1, 2)")

	rootCmd.AddCommand(runCmd, levelsCmd, profileCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if workers != 0 {
		cfg.Workers = workers
	}
	if operator != "" {
		cfg.Operator = operator
	}
	return cfg, cfg.Validate()
}

type session struct {
	cfg    *config.Config
	op     pab.Operator
	set    *grid.Set
	tl     *tasks.TaskList
	exec   *compute.Executor
	blocks [][]float64
}

func openScene(path string) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	op, err := pab.ParseOperator(cfg.Operator)
	if err != nil {
		return nil, err
	}
	scene, err := LoadScene(path)
	if err != nil {
		return nil, err
	}
	_, set, pairs, blocks, err := scene.Materialize()
	if err != nil {
		return nil, err
	}
	tl, err := tasks.Build(pairs, set, cfg.TaskParams())
	if err != nil {
		return nil, err
	}
	exec, err := compute.NewExecutor(compute.Options{Backend: cfg.Backend, Workers: cfg.Workers}, tl, set)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, op: op, set: set, tl: tl, exec: exec, blocks: blocks}, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	s, err := openScene(args[0])
	if err != nil {
		return err
	}
	defer s.exec.Close()

	arrs := s.set.NewArrays()
	stats, err := s.exec.Collocate(context.Background(), s.op, s.blocks, arrs)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("collocation summary"))
	fmt.Printf("%s %s\n", labelStyle.Render("backend:"), stats.Backend)
	fmt.Printf("%s %s\n", labelStyle.Render("operator:"), s.op)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "level\tdims\tcutoff\ttasks\tintegral")
	total := 0.0
	for i, lvl := range s.set.Levels {
		integral := arrs[i].Total() * lvl.VolumeElement()
		total += integral
		fmt.Fprintf(w, "%d\t%dx%dx%d\t%.1f\t%d\t%.10g\n",
			i, lvl.Dims[0], lvl.Dims[1], lvl.Dims[2], lvl.Cutoff, stats.PerLevel[i], integral)
	}
	w.Flush()
	fmt.Printf("%s %.10g\n", labelStyle.Render("total integral:"), total)
	return nil
}

func showLevels(cmd *cobra.Command, args []string) error {
	s, err := openScene(args[0])
	if err != nil {
		return err
	}
	defer s.exec.Close()

	fmt.Println(headerStyle.Render("task distribution"))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "level\tdims\tcutoff\ttasks")
	for i, lvl := range s.set.Levels {
		fmt.Fprintf(w, "%d\t%dx%dx%d\t%.1f\t%d\n",
			i, lvl.Dims[0], lvl.Dims[1], lvl.Dims[2], lvl.Cutoff, s.tl.PerLevel[i])
	}
	w.Flush()
	fmt.Printf("%s %d tasks from %d pairs\n",
		labelStyle.Render("total:"), len(s.tl.Tasks), len(s.tl.Pairs))
	return nil
}

func profileScene(cmd *cobra.Command, args []string) error {
	if profileAxis < 0 || profileAxis > 2 {
		return fmt.Errorf("axis must be 0, 1, or 2")
	}
	s, err := openScene(args[0])
	if err != nil {
		return err
	}
	defer s.exec.Close()

	arrs := s.set.NewArrays()
	if _, err := s.exec.Collocate(context.Background(), s.op, s.blocks, arrs); err != nil {
		return err
	}

	// Line through the middle of the finest grid along the chosen axis.
	lvl, arr := s.set.Levels[0], arrs[0]
	n := lvl.Dims
	line := make([]float64, n[profileAxis])
	mid := [3]int{n[0] / 2, n[1] / 2, n[2] / 2}
	for i := range line {
		idx := mid
		idx[profileAxis] = i
		line[i] = arr.At(idx[0], idx[1], idx[2])
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("density profile, axis %d", profileAxis)))
	fmt.Println(asciigraph.Plot(line, asciigraph.Height(16), asciigraph.Width(72)))
	return nil
}
