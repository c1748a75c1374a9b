// Command floodsim runs the flood response organizational simulation:
// single scenario runs and three-way scenario comparisons.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/flood-response/internal/analysis"
	"github.com/talgya/flood-response/internal/config"
	"github.com/talgya/flood-response/internal/engine"
	"github.com/talgya/flood-response/internal/persistence"
)

var (
	flagSteps   int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagExport  string
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "floodsim",
		Short: "Multi-agent simulation of flood response organizational structures",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if flagVerbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
		},
	}

	root.PersistentFlags().Int64Var(&flagSeed, "seed", 42, "random seed for the run")
	root.PersistentFlags().IntVar(&flagSteps, "steps", 0, "override scenario step count")
	root.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite path to store finished runs")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug-level narration")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "Run one scenario (baseline, hierarchical, or optimized)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOne,
	}
	runCmd.Flags().StringVar(&flagConfig, "config", "", "TOML scenario file overriding the built-in tables")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Run all three scenarios and print the comparison report",
		RunE:  runCompare,
	}
	compareCmd.Flags().StringVar(&flagExport, "export", "", "write results JSON to this path")

	root.AddCommand(runCmd, compareCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadScenario(name string) (config.Scenario, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	if name == "" {
		name = "baseline"
	}
	cfg, ok := config.Builtin(name)
	if !ok {
		return config.Scenario{}, fmt.Errorf("unknown scenario %q (want one of %s)",
			name, strings.Join(config.Names(), ", "))
	}
	return cfg, nil
}

func runOne(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	cfg, err := loadScenario(name)
	if err != nil {
		return err
	}
	if flagSteps > 0 {
		cfg.Steps = flagSteps
	}

	model, err := engine.RunScenario(cfg, flagSeed)
	if err != nil {
		return err
	}

	metrics := model.Metrics()
	fmt.Printf("\nscenario: %s\n", cfg.Name)
	fmt.Printf("incidents: %d generated, %d resolved\n",
		metrics.TotalIncidents, metrics.ResolvedIncidents)
	fmt.Printf("avg response time: %.1f steps, efficiency: %.3f, bottlenecks: %d\n",
		metrics.AvgResponseTime, metrics.SystemEfficiency, metrics.BottleneckEvents)

	if flagDBPath != "" {
		db, err := persistence.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.SaveRun(model)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("run saved: %s\n", id)
	}

	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	analyzer := analysis.NewAnalyzer()

	var db *persistence.DB
	if flagDBPath != "" {
		var err error
		db, err = persistence.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	for _, name := range config.Names() {
		cfg, _ := config.Builtin(name)
		if flagSteps > 0 {
			cfg.Steps = flagSteps
		}

		model, err := engine.RunScenario(cfg, flagSeed)
		if err != nil {
			// One broken scenario must not abort the batch; its column is
			// simply absent from the comparison.
			slog.Error("scenario failed, continuing", "scenario", name, "error", err)
			continue
		}
		analyzer.Add(name, model.Metrics())

		if db != nil {
			if _, err := db.SaveRun(model); err != nil {
				slog.Error("save failed", "scenario", name, "error", err)
			}
		}
	}

	fmt.Println()
	analyzer.WriteComparisonTable(os.Stdout)
	fmt.Println()
	analyzer.WriteImprovements(os.Stdout)
	fmt.Println()
	analyzer.WriteFindings(os.Stdout)

	if flagExport != "" {
		if err := analyzer.ExportJSON(flagExport); err != nil {
			return err
		}
		fmt.Printf("\nresults written to %s\n", flagExport)
	}

	return nil
}
