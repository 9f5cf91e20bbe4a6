package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphscape/graphscape/pkg/graph"
	"github.com/graphscape/graphscape/pkg/layout"
	"github.com/graphscape/graphscape/pkg/pipeline"
)

// layoutCommand creates the layout command for running the force simulation.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		noCache    bool
		watch      bool
		configPath string
	)
	opts := pipeline.Options{Level: pipeline.AutoLevel}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Run force-directed layout over a repository graph",
		Long: `Run force-directed layout over a repository graph.

The layout command takes a graph.json file and runs the force simulation
until the layout stabilizes or the iteration cap is reached. The output is
the same graph with node positions replaced by the simulated ones, ready
for 'filter' or a rendering frontend.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := applyConfigFile(configPath, &opts); err != nil {
					return fmt.Errorf("load config %s: %w", configPath, err)
				}
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, watch)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML tuning file for simulation parameters")
	cmd.Flags().BoolVar(&watch, "watch", false, "show live simulation progress")

	// Simulation flags
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "repulsion algorithm: exact (default), barnes-hut")
	cmd.Flags().IntVar(&opts.MaxIterations, "iterations", 0, "iteration cap (default 500)")
	cmd.Flags().Float64Var(&opts.RepulsionStrength, "repulsion", 0, "repulsion strength (default 1000)")
	cmd.Flags().Float64Var(&opts.AttractionStrength, "attraction", 0, "spring attraction constant (default 0.1)")
	cmd.Flags().Float64Var(&opts.LinkDistance, "link-distance", 0, "ideal edge length (default 100)")
	cmd.Flags().Float64Var(&opts.Theta, "theta", 0, "barnes-hut opening threshold (default 0.5)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "tie-break random seed (default 42)")
	cmd.Flags().BoolVar(&opts.Disable3D, "2d", false, "freeze z coordinates (2D layout)")

	return cmd
}

// runLayout loads the graph, runs the simulation, and writes the positioned
// graph.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, watch bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.GraphPath = input
	opts.NoFilter = true
	opts.Logger = logger

	var spinner *Spinner
	var tui *progressUI
	if watch {
		tui = newProgressUI()
		opts.OnProgress = tui.OnProgress
		tui.Start()
	} else {
		spinner = newSpinnerWithContext(ctx, "Simulating layout...")
		opts.OnProgress = func(p layout.Progress) {
			logger.Debug("simulation progress",
				"iteration", p.Iteration, "energy", fmt.Sprintf("%.3f", p.Energy))
		}
		spinner.Start()
	}

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if tui != nil {
		tui.Stop()
	}
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Layout failed")
		}
		return fmt.Errorf("compute layout: %w", err)
	}
	if spinner != nil {
		spinner.Stop()
	}
	prog.done(fmt.Sprintf("Simulated %d iterations", result.Layout.Iterations))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graph.WriteGraphFile(result.Graph, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if result.Layout.Converged {
		printSuccess("Layout converged after %d iterations", result.Layout.Iterations)
	} else {
		printWarning("Layout stopped at the %d-iteration cap without converging", result.Layout.Iterations)
	}
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Filter", "graphscape filter "+outputPath)

	return nil
}
