package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphscape/graphscape/pkg/cache"
	"github.com/graphscape/graphscape/pkg/graph"
	"github.com/graphscape/graphscape/pkg/pipeline"
)

// filterCommand creates the filter command for detail-level views.
func (c *CLI) filterCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{Level: pipeline.AutoLevel}

	cmd := &cobra.Command{
		Use:   "filter [graph.json]",
		Short: "Filter a repository graph by detail level",
		Long: `Filter a repository graph by detail level.

The filter command computes the visible view at a detail tier between 0
(coarsest) and 5 (finest). Hidden structure is collapsed onto visible
ancestors so no edge is lost silently. Without --level the tier is picked
from the node count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFilter(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.view.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVarP(&opts.Level, "level", "l", pipeline.AutoLevel, "detail level 0-5 (default: by node count)")
	cmd.Flags().BoolVar(&opts.SkipAncestors, "no-ancestors", false, "do not promote hidden ancestors of visible nodes")
	cmd.Flags().BoolVar(&opts.SkipCollapse, "no-collapse", false, "drop edges with hidden endpoints instead of collapsing")
	cmd.Flags().IntVar(&opts.MinNodesForLOD, "min-nodes", 0, "skip filtering below this node count (default 100)")

	return cmd
}

// runFilter loads the graph, computes the view, and writes it as JSON.
func (c *CLI) runFilter(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.GraphPath = input
	opts.Logger = logger

	g, err := runner.LoadGraph(ctx, opts)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return err
	}

	view, level, cacheHit, err := runner.FilterGraphWithCacheInfo(ctx, g, cache.Hash(graphData), opts)
	if err != nil {
		return fmt.Errorf("filter graph: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".view.json"
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Filtered at level %d", level)
	printFile(outputPath)
	printDetail("%d visible nodes · %d hidden · %d visible edges",
		len(view.VisibleNodes), view.HiddenNodeCount, len(view.VisibleEdges))
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)

	return nil
}
