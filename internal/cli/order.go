package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viewgraph/viewgraph/pkg/graph"
	"github.com/viewgraph/viewgraph/pkg/pipeline"
)

// orderCommand creates the order command for computing view orderings.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		output  string
		report  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "order [graph.json]",
		Short: "Compute a view ordering and outlier report",
		Long: `Compute a view ordering and outlier report.

The order command reads a measurement file, sign-normalizes the measurements,
runs the greedy ratio heuristic to place every view on a line, and flags the
measurements whose direction disagrees with the computed ordering.

Results are cached locally for faster subsequent runs. Use --refresh to force
recomputation or --no-cache to skip caching entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOrder(cmd.Context(), args[0], output, report, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the ordering JSON to this file instead of printing the sequence")
	cmd.Flags().StringVar(&report, "report", "", "write the outlier report JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and recompute")

	return cmd
}

// runOrder loads the graph, runs the ordering pipeline, and writes results.
func (c *CLI) runOrder(ctx context.Context, input, output, report string, noCache, refresh bool) error {
	g, err := graph.ImportFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Refresh: refresh, Logger: c.Logger}

	spinner := newSpinnerWithContext(ctx, "Ordering views...")
	spinner.Start()
	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Ordering failed")
		return fmt.Errorf("order: %w", err)
	}
	spinner.Stop()

	printSuccess("Ordered %d views", result.Stats.ViewCount)
	printStats(result.Stats.ViewCount, result.Stats.EdgeCount, result.Stats.OutlierCount, result.CacheInfo.OrderHit)

	if output == "" {
		printNewline()
		for i, id := range result.Ordering.Sequence() {
			fmt.Printf("%s %s\n", StyleDim.Render(fmt.Sprintf("%3d", i)), StyleValue.Render(string(id)))
		}
	} else {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		if err := graph.WriteOrdering(result.Ordering, f); err != nil {
			return fmt.Errorf("write ordering: %w", err)
		}
		printFile(output)
	}

	if len(result.Outliers) > 0 {
		printNewline()
		printWarning("%d measurements disagree with the ordering", len(result.Outliers))
		for _, e := range graph.NewOutlierReport(result.Outliers).Outliers {
			printDetail("%s → %s (weight %.3g)", e.From, e.To, e.Weight)
		}
	}

	if report != "" {
		f, err := os.Create(report)
		if err != nil {
			return fmt.Errorf("create %s: %w", report, err)
		}
		defer f.Close()
		if err := graph.WriteOutliers(result.Outliers, f); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		printFile(report)
	}

	return nil
}
