package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linkgraph/webrank/internal/app"
	"github.com/linkgraph/webrank/internal/config"
	"github.com/linkgraph/webrank/internal/extract"
	"github.com/linkgraph/webrank/internal/fetch"
	"github.com/linkgraph/webrank/internal/graph"
	"github.com/linkgraph/webrank/internal/logging"
	"github.com/linkgraph/webrank/internal/pagerank"
	"github.com/linkgraph/webrank/internal/report"
)

// newRankCmd creates and configures the 'rank' subcommand, which runs the
// full fetch-then-compute pipeline against one bucket.
func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank <bucket>",
		Short: "Fetch the corpus and compute PageRank scores",
		Long: `Downloads every HTML page object from the given bucket using a pool
of concurrent workers, builds the link graph, and iterates the PageRank
computation until the score vector converges or the iteration cap is hit.`,
		Args: cobra.ExactArgs(1),
		RunE: runRankCommand,
	}

	cmd.Flags().IntP("workers", "w", 20, "number of parallel download workers")
	cmd.Flags().Float64P("damping", "d", pagerank.DefaultDamping, "PageRank damping factor")
	cmd.Flags().IntP("top", "t", 5, "number of top-ranked pages to report")
	cmd.Flags().StringP("output", "o", "", "write a markdown report to this file")

	return cmd
}

func runRankCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadRankConfig(cmd, args[0])
	if err != nil {
		return err
	}

	if err := logging.Init(cfg.Logging.Development); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	logger := logging.L

	ctx := cmd.Context()
	start := time.Now()

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize application services: %w", err)
	}
	defer application.Close()

	listCtx, cancel := context.WithTimeout(ctx, cfg.ListTimeout())
	keys, err := application.Storage().List(listCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("list bucket %q: %w", cfg.Storage.Bucket, err)
	}
	if len(keys) == 0 {
		return fmt.Errorf("bucket %q contains no pages", cfg.Storage.Bucket)
	}

	pool := fetch.NewPool(
		application.Storage(),
		extract.New(),
		fetch.NewRetryPolicy(cfg.Fetch.MaxAttempts, cfg.BackoffInitial(), cfg.BackoffMax()),
		fetch.Config{
			Workers:       cfg.Fetch.Workers,
			ObjectTimeout: cfg.ObjectTimeout(),
		},
		logger,
	)
	pages, diag, err := pool.Run(ctx, keys)
	if err != nil {
		return fmt.Errorf("fetch corpus: %w", err)
	}

	builder := graph.NewBuilder()
	for _, page := range pages {
		builder.Add(page.Key, page.Links)
	}
	g, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build link graph: %w", err)
	}
	logger.Info("Link graph built",
		zap.Int("pages", g.Len()),
		zap.Int("dangling", len(g.Dangling())),
		zap.Int("dropped_targets", g.DroppedTargets()),
	)

	stats, err := g.Stats()
	if err != nil {
		return fmt.Errorf("compute link statistics: %w", err)
	}

	engine, err := pagerank.NewEngine(pagerank.Config{
		Damping:       cfg.Rank.Damping,
		Tolerance:     cfg.Rank.Tolerance,
		MaxIterations: cfg.Rank.MaxIterations,
	}, logger)
	if err != nil {
		return fmt.Errorf("configure engine: %w", err)
	}

	res, err := engine.Run(ctx, g)
	if err != nil {
		return fmt.Errorf("compute pagerank: %w", err)
	}

	summary := report.Build(cfg.Storage.Bucket, g, res, stats, diag, cfg.Report.TopN, time.Since(start))
	if err := report.Write(cmd.OutOrStdout(), summary); err != nil {
		return err
	}

	if cfg.Report.Output != "" {
		if err := writeMarkdownReport(cfg.Report.Output, summary); err != nil {
			return err
		}
		logger.Info("Wrote markdown report", zap.String("path", cfg.Report.Output))
	}

	return nil
}

// loadRankConfig layers the command line over the file/env configuration:
// the positional bucket always wins, flags win when explicitly set.
func loadRankConfig(cmd *cobra.Command, bucket string) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.Storage.Bucket = bucket

	if cmd.Flags().Changed("workers") {
		cfg.Fetch.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("damping") {
		cfg.Rank.Damping, _ = cmd.Flags().GetFloat64("damping")
	}
	if cmd.Flags().Changed("top") {
		cfg.Report.TopN, _ = cmd.Flags().GetInt("top")
	}
	if cmd.Flags().Changed("output") {
		cfg.Report.Output, _ = cmd.Flags().GetString("output")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func writeMarkdownReport(path string, summary report.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := report.WriteMarkdown(f, summary); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	return nil
}
