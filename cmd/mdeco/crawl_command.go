package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mdeco/internal/catalog"
	"mdeco/internal/crawler"
	"mdeco/internal/pathtree"
)

func newCrawlCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var exclude []string
	var toCatalog bool

	cmd := &cobra.Command{
		Use:   "crawl DIR",
		Short: "Scan every file under a directory tree",
		Long: `Walk a directory tree and extract metadata from every regular file.
Results stream to stdout as JSON documents, or into the catalog database
with --catalog. Files that fail to scan are logged and counted; the crawl
continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			service, err := ctx.scanService()
			if err != nil {
				return err
			}

			if workers <= 0 {
				workers = cfg.Crawl.Workers
			}
			patterns := append([]string{}, cfg.Crawl.Exclude...)
			patterns = append(patterns, exclude...)

			c, err := crawler.New(service, logger,
				crawler.WithWorkers(workers),
				crawler.WithExclude(patterns...))
			if err != nil {
				return err
			}

			root := args[0]
			out := cmd.OutOrStdout()

			var sink crawler.Sink
			var store *catalog.Store
			var run *catalog.Run
			if toCatalog {
				store, err = catalog.Open(cfg.Catalog.Path)
				if err != nil {
					return err
				}
				defer store.Close()

				run, err = store.BeginRun(cmd.Context(), root)
				if err != nil {
					return err
				}
				sink = crawler.SinkFunc(func(ctx context.Context, result crawler.Result) error {
					_, err := store.SaveFile(ctx, run.ID, result.Path, result.Metadata)
					return err
				})
			} else {
				sink = crawler.SinkFunc(func(_ context.Context, result crawler.Result) error {
					document := pathtree.New()
					document.Set("path", result.Path)
					document.Set("metadata", result.Metadata)
					return writeJSON(out, document)
				})
			}

			stats, err := c.Run(cmd.Context(), root, sink)
			if run != nil {
				finishErr := store.FinishRun(cmd.Context(), run.ID, catalog.RunStats{
					Scanned: stats.Scanned,
					Skipped: stats.Skipped,
					Failed:  stats.Failed,
				})
				if err == nil {
					err = finishErr
				}
			}
			if err != nil {
				return err
			}

			summary := renderTable(
				[]string{"Scanned", "Skipped", "Failed"},
				[][]string{{
					strconv.FormatInt(stats.Scanned, 10),
					strconv.FormatInt(stats.Skipped, 10),
					strconv.FormatInt(stats.Failed, 10),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight},
			)
			fmt.Fprintln(cmd.ErrOrStderr(), summary)
			if run != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Recorded run %s in %s\n", run.ID, store.Path())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent file scans (defaults to crawl.workers)")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Glob pattern to skip (repeatable)")
	cmd.Flags().BoolVar(&toCatalog, "catalog", false, "Record results in the catalog database")
	return cmd
}
