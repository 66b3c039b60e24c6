package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mdeco/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the metadata catalog",
	}
	catalogCmd.AddCommand(newCatalogRunsCommand(ctx))
	catalogCmd.AddCommand(newCatalogFilesCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogDuplicatesCommand(ctx))
	return catalogCmd
}

func (c *commandContext) openCatalog() (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalog.Open(cfg.Catalog.Path)
}

func newCatalogRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded scan runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := "running"
				if run.Finished {
					finished = run.FinishedAt.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{
					run.ID,
					run.Root,
					run.StartedAt.Local().Format(time.DateTime),
					finished,
					strconv.FormatInt(run.FilesScanned, 10),
					strconv.FormatInt(run.FilesFailed, 10),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Root", "Started", "Finished", "Scanned", "Failed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func newCatalogFilesCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List cataloged files",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListFiles(cmd.Context(), runID, limit)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.Path,
					record.MimeType,
					strconv.FormatInt(record.FileSize, 10),
					record.HashValue,
					record.ScannedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Path", "MIME type", "Size", "Hash", "Scanned"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum files to list (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Restrict the listing to one run")
	return cmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	var showRecord bool

	cmd := &cobra.Command{
		Use:   "show PATH",
		Short: "Show the stored metadata for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.FileByPath(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if showRecord {
				fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues([][2]string{
					{"Path", record.Path},
					{"Run", record.RunID},
					{"MIME type", record.MimeType},
					{"Size", strconv.FormatInt(record.FileSize, 10)},
					{"Hash", record.HashAlgorithm + ":" + record.HashValue},
					{"Scanned", record.ScannedAt.Local().Format(time.DateTime)},
				}))
				return nil
			}
			var metadata json.RawMessage = []byte(record.MetadataJSON)
			return writeJSON(cmd.OutOrStdout(), metadata)
		},
	}

	cmd.Flags().BoolVar(&showRecord, "record", false, "Show the catalog record instead of the stored metadata")
	return cmd
}

func newCatalogDuplicatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "List files sharing identical content",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			groups, err := store.Duplicates(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "No duplicate content found")
				return nil
			}

			var rows [][]string
			for _, group := range groups {
				for i, path := range group.Paths {
					hash := ""
					if i == 0 {
						hash = group.Algorithm + ":" + group.Value
					}
					rows = append(rows, []string{hash, path})
				}
			}
			fmt.Fprintln(out, renderTable([]string{"Hash", "Path"}, rows, nil))
			return nil
		},
	}
}
