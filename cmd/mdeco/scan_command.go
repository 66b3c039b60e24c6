package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mdeco/internal/pathtree"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flatten bool
	var separator string

	cmd := &cobra.Command{
		Use:   "scan FILE [FILE...]",
		Short: "Extract metadata from one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.scanService()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				metadata, err := service.GetMetadata(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("scan %s: %w", path, err)
				}
				document := metadata
				if flatten {
					document = metadata.Flatten(separator)
				}
				result := pathtree.New()
				result.Set("path", path)
				result.Set("metadata", document)
				if err := writeJSON(out, result); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flatten, "flatten", false, "Emit delimiter-joined leaf keys instead of nested objects")
	cmd.Flags().StringVar(&separator, "separator", pathtree.DefaultSeparator, "Key separator used with --flatten")
	return cmd
}
