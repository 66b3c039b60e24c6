package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mdeco/internal/checksum"
	"mdeco/internal/deps"
	"mdeco/internal/scanner"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Report external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			requirements := scanner.AllRequirements(scanner.OptionsFromConfig(cfg))
			statuses := deps.CheckBinaries(requirements)

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "missing"
				if status.Available {
					state = "ok"
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Command
				}
				rows = append(rows, []string{status.Name, state, detail, status.Description})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "Status", "Detail", "Purpose"},
				rows, nil))
			fmt.Fprintf(out, "Checksum algorithms: %s\n", strings.Join(checksum.Algorithms(), ", "))
			return nil
		},
	}
}
