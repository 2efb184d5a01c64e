// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package report

import (
	"fmt"
	"io"
	"os"

	"github.com/Azure/azmgmt/cmd/azmgmt/command/cli"
	"github.com/Azure/azmgmt/internal/doc"
	"github.com/spf13/cobra"
)

// ReportCmd writes a markdown inventory report of the subscription.
var ReportCmd = cobra.Command{
	Use:   "report",
	Short: "Generates a markdown report of the resource groups of the subscription.",
	Long: `Generates a markdown report listing the resource groups of the subscription,
their resources grouped by type and their deployments.
The report is written to standard output unless --file is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, _ := cmd.Flags().GetString("resource-group")
		file, _ := cmd.Flags().GetString("file")

		inv, err := s.Azure.Inventory(cmd.Context(), rg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		var w io.Writer = cmd.OutOrStdout()

		if file != "" {
			f, err := os.Create(file)
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}
			defer f.Close()

			w = f
		}

		if err := doc.InventoryMd(cmd.Context(), w, inv); err != nil {
			return err //nolint:wrapcheck
		}

		if file != "" {
			cmd.PrintErrf("Report for %d resources written to %s\n", inv.ResourceCount(), file)
		}

		return nil
	},
}

func init() {
	ReportCmd.Flags().StringP("resource-group", "g", "", "report on this resource group only")
	ReportCmd.Flags().StringP("file", "f", "", "write the report to this file")
}
