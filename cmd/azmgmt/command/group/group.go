// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package group

import (
	"path/filepath"

	"github.com/Azure/azmgmt/cmd/azmgmt/command/cli"
	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/environment"
	"github.com/Azure/azmgmt/internal/export"
	"github.com/Azure/azmgmt/resources"
	"github.com/Azure/azmgmt/to"
	"github.com/spf13/cobra"
)

// GroupCmd is the base command for resource groups.
var GroupCmd = cobra.Command{
	Use:   "group",
	Short: "Manage resource groups.",
	RunE:  cli.MissingChild,
}

var listCmd = cobra.Command{
	Use:   "list",
	Short: "Lists the resource groups of the subscription.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		tagName, _ := cmd.Flags().GetString("tag-name")
		tagValue, _ := cmd.Flags().GetString("tag-value")

		groups, err := s.Azure.ResourceGroups().List(cmd.Context(), &resources.ResourceGroupsListOptions{
			TagName:  tagName,
			TagValue: tagValue,
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		t := &cli.Table{Header: []string{"NAME", "LOCATION", "STATE", "TAGS"}}
		for _, g := range groups {
			t.Append(to.ValOrZero(g.Name), to.ValOrZero(g.Location), provisioningState(g), cli.Tags(g.Tags))
		}

		return cli.Print(cmd, groups, t)
	},
}

var createCmd = cobra.Command{
	Use:   "create name",
	Short: "Creates or updates a resource group.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		location, _ := cmd.Flags().GetString("location")
		tags, _ := cmd.Flags().GetStringToString("tag")

		g, err := s.Azure.ResourceGroups().Create(cmd.Context(), args[0], core.ParseRegion(location), tags)
		if err != nil {
			return err //nolint:wrapcheck
		}

		t := &cli.Table{Header: []string{"NAME", "LOCATION", "STATE"}}
		t.Append(to.ValOrZero(g.Name), to.ValOrZero(g.Location), provisioningState(g))

		return cli.Print(cmd, g, t)
	},
}

var deleteCmd = cobra.Command{
	Use:   "delete name",
	Short: "Deletes a resource group and every resource it contains.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		if err := s.Azure.ResourceGroups().Delete(cmd.Context(), args[0]); err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Deleted resource group %s\n", args[0])

		return nil
	},
}

var exportCmd = cobra.Command{
	Use:   "export [name]",
	Short: "Exports resource groups to a directory.",
	Long: `Exports the resources and deployments of the named resource group, or of every resource group
when no name is given. Each resource group becomes a directory holding one JSON file per resource.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg := ""
		if len(args) == 1 {
			rg = args[0]
		}

		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = filepath.Join(environment.AzMgmtDir(), "exports", s.Azure.SubscriptionID())
		}

		inv, err := s.Azure.Inventory(cmd.Context(), rg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := export.NewFSWriter().Write(cmd.Context(), inv, outDir); err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Exported %d resources from %d resource groups to %s\n", inv.ResourceCount(), len(inv.Groups), outDir)

		return nil
	},
}

func provisioningState(g *resources.ResourceGroup) string {
	if g.Properties == nil {
		return ""
	}

	return to.ValOrZero(g.Properties.ProvisioningState)
}

func init() {
	listCmd.Flags().String("tag-name", "", "only list groups carrying this tag")
	listCmd.Flags().String("tag-value", "", "only list groups whose tag-name tag has this value")

	createCmd.Flags().StringP("location", "l", "", "the region of the resource group")
	createCmd.Flags().StringToString("tag", nil, "tags in key=value form, may be repeated")
	_ = createCmd.MarkFlagRequired("location")

	exportCmd.Flags().String("out", "", "the output directory (default is $AZMGMT_DIR/exports/<subscription>)")

	GroupCmd.AddCommand(&listCmd, &createCmd, &deleteCmd, &exportCmd)
}
