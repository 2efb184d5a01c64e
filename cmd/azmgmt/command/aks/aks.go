// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package aks

import (
	"os"
	"strings"

	"github.com/Azure/azmgmt/cmd/azmgmt/command/cli"
	"github.com/Azure/azmgmt/containerservice"
	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/to"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"
)

const kubeconfigPerm = 0o600

// AksCmd is the base command for managed Kubernetes clusters.
var AksCmd = cobra.Command{
	Use:   "aks",
	Short: "Manage managed Kubernetes clusters.",
	RunE:  cli.MissingChild,
}

var listCmd = cobra.Command{
	Use:   "list",
	Short: "Lists the clusters of the subscription or of a resource group.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, _ := cmd.Flags().GetString("resource-group")
		across, _ := cmd.Flags().GetBool("across-resource-groups")

		var list []*containerservice.KubernetesCluster
		if rg == "" {
			list, err = s.Azure.KubernetesClusters().List(cmd.Context(), &containerservice.KubernetesClustersListOptions{
				AcrossResourceGroups: across,
			})
		} else {
			list, err = s.Azure.KubernetesClusters().ListByResourceGroup(cmd.Context(), rg)
		}

		if err != nil {
			return err //nolint:wrapcheck
		}

		return printClusters(cmd, list, list)
	},
}

var showCmd = cobra.Command{
	Use:   "show name",
	Short: "Shows a cluster.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, err := cli.RequiredString(cmd, "resource-group")
		if err != nil {
			return err
		}

		k, err := s.Azure.KubernetesClusters().Get(cmd.Context(), rg, args[0])
		if err != nil {
			return err //nolint:wrapcheck
		}

		return printClusters(cmd, k, []*containerservice.KubernetesCluster{k})
	},
}

type versionsResult struct {
	Location string   `json:"location"`
	Versions []string `json:"versions"`
	Resolved string   `json:"resolved,omitempty"`
	Upgrades []string `json:"upgrades,omitempty"`
}

var versionsCmd = cobra.Command{
	Use:   "versions",
	Short: "Lists the Kubernetes versions offered in a region.",
	Long: `Lists the Kubernetes versions offered in a region.
With --constraint, also prints the newest version satisfying a semantic version constraint such as ~1.28.
With --upgrades-from, also prints the versions a cluster running that version can be upgraded to.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		location, err := cli.RequiredString(cmd, "location")
		if err != nil {
			return err
		}

		constraint, _ := cmd.Flags().GetString("constraint")
		from, _ := cmd.Flags().GetString("upgrades-from")

		kv, err := s.Azure.KubernetesClusters().ListKubernetesVersions(cmd.Context(), core.ParseRegion(location))
		if err != nil {
			return err //nolint:wrapcheck
		}

		res := versionsResult{Location: location, Versions: kv.Versions()}

		if cmd.Flags().Changed("constraint") {
			if res.Resolved, err = kv.Resolve(constraint); err != nil {
				return err //nolint:wrapcheck
			}
		}

		if from != "" {
			if res.Upgrades, err = kv.UpgradesFrom(from); err != nil {
				return err //nolint:wrapcheck
			}
		}

		t := &cli.Table{Header: []string{"VERSION", "RESOLVED", "UPGRADE"}}
		for _, v := range res.Versions {
			resolved, upgrade := "", ""
			if v == res.Resolved {
				resolved = "*"
			}

			for _, u := range res.Upgrades {
				if u == v {
					upgrade = "*"
				}
			}

			t.Append(v, resolved, upgrade)
		}

		return cli.Print(cmd, res, t)
	},
}

var kubeconfigCmd = cobra.Command{
	Use:   "kubeconfig name",
	Short: "Prints or writes the kubeconfig of a cluster.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, err := cli.RequiredString(cmd, "resource-group")
		if err != nil {
			return err
		}

		admin, _ := cmd.Flags().GetBool("admin")
		file, _ := cmd.Flags().GetString("file")

		var content []byte
		if admin {
			content, err = s.Azure.KubernetesClusters().AdminKubeConfigContent(cmd.Context(), rg, args[0])
		} else {
			content, err = s.Azure.KubernetesClusters().UserKubeConfigContent(cmd.Context(), rg, args[0])
		}

		if err != nil {
			return err //nolint:wrapcheck
		}

		if file == "" {
			cmd.Print(string(content))
			return nil
		}

		if err := os.WriteFile(file, content, kubeconfigPerm); err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Wrote kubeconfig of %s to %s\n", args[0], file)

		return nil
	},
}

var deleteCmd = cobra.Command{
	Use:   "delete name",
	Short: "Deletes a cluster.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, err := cli.RequiredString(cmd, "resource-group")
		if err != nil {
			return err
		}

		p, err := s.Azure.KubernetesClusters().BeginDelete(cmd.Context(), rg, args[0], nil)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if noWait, _ := cmd.Flags().GetBool("no-wait"); noWait {
			token, err := p.ResumeToken()
			if err != nil {
				return err //nolint:wrapcheck
			}

			cmd.Printf("Deletion of %s started, resume token: %s\n", args[0], token)

			return nil
		}

		if _, err := p.PollUntilDone(cmd.Context(), s.Options.PollOptions()); err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Deleted cluster %s\n", args[0])

		return nil
	},
}

func printClusters(cmd *cobra.Command, v any, list []*containerservice.KubernetesCluster) error {
	t := &cli.Table{Header: []string{"NAME", "RESOURCE GROUP", "LOCATION", "VERSION", "STATE", "POWER", "NODE POOLS"}}

	for _, k := range list {
		pools := mapset.Sorted(mapset.NewThreadUnsafeSetFromMapKeys(k.AgentPools()))

		t.Append(
			to.ValOrZero(k.Name),
			k.ResourceGroup(),
			to.ValOrZero(k.Location),
			k.Version(),
			k.ProvisioningState(),
			string(k.PowerState()),
			strings.Join(pools, ","),
		)
	}

	return cli.Print(cmd, v, t)
}

func init() {
	AksCmd.PersistentFlags().StringP("resource-group", "g", "", "the resource group of the cluster")

	listCmd.Flags().Bool("across-resource-groups", false, "list each resource group instead of the subscription")

	versionsCmd.Flags().StringP("location", "l", "", "the region to query")
	versionsCmd.Flags().String("constraint", "", "semantic version constraint to resolve, or latest")
	versionsCmd.Flags().String("upgrades-from", "", "print the upgrades available from this version")

	kubeconfigCmd.Flags().Bool("admin", false, "return the cluster admin credentials")
	kubeconfigCmd.Flags().StringP("file", "f", "", "write the kubeconfig to this file instead of stdout")

	deleteCmd.Flags().Bool("no-wait", false, "print the resume token instead of waiting for the deletion")

	AksCmd.AddCommand(&listCmd, &showCmd, &versionsCmd, &kubeconfigCmd, &deleteCmd)
}
