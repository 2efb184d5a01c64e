// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package media

import (
	"strconv"
	"time"

	"github.com/Azure/azmgmt/cmd/azmgmt/command/cli"
	"github.com/Azure/azmgmt/mediaservices"
	"github.com/Azure/azmgmt/to"
	"github.com/spf13/cobra"
)

// MediaCmd is the base command for Media Services.
var MediaCmd = cobra.Command{
	Use:   "media",
	Short: "Inspect Media Services accounts and their content.",
	RunE:  cli.MissingChild,
}

var listCmd = cobra.Command{
	Use:   "list",
	Short: "Lists the Media Services accounts of the subscription or of a resource group.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, _ := cmd.Flags().GetString("resource-group")
		accounts := s.Azure.MediaServices().Accounts()

		var list []*mediaservices.Account
		if rg == "" {
			list, err = accounts.List(cmd.Context())
		} else {
			list, err = accounts.ListByResourceGroup(cmd.Context(), rg)
		}

		if err != nil {
			return err //nolint:wrapcheck
		}

		t := &cli.Table{Header: []string{"NAME", "RESOURCE GROUP", "LOCATION", "STATE", "STORAGE"}}
		for _, a := range list {
			t.Append(to.ValOrZero(a.Name), a.ResourceGroup(), to.ValOrZero(a.Location), a.ProvisioningState(), a.PrimaryStorageAccountID())
		}

		return cli.Print(cmd, list, t)
	},
}

var assetsCmd = cobra.Command{
	Use:   "assets account",
	Short: "Lists the assets of an account.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		list, err := s.Azure.MediaServices().Assets().List(cmd.Context(), rg, args[0], listOptions(cmd))
		if err != nil {
			return err //nolint:wrapcheck
		}

		t := &cli.Table{Header: []string{"NAME", "CONTAINER", "STORAGE ACCOUNT", "CREATED"}}
		for _, a := range list {
			p := a.Properties
			if p == nil {
				p = &mediaservices.AssetProperties{}
			}

			t.Append(to.ValOrZero(a.Name), to.ValOrZero(p.Container), to.ValOrZero(p.StorageAccountName), timestamp(p.Created))
		}

		return cli.Print(cmd, list, t)
	},
}

var transformsCmd = cobra.Command{
	Use:   "transforms account",
	Short: "Lists the transforms of an account.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		list, err := s.Azure.MediaServices().Transforms().List(cmd.Context(), rg, args[0], listOptions(cmd))
		if err != nil {
			return err //nolint:wrapcheck
		}

		t := &cli.Table{Header: []string{"NAME", "OUTPUTS", "DESCRIPTION", "MODIFIED"}}
		for _, tr := range list {
			p := tr.Properties
			if p == nil {
				p = &mediaservices.TransformProperties{}
			}

			t.Append(to.ValOrZero(tr.Name), strconv.Itoa(len(p.Outputs)), to.ValOrZero(p.Description), timestamp(p.LastModified))
		}

		return cli.Print(cmd, list, t)
	},
}

var jobsCmd = cobra.Command{
	Use:   "jobs account transform",
	Short: "Lists the jobs of a transform.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		list, err := s.Azure.MediaServices().Jobs().List(cmd.Context(), rg, args[0], args[1], listOptions(cmd))
		if err != nil {
			return err //nolint:wrapcheck
		}

		t := &cli.Table{Header: []string{"NAME", "STATE", "CREATED", "ERRORS"}}
		for _, j := range list {
			var created *time.Time
			if j.Properties != nil {
				created = j.Properties.Created
			}

			t.Append(to.ValOrZero(j.Name), string(j.State()), timestamp(created), strconv.Itoa(len(j.OutputErrors())))
		}

		return cli.Print(cmd, list, t)
	},
}

var cancelJobCmd = cobra.Command{
	Use:   "cancel-job account transform job",
	Short: "Cancels a job, optionally waiting for it to stop.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		jobs := s.Azure.MediaServices().Jobs()
		if err := jobs.Cancel(cmd.Context(), rg, args[0], args[1], args[2]); err != nil {
			return err //nolint:wrapcheck
		}

		if wait, _ := cmd.Flags().GetBool("wait"); !wait {
			cmd.Printf("Cancellation of job %s requested\n", args[2])
			return nil
		}

		j, err := jobs.Wait(cmd.Context(), rg, args[0], args[1], args[2])
		if err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Job %s is %s\n", args[2], j.State())

		return nil
	},
}

type locatorPath struct {
	Protocol   string `json:"protocol"`
	Encryption string `json:"encryption"`
	Path       string `json:"path"`
}

var pathsCmd = cobra.Command{
	Use:   "paths account locator",
	Short: "Lists the streaming and download paths of a streaming locator.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		res, err := s.Azure.MediaServices().StreamingLocators().ListPaths(cmd.Context(), rg, args[0], args[1])
		if err != nil {
			return err //nolint:wrapcheck
		}

		var paths []locatorPath

		for _, sp := range res.StreamingPaths {
			if sp == nil {
				continue
			}

			for _, p := range sp.Paths {
				paths = append(paths, locatorPath{
					Protocol:   string(to.ValOrZero(sp.StreamingProtocol)),
					Encryption: string(to.ValOrZero(sp.EncryptionScheme)),
					Path:       to.ValOrZero(p),
				})
			}
		}

		for _, p := range res.DownloadPaths {
			paths = append(paths, locatorPath{Protocol: "Download", Path: to.ValOrZero(p)})
		}

		t := &cli.Table{Header: []string{"PROTOCOL", "ENCRYPTION", "PATH"}}
		for _, p := range paths {
			t.Append(p.Protocol, p.Encryption, p.Path)
		}

		return cli.Print(cmd, paths, t)
	},
}

func sessionAndGroup(cmd *cobra.Command) (*cli.Session, string, error) {
	s, err := cli.FromCommand(cmd)
	if err != nil {
		return nil, "", err
	}

	rg, err := cli.RequiredString(cmd, "resource-group")
	if err != nil {
		return nil, "", err
	}

	return s, rg, nil
}

func listOptions(cmd *cobra.Command) *mediaservices.ListOptions {
	f := cmd.Flags()
	filter, _ := f.GetString("filter")
	orderBy, _ := f.GetString("orderby")
	top, _ := f.GetInt32("top")

	return &mediaservices.ListOptions{Filter: filter, OrderBy: orderBy, Top: top}
}

func timestamp(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

func init() {
	MediaCmd.PersistentFlags().StringP("resource-group", "g", "", "the resource group of the account")

	for _, c := range []*cobra.Command{&assetsCmd, &transformsCmd, &jobsCmd} {
		c.Flags().String("filter", "", "OData filter, for example \"properties/created gt 2024-01-01\"")
		c.Flags().String("orderby", "", "OData order, for example \"properties/created desc\"")
		c.Flags().Int32("top", 0, "maximum number of results per page")
	}

	cancelJobCmd.Flags().Bool("wait", false, "wait until the job reaches a final state")

	MediaCmd.AddCommand(&listCmd, &assetsCmd, &transformsCmd, &jobsCmd, &cancelJobCmd, &pathsCmd)
}
