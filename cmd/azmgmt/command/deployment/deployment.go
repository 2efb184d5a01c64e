// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Azure/azmgmt/cmd/azmgmt/command/cli"
	"github.com/Azure/azmgmt/internal/template"
	"github.com/Azure/azmgmt/resources"
	"github.com/Azure/azmgmt/to"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"
)

// DeploymentCmd is the base command for template deployments.
var DeploymentCmd = cobra.Command{
	Use:   "deployment",
	Short: "Manage template deployments of a resource group.",
	RunE:  cli.MissingChild,
}

var createCmd = cobra.Command{
	Use:   "create name",
	Short: "Deploys a template to a resource group and waits for it to finish.",
	Long: `Deploys a template to a resource group and waits for it to finish.

The template source is a local directory or any go-getter source, for example
git::https://github.com/org/repo//templates/web?ref=v1. The directory must hold one azuredeploy.json or
*.template.json file and at most one *.parameters.json file; yaml files are accepted as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		def, err := definition(cmd, args[0])
		if err != nil {
			return err
		}

		d, err := s.Azure.Deployments().Create(cmd.Context(), def)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return printDeployment(cmd, d)
	},
}

var whatIfCmd = cobra.Command{
	Use:   "what-if [name]",
	Short: "Predicts the changes a template deployment would make.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		def, err := definition(cmd, name)
		if err != nil {
			return err
		}

		p, err := s.Azure.Deployments().BeginWhatIf(cmd.Context(), def, resources.WhatIfResultFormatResourceIDOnly)
		if err != nil {
			return err //nolint:wrapcheck
		}

		res, err := p.PollUntilDone(cmd.Context(), s.Options.PollOptions())
		if err != nil {
			return err //nolint:wrapcheck
		}

		if res.Error != nil {
			return fmt.Errorf("what-if failed: %s: %s", to.ValOrZero(res.Error.Code), to.ValOrZero(res.Error.Message))
		}

		t := &cli.Table{Header: []string{"CHANGE", "RESOURCE"}}

		if res.Properties != nil {
			for _, c := range res.Properties.Changes {
				t.Append(string(c.ChangeType), to.ValOrZero(c.ResourceID))
			}
		}

		return cli.Print(cmd, res, t)
	},
}

var listCmd = cobra.Command{
	Use:   "list",
	Short: "Lists the deployments of a resource group.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, _ := cmd.Flags().GetString("resource-group")

		list, err := s.Azure.Deployments().ListByResourceGroup(cmd.Context(), rg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		t := &cli.Table{Header: []string{"NAME", "STATE", "TIMESTAMP"}}

		for _, d := range list {
			ts := ""
			if d.Properties != nil && d.Properties.Timestamp != nil {
				ts = d.Properties.Timestamp.UTC().Format("2006-01-02T15:04:05Z")
			}

			t.Append(to.ValOrZero(d.Name), d.ProvisioningState(), ts)
		}

		return cli.Print(cmd, list, t)
	},
}

var showCmd = cobra.Command{
	Use:   "show name",
	Short: "Shows a deployment and its outputs.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, _ := cmd.Flags().GetString("resource-group")

		d, err := s.Azure.Deployments().Get(cmd.Context(), rg, args[0])
		if err != nil {
			return err //nolint:wrapcheck
		}

		return printDeployment(cmd, d)
	},
}

var deleteCmd = cobra.Command{
	Use:   "delete name",
	Short: "Deletes a deployment from the history of a resource group. Deployed resources are kept.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, _ := cmd.Flags().GetString("resource-group")

		p, err := s.Azure.Deployments().BeginDelete(cmd.Context(), rg, args[0])
		if err != nil {
			return err //nolint:wrapcheck
		}

		if _, err := p.PollUntilDone(cmd.Context(), s.Options.PollOptions()); err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Deleted deployment %s\n", args[0])

		return nil
	},
}

// definition builds the deployment definition from the template flags of cmd.
func definition(cmd *cobra.Command, name string) (*resources.DeploymentDefinition, error) {
	s, err := cli.FromCommand(cmd)
	if err != nil {
		return nil, err
	}

	rg, _ := cmd.Flags().GetString("resource-group")
	src, _ := cmd.Flags().GetString("template")
	paramsFile, _ := cmd.Flags().GetString("parameters")
	overrides, _ := cmd.Flags().GetStringArray("set")
	mode, _ := cmd.Flags().GetString("mode")

	fsys, err := templateFS(cmd, src, name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.Load(fsys)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	s.Logger.Debug("template loaded")

	params := tmpl.Parameters

	if paramsFile != "" {
		if params, err = template.LoadParameters(os.DirFS(filepath.Dir(paramsFile)), filepath.Base(paramsFile)); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	if params, err = tmpl.ApplyOverrides(params, overrides); err != nil {
		return nil, err //nolint:wrapcheck
	}

	def := s.Azure.Deployments().Define(rg, name)
	def.Template = tmpl.Body
	def.Parameters = params

	if mode != "" {
		def.Mode = resources.DeploymentMode(mode)
	}

	return def, nil
}

func templateFS(cmd *cobra.Command, src, name string) (fs.FS, error) {
	if fi, err := os.Stat(src); err == nil && fi.IsDir() {
		return os.DirFS(src), nil
	}

	dst := template.FetchDir(name)
	if name == "" {
		dst = template.FetchDir("what-if")
	}

	return template.Fetch(cmd.Context(), src, dst) //nolint:wrapcheck
}

func printDeployment(cmd *cobra.Command, d *resources.Deployment) error {
	t := &cli.Table{Header: []string{"NAME", "STATE", "OUTPUT", "VALUE"}}
	t.Append(to.ValOrZero(d.Name), d.ProvisioningState(), "", "")

	outputs := d.Outputs()
	for _, k := range mapset.Sorted(mapset.NewThreadUnsafeSetFromMapKeys(outputs)) {
		t.Append("", "", k, fmt.Sprint(outputs[k]))
	}

	return cli.Print(cmd, d, t)
}

func init() {
	DeploymentCmd.PersistentFlags().StringP("resource-group", "g", "", "the resource group of the deployment")
	_ = DeploymentCmd.MarkPersistentFlagRequired("resource-group")

	for _, c := range []*cobra.Command{&createCmd, &whatIfCmd} {
		c.Flags().StringP("template", "t", "", "local directory or go-getter source of the template")
		c.Flags().StringP("parameters", "p", "", "parameters file, replaces the parameters found next to the template")
		c.Flags().StringArray("set", nil, "parameter override in name=value form, may be repeated")
		c.Flags().String("mode", "", "deployment mode: Incremental or Complete")
		_ = c.MarkFlagRequired("template")
	}

	DeploymentCmd.AddCommand(&createCmd, &whatIfCmd, &listCmd, &showCmd, &deleteCmd)
}
