// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package webapp

import (
	"os"
	"strconv"

	"github.com/Azure/azmgmt/appservice"
	"github.com/Azure/azmgmt/cmd/azmgmt/command/cli"
	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/to"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"
)

// WebAppCmd is the base command for web apps.
var WebAppCmd = cobra.Command{
	Use:   "webapp",
	Short: "Manage App Service web apps.",
	RunE:  cli.MissingChild,
}

var listCmd = cobra.Command{
	Use:   "list",
	Short: "Lists the web apps of the subscription or of a resource group.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, _ := cmd.Flags().GetString("resource-group")

		var list []*appservice.WebApp
		if rg == "" {
			list, err = s.Azure.WebApps().List(cmd.Context())
		} else {
			list, err = s.Azure.WebApps().ListByResourceGroup(cmd.Context(), rg)
		}

		if err != nil {
			return err //nolint:wrapcheck
		}

		return printApps(cmd, list, list)
	},
}

var showCmd = cobra.Command{
	Use:   "show name",
	Short: "Shows a web app and its site configuration.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		app, err := s.Azure.WebApps().Get(cmd.Context(), rg, args[0])
		if err != nil {
			return err //nolint:wrapcheck
		}

		return printApps(cmd, app, []*appservice.WebApp{app})
	},
}

var createCmd = cobra.Command{
	Use:   "create name",
	Short: "Creates a web app on an existing App Service plan.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		plan, err := cli.RequiredString(cmd, "plan")
		if err != nil {
			return err
		}

		f := cmd.Flags()
		location, _ := f.GetString("location")
		runtime, _ := f.GetString("runtime")
		windows, _ := f.GetBool("windows")
		httpsOnly, _ := f.GetBool("https-only")
		alwaysOn, _ := f.GetBool("always-on")
		settings, _ := f.GetStringToString("setting")
		identity, _ := f.GetBool("system-identity")

		planID := plan
		if _, err := core.ParseResourceID(plan); err != nil {
			p, err := s.Azure.AppServicePlans().Get(cmd.Context(), rg, plan)
			if err != nil {
				return err //nolint:wrapcheck
			}

			planID = to.ValOrZero(p.ID)

			if location == "" {
				location = to.ValOrZero(p.Location)
			}
		}

		def := s.Azure.WebApps().Define(rg, args[0])
		def.AppServicePlanID = planID
		def.Region = core.ParseRegion(location)
		def.HTTPSOnly = httpsOnly
		def.AlwaysOn = alwaysOn
		def.OperatingSystem = appservice.OperatingSystemLinux

		if windows {
			def.OperatingSystem = appservice.OperatingSystemWindows
		}

		if runtime != "" {
			rs, err := appservice.ParseRuntimeStack(runtime)
			if err != nil {
				return err //nolint:wrapcheck
			}

			def.RuntimeStack = rs
		}

		for k, v := range settings {
			def.WithAppSetting(k, v)
		}

		if identity {
			def.WithSystemAssignedIdentity()
		}

		app, err := s.Azure.WebApps().Create(cmd.Context(), def)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return printApps(cmd, app, []*appservice.WebApp{app})
	},
}

type setting struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Value  string `json:"value"`
	Sticky bool   `json:"sticky"`
}

var settingsCmd = cobra.Command{
	Use:   "settings name",
	Short: "Lists the app settings and connection strings of a web app.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		reveal, _ := cmd.Flags().GetBool("show-values")

		appSettings, err := s.Azure.WebApps().GetAppSettings(cmd.Context(), rg, args[0])
		if err != nil {
			return err //nolint:wrapcheck
		}

		connStrings, err := s.Azure.WebApps().GetConnectionStrings(cmd.Context(), rg, args[0])
		if err != nil {
			return err //nolint:wrapcheck
		}

		mask := func(v string) string {
			if reveal {
				return v
			}

			return "***"
		}

		res := make([]setting, 0, len(appSettings)+len(connStrings))

		for _, k := range mapset.Sorted(mapset.NewThreadUnsafeSetFromMapKeys(appSettings)) {
			v := appSettings[k]
			res = append(res, setting{Name: k, Kind: "AppSetting", Value: mask(v.Value), Sticky: v.Sticky})
		}

		for _, k := range mapset.Sorted(mapset.NewThreadUnsafeSetFromMapKeys(connStrings)) {
			v := connStrings[k]
			res = append(res, setting{Name: k, Kind: string(v.Type), Value: mask(v.Value), Sticky: v.Sticky})
		}

		t := &cli.Table{Header: []string{"NAME", "KIND", "VALUE", "STICKY"}}
		for _, r := range res {
			t.Append(r.Name, r.Kind, r.Value, strconv.FormatBool(r.Sticky))
		}

		return cli.Print(cmd, res, t)
	},
}

var deployCmd = cobra.Command{
	Use:   "deploy name",
	Short: "Deploys a zip package to a web app through its SCM site.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		file, err := cli.RequiredString(cmd, "zip")
		if err != nil {
			return err
		}

		zip, err := os.Open(file)
		if err != nil {
			return err //nolint:wrapcheck
		}
		defer zip.Close()

		kudu, err := kuduClient(cmd, s, rg, args[0])
		if err != nil {
			return err
		}

		d, err := kudu.ZipDeploy(cmd.Context(), zip)
		if err != nil {
			return err //nolint:wrapcheck
		}

		t := &cli.Table{Header: []string{"ID", "STATUS", "COMPLETE", "MESSAGE"}}
		if d != nil {
			t.Append(d.ID, d.StatusText, strconv.FormatBool(d.Complete), d.Message)
		}

		return cli.Print(cmd, d, t)
	},
}

var logsCmd = cobra.Command{
	Use:   "logs name",
	Short: "Streams the logs of a web app until interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		kind, _ := cmd.Flags().GetString("kind")

		kudu, err := kuduClient(cmd, s, rg, args[0])
		if err != nil {
			return err
		}

		return kudu.StreamLogs(cmd.Context(), appservice.LogKind(kind), cmd.OutOrStdout()) //nolint:wrapcheck
	},
}

var restartCmd = cobra.Command{
	Use:   "restart name",
	Short: "Restarts a web app.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		soft, _ := cmd.Flags().GetBool("soft")

		if err := s.Azure.WebApps().Restart(cmd.Context(), rg, args[0], soft); err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Restarted web app %s\n", args[0])

		return nil
	},
}

var deleteCmd = cobra.Command{
	Use:   "delete name",
	Short: "Deletes a web app.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, rg, err := sessionAndGroup(cmd)
		if err != nil {
			return err
		}

		if err := s.Azure.WebApps().Delete(cmd.Context(), rg, args[0]); err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Deleted web app %s\n", args[0])

		return nil
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

func kuduClient(cmd *cobra.Command, s *cli.Session, rg, name string) (*appservice.KuduClient, error) {
	app, err := s.Azure.WebApps().Get(cmd.Context(), rg, name)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	endpoint, _ := cmd.Flags().GetString("scm-endpoint")

	return app.Kudu(&appservice.KuduClientOptions{Endpoint: endpoint}) //nolint:wrapcheck
}

func printApps(cmd *cobra.Command, v any, apps []*appservice.WebApp) error {
	t := &cli.Table{Header: []string{"NAME", "RESOURCE GROUP", "LOCATION", "STATE", "HOST", "RUNTIME"}}

	for _, a := range apps {
		t.Append(
			to.ValOrZero(a.Name),
			a.ResourceGroup(),
			to.ValOrZero(a.Location),
			string(a.State()),
			a.DefaultHostName(),
			a.LinuxFxVersion(),
		)
	}

	return cli.Print(cmd, v, t)
}

func init() {
	WebAppCmd.PersistentFlags().StringP("resource-group", "g", "", "the resource group of the web app")

	createCmd.Flags().String("plan", "", "name, in the same resource group, or resource id of the App Service plan")
	createCmd.Flags().StringP("location", "l", "", "the region of the web app (default is the region of the plan)")
	createCmd.Flags().String("runtime", "", "Linux runtime stack such as NODE|20-lts")
	createCmd.Flags().Bool("windows", false, "create a Windows web app")
	createCmd.Flags().Bool("https-only", true, "redirect HTTP requests to HTTPS")
	createCmd.Flags().Bool("always-on", false, "keep the app loaded when idle")
	createCmd.Flags().StringToString("setting", nil, "app settings in key=value form")
	createCmd.Flags().Bool("system-identity", false, "enable the system assigned identity")

	settingsCmd.Flags().Bool("show-values", false, "print setting values instead of masking them")

	for _, c := range []*cobra.Command{&deployCmd, &logsCmd} {
		c.Flags().String("scm-endpoint", "", "override the SCM endpoint derived from the default host name")
	}

	deployCmd.Flags().String("zip", "", "the zip package to deploy")
	logsCmd.Flags().String("kind", string(appservice.LogKindApplication), "application, http, trace, deployment or all")
	restartCmd.Flags().Bool("soft", false, "restart without recycling the worker processes")

	WebAppCmd.AddCommand(&listCmd, &showCmd, &createCmd, &settingsCmd, &deployCmd, &logsCmd, &restartCmd, &deleteCmd)
}
