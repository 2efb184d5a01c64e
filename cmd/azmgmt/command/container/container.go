// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package container

import (
	"github.com/Azure/azmgmt/cmd/azmgmt/command/cli"
	"github.com/Azure/azmgmt/containerinstance"
	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/to"
	"github.com/spf13/cobra"
)

// ContainerCmd is the base command for container groups.
var ContainerCmd = cobra.Command{
	Use:   "container",
	Short: "Manage container groups.",
	RunE:  cli.MissingChild,
}

var createCmd = cobra.Command{
	Use:   "create name",
	Short: "Creates a container group running a single container and waits for it to be provisioned.",
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

		f := cmd.Flags()
		location, _ := f.GetString("location")
		image, _ := f.GetString("image")
		cpu, _ := f.GetFloat64("cpu")
		memory, _ := f.GetFloat64("memory")
		ports, _ := f.GetInt32Slice("port")
		env, _ := f.GetStringToString("env")
		secureEnv, _ := f.GetStringToString("secure-env")
		dnsLabel, _ := f.GetString("dns-label")
		osType, _ := f.GetString("os-type")
		restart, _ := f.GetString("restart-policy")
		command, _ := f.GetStringArray("command")

		spec := containerinstance.ContainerSpec{
			Name:       args[0],
			Image:      image,
			CPU:        cpu,
			MemoryInGB: memory,
			Command:    command,
			Env:        env,
			SecureEnv:  secureEnv,
		}

		for _, p := range ports {
			spec.Ports = append(spec.Ports, containerinstance.PortSpec{Port: p, Protocol: containerinstance.ProtocolTCP, External: true})
		}

		def := s.Azure.ContainerGroups().Define(rg, args[0])
		def.Region = core.ParseRegion(location)
		def.Containers = []containerinstance.ContainerSpec{spec}
		def.DNSNameLabel = dnsLabel

		if osType != "" {
			def.OSType = containerinstance.OperatingSystemTypes(osType)
		}

		if restart != "" {
			def.RestartPolicy = containerinstance.RestartPolicy(restart)
		}

		g, err := s.Azure.ContainerGroups().Create(cmd.Context(), def)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return printGroups(cmd, g, []*containerinstance.ContainerGroup{g})
	},
}

var listCmd = cobra.Command{
	Use:   "list",
	Short: "Lists the container groups of the subscription or of a resource group.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := cli.FromCommand(cmd)
		if err != nil {
			return err
		}

		rg, _ := cmd.Flags().GetString("resource-group")

		var list []*containerinstance.ContainerGroup
		if rg == "" {
			list, err = s.Azure.ContainerGroups().List(cmd.Context())
		} else {
			list, err = s.Azure.ContainerGroups().ListByResourceGroup(cmd.Context(), rg)
		}

		if err != nil {
			return err //nolint:wrapcheck
		}

		return printGroups(cmd, list, list)
	},
}

var showCmd = cobra.Command{
	Use:   "show name",
	Short: "Shows a container group.",
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

		g, err := s.Azure.ContainerGroups().Get(cmd.Context(), rg, args[0])
		if err != nil {
			return err //nolint:wrapcheck
		}

		return printGroups(cmd, g, []*containerinstance.ContainerGroup{g})
	},
}

var logsCmd = cobra.Command{
	Use:   "logs name",
	Short: "Prints the logs of a container.",
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
		container, _ := cmd.Flags().GetString("container")
		tail, _ := cmd.Flags().GetInt("tail")

		if container == "" {
			container = args[0]
		}

		logs, err := s.Azure.ContainerGroups().GetLogContent(cmd.Context(), rg, args[0], container, tail)
		if err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Print(logs)

		return nil
	},
}

var restartCmd = cobra.Command{
	Use:   "restart name",
	Short: "Restarts every container of a container group in place.",
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

		p, err := s.Azure.ContainerGroups().BeginRestart(cmd.Context(), rg, args[0], nil)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if _, err := p.PollUntilDone(cmd.Context(), s.Options.PollOptions()); err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Restarted container group %s\n", args[0])

		return nil
	},
}

var stopCmd = cobra.Command{
	Use:   "stop name",
	Short: "Stops every container of a container group.",
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

		if err := s.Azure.ContainerGroups().Stop(cmd.Context(), rg, args[0]); err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Stopped container group %s\n", args[0])

		return nil
	},
}

var deleteCmd = cobra.Command{
	Use:   "delete name",
	Short: "Deletes a container group.",
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

		if err := s.Azure.ContainerGroups().Delete(cmd.Context(), rg, args[0]); err != nil {
			return err //nolint:wrapcheck
		}

		cmd.Printf("Deleted container group %s\n", args[0])

		return nil
	},
}

func printGroups(cmd *cobra.Command, v any, groups []*containerinstance.ContainerGroup) error {
	t := &cli.Table{Header: []string{"NAME", "RESOURCE GROUP", "LOCATION", "STATE", "IP", "FQDN"}}
	for _, g := range groups {
		t.Append(to.ValOrZero(g.Name), g.ResourceGroup(), to.ValOrZero(g.Location), g.State(), g.IPAddress(), g.FQDN())
	}

	return cli.Print(cmd, v, t)
}

func init() {
	ContainerCmd.PersistentFlags().StringP("resource-group", "g", "", "the resource group of the container group")

	createCmd.Flags().StringP("location", "l", "", "the region of the container group")
	createCmd.Flags().String("image", "", "the container image")
	createCmd.Flags().Float64("cpu", 1, "cpu cores requested")
	createCmd.Flags().Float64("memory", 1.5, "memory requested in GB")
	createCmd.Flags().Int32Slice("port", nil, "ports exposed on the public IP address")
	createCmd.Flags().StringToString("env", nil, "environment variables in key=value form")
	createCmd.Flags().StringToString("secure-env", nil, "secure environment variables in key=value form")
	createCmd.Flags().StringArray("command", nil, "command line of the container, one element per flag")
	createCmd.Flags().String("dns-label", "", "DNS name label of the public IP address")
	createCmd.Flags().String("os-type", "", "Linux or Windows (default Linux)")
	createCmd.Flags().String("restart-policy", "", "Always, OnFailure or Never (default Always)")
	_ = createCmd.MarkFlagRequired("location")
	_ = createCmd.MarkFlagRequired("image")

	logsCmd.Flags().String("container", "", "the container (default is the group name)")
	logsCmd.Flags().Int("tail", 0, "number of lines to print, 0 for all")

	ContainerCmd.AddCommand(&createCmd, &listCmd, &showCmd, &logsCmd, &restartCmd, &stopCmd, &deleteCmd)
}
