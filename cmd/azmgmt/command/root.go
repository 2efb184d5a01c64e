// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Azure/azmgmt"
	"github.com/Azure/azmgmt/cmd/azmgmt/command/aks"
	"github.com/Azure/azmgmt/cmd/azmgmt/command/cli"
	"github.com/Azure/azmgmt/cmd/azmgmt/command/container"
	"github.com/Azure/azmgmt/cmd/azmgmt/command/deployment"
	"github.com/Azure/azmgmt/cmd/azmgmt/command/group"
	"github.com/Azure/azmgmt/cmd/azmgmt/command/media"
	"github.com/Azure/azmgmt/cmd/azmgmt/command/report"
	"github.com/Azure/azmgmt/cmd/azmgmt/command/webapp"
	"github.com/Azure/azmgmt/internal/auth"
	"github.com/Azure/azmgmt/internal/config"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

var configFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "azmgmt",
	Version: version,
	Short:   "A cli tool for managing Azure resources",
	Long: `A cli tool for managing Azure resources.

This tool can:

- Create, list and delete resource groups and export their contents.
- Run template deployments from a local directory or a remote source.
- Manage container groups, Kubernetes clusters, web apps and Media Services accounts.
- Write a Markdown inventory report of a subscription.
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: newSession,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		rootCmd.PrintErrf("%s %v\n", rootCmd.ErrPrefix(), err)
		cancel()
		os.Exit(1) //nolint:gocritic
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.azmgmt/config.yaml)")
	rootCmd.PersistentFlags().StringP("subscription", "s", "", "subscription id, overrides AZMGMT_SUBSCRIPTION_ID")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table, json or yaml")

	rootCmd.AddCommand(&group.GroupCmd)
	rootCmd.AddCommand(&deployment.DeploymentCmd)
	rootCmd.AddCommand(&container.ContainerCmd)
	rootCmd.AddCommand(&aks.AksCmd)
	rootCmd.AddCommand(&webapp.WebAppCmd)
	rootCmd.AddCommand(&media.MediaCmd)
	rootCmd.AddCommand(&report.ReportCmd)
}

// newSession loads the configuration and authenticates, unless the context already carries a session.
func newSession(cmd *cobra.Command, _ []string) error {
	if cli.SessionFromContext(cmd.Context()) != nil {
		return nil
	}

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err //nolint:wrapcheck
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel

	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if lvl, _ := logging.ParseLevel(cfg.LogLevel); lvl == zapcore.DebugLevel {
		detach := logging.AttachAzureSDKListener(logger)
		cobra.OnFinalize(detach)
	}

	if cfg.File != "" {
		logger.Debug("using configuration file", zap.String("file", cfg.File))
	}

	if cfg.SubscriptionID == "" {
		return fmt.Errorf("%w: set --subscription, AZMGMT_SUBSCRIPTION_ID or subscription-id in the config file",
			azmgmt.ErrNoSubscription)
	}

	cred, err := auth.NewToken()
	if err != nil {
		return err //nolint:wrapcheck
	}

	opts := cfg.ClientOptions(logger)

	az, err := azmgmt.Authenticate(cred, cfg.SubscriptionID, opts)
	if err != nil {
		return err //nolint:wrapcheck
	}

	cmd.SetContext(cli.WithSession(cmd.Context(), &cli.Session{
		Config:  cfg,
		Logger:  logger,
		Options: opts,
		Azure:   az,
	}))

	return nil
}
