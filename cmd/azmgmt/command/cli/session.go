// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package cli holds the state shared by the azmgmt commands.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azmgmt"
	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrNoSession is returned when a command runs without an authenticated session.
var ErrNoSession = errors.New("no azmgmt session, was the root command bypassed?")

// Session is the authenticated state of one command invocation.
type Session struct {
	Config  *config.Config
	Logger  *zap.Logger
	Options *core.ClientOptions
	Azure   *azmgmt.Azure
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session carried by ctx, or nil.
func SessionFromContext(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}

	s, _ := ctx.Value(sessionKey{}).(*Session)

	return s
}

// FromCommand returns the session of cmd.
func FromCommand(cmd *cobra.Command) (*Session, error) {
	s := SessionFromContext(cmd.Context())
	if s == nil || s.Azure == nil {
		return nil, ErrNoSession
	}

	return s, nil
}

// MissingChild is the Run function of commands that only group child commands.
func MissingChild(cmd *cobra.Command, _ []string) error {
	cmd.PrintErrf("%s %s command: missing required child command\n", cmd.ErrPrefix(), cmd.Name())
	cmd.Usage() // nolint: errcheck

	return errors.New("missing required child command")
}

// RequiredString returns the value of the string flag name of cmd, failing when it is empty.
func RequiredString(cmd *cobra.Command, name string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	if v == "" {
		return "", fmt.Errorf("required flag \"%s\" not set", name)
	}

	return v, nil
}
