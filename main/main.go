// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ava-labs/orchestrator/app"
	"github.com/ava-labs/orchestrator/config"
	"github.com/ava-labs/orchestrator/utils/logging"
	"github.com/ava-labs/orchestrator/version"
)

var exitCode int

// main is the primary entry point to the orchestrator.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   version.Client,
		Short: "Reconciles the catch-up package this node resumes from",
		// Flags are parsed by the config package so that they can be merged
		// with the environment and the config file.
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE:               runOrchestrator,
	}
	cmd.AddCommand(newStatusCommand())
	return cmd
}

func runOrchestrator(_ *cobra.Command, args []string) error {
	fs := config.BuildFlagSet()
	v, err := config.BuildViper(fs, args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("couldn't configure flags: %w", err)
	}

	if v.GetBool(config.VersionKey) {
		fmt.Print(version.String)
		return nil
	}

	orchestratorConfig, err := config.GetConfig(v)
	if err != nil {
		return fmt.Errorf("couldn't load node config: %w", err)
	}

	logFactory := logging.NewFactory(orchestratorConfig.LoggingConfig)
	orchestratorApp, err := app.New(orchestratorConfig, logFactory)
	if err != nil {
		return fmt.Errorf("couldn't start orchestrator: %w", err)
	}

	exitCode = app.Run(orchestratorApp)
	return nil
}
