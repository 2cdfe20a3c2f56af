// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ava-labs/orchestrator/api/info"
	"github.com/ava-labs/orchestrator/config"
	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
)

const (
	uriKey     = "uri"
	timeoutKey = "timeout"
)

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Prints the catch-up package accepted by a running orchestrator",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
	flags := cmd.Flags()
	flags.String(uriKey, "http://127.0.0.1:"+strconv.Itoa(config.DefaultHTTPPort), "URI of the orchestrator's HTTP API")
	flags.Duration(timeoutKey, 10*time.Second, "Timeout of the status requests")
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	uri, err := flags.GetString(uriKey)
	if err != nil {
		return err
	}
	timeout, err := flags.GetDuration(timeoutKey)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := info.NewClient(uri)
	nodeID, subnetID, err := client.GetNodeID(ctx)
	if err != nil {
		return fmt.Errorf("couldn't fetch node ID: %w", err)
	}
	pkg, err := client.GetCatchUpPackage(ctx)
	if err != nil {
		return fmt.Errorf("couldn't fetch catch-up package: %w", err)
	}
	return printStatus(cmd.OutOrStdout(), nodeID, subnetID, pkg)
}

func printStatus(w io.Writer, nodeID ids.NodeID, subnetID ids.ID, pkg *cup.CatchUpPackage) error {
	_, err := fmt.Fprintf(w,
		"node:             %s\n"+
			"subnet:           %s\n"+
			"cup:              %s\n"+
			"height:           %d\n"+
			"registry version: %d\n"+
			"signed:           %t\n",
		nodeID,
		subnetID,
		pkg.ID(),
		pkg.Height,
		pkg.RegistryVersion,
		pkg.IsSigned(),
	)
	return err
}
