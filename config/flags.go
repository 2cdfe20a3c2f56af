// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/ava-labs/orchestrator/api/catchup"
	"github.com/ava-labs/orchestrator/trace"
	"github.com/ava-labs/orchestrator/version"
)

const (
	DefaultHTTPPort = 8080

	defaultPollFrequency        = 10 * time.Second
	defaultFetchTimeout         = 10 * time.Second
	defaultHealthCheckFreq      = 30 * time.Second
	defaultCUPEndpointRateLimit = 10
	defaultCUPEndpointBurst     = 20
)

// DataDirVar is the environment variable the default sub-directories are
// relative to. It expands to the value of DataDirKey.
const DataDirVar = "ORCHESTRATOR_DATA_DIR"

var (
	defaultDataDir = filepath.Join("$HOME", "."+version.Client)
	defaultCUPDir  = filepath.Join("$"+DataDirVar, "cups")
	defaultLogDir  = filepath.Join("$"+DataDirVar, "logs")
)

func addOrchestratorFlags(fs *pflag.FlagSet) {
	fs.Bool(VersionKey, false, "If true, print version and quit")
	fs.String(ConfigFileKey, "", "Specifies a config file")
	fs.String(DataDirKey, defaultDataDir, "Sets the base data directory where default sub-directories will be placed unless otherwise specified.")

	// Identity
	fs.String(NodeIDKey, "", "NodeID of this node. Must be set")
	fs.String(SubnetIDKey, "", "ID of the subnet whose catch-up package is reconciled. Must be set")

	// Catch-up packages
	fs.String(CUPDirKey, defaultCUPDir, "Directory the accepted catch-up package is persisted to")
	fs.String(RegistryFileKey, "", "Path to the registry snapshot file. Must be set")
	fs.Duration(PollFrequencyKey, defaultPollFrequency, "Frequency of catch-up package reconciliation")
	fs.Duration(FetchTimeoutKey, defaultFetchTimeout, "Timeout of a single catch-up package request to a peer")
	fs.Float64(CUPEndpointRateLimitKey, defaultCUPEndpointRateLimit, fmt.Sprintf("Maximum number of requests per second served on %s. If non-positive, requests are not limited", catchup.Path))
	fs.Int(CUPEndpointBurstKey, defaultCUPEndpointBurst, fmt.Sprintf("Maximum burst of requests served on %s", catchup.Path))

	// HTTP APIs
	fs.String(HTTPHostKey, "127.0.0.1", "Address of the HTTP server. If the address is empty or a literal unspecified IP address, the server will bind on all available unicast and anycast IP addresses of the local system")
	fs.Uint(HTTPPortKey, DefaultHTTPPort, "Port of the HTTP server")
	fs.StringSlice(HTTPAllowedOriginsKey, []string{"*"}, "Origins to allow on the HTTP port")
	fs.Bool(HTTPAccessLogEnabledKey, false, "If true, requests to the HTTP server are written to the http log")

	// Health
	fs.Duration(HealthCheckFreqKey, defaultHealthCheckFreq, "Time between health checks")

	// Logging
	fs.String(LogsDirKey, defaultLogDir, "Logging directory")
	fs.String(LogLevelKey, "info", "The log level. Should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogDisplayLevelKey, "", fmt.Sprintf("The log display level. If left blank, will inherit the value of %s. Otherwise, should be one of {verbo, debug, trace, info, warn, error, fatal, off}", LogLevelKey))
	fs.String(LogFormatKey, "auto", "The structure of log format. Defaults to 'auto' which formats terminal-like logs, when the output is a terminal. Otherwise, should be one of {auto, plain, colors, json}")
	fs.Uint(LogRotaterMaxSizeKey, 8, "The maximum file size in megabytes of the log file before it gets rotated.")
	fs.Uint(LogRotaterMaxFilesKey, 7, "The maximum number of old log files to retain. 0 means retain all old log files.")
	fs.Uint(LogRotaterMaxAgeKey, 0, "The maximum number of days to retain old log files based on the timestamp encoded in their filename. 0 means retain all old log files.")
	fs.Bool(LogRotaterCompressEnabled, false, "Enables the compression of rotated log files through gzip.")
	fs.Bool(LogDisableDisplayKey, false, "Disables displaying logs on stdout.")

	// Tracing
	fs.String(TracingExporterTypeKey, trace.Disabled.String(), fmt.Sprintf("Type of exporter to use for tracing. Options are [%s, %s, %s]", trace.Disabled, trace.GRPC, trace.HTTP))
	fs.String(TracingEndpointKey, "", "The endpoint to send trace data to. If unspecified, the default endpoint of the exporter is used")
	fs.Bool(TracingInsecureKey, true, "If true, don't use TLS when sending trace data")
	fs.Float64(TracingSampleRateKey, 0.1, "The fraction of traces to sample. If >= 1, always sample. If <= 0, never sample")
	fs.StringToString(TracingHeadersKey, map[string]string{}, "The headers to provide the trace indexer")
}

// BuildFlagSet returns a complete set of flags for the orchestrator.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(version.Client, pflag.ContinueOnError)
	addOrchestratorFlags(fs)
	return fs
}
