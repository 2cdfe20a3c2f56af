// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	ConfigFileKey             = "config-file"
	VersionKey                = "version"
	DataDirKey                = "data-dir"
	CUPDirKey                 = "cup-dir"
	RegistryFileKey           = "registry-file"
	NodeIDKey                 = "node-id"
	SubnetIDKey               = "subnet-id"
	HTTPHostKey               = "http-host"
	HTTPPortKey               = "http-port"
	HTTPAllowedOriginsKey     = "http-allowed-origins"
	HTTPAccessLogEnabledKey   = "http-access-log-enabled"
	CUPEndpointRateLimitKey   = "cup-endpoint-rate-limit"
	CUPEndpointBurstKey       = "cup-endpoint-burst"
	PollFrequencyKey          = "poll-frequency"
	FetchTimeoutKey           = "fetch-timeout"
	HealthCheckFreqKey        = "health-check-frequency"
	LogsDirKey                = "log-dir"
	LogLevelKey               = "log-level"
	LogDisplayLevelKey        = "log-display-level"
	LogFormatKey              = "log-format"
	LogRotaterMaxSizeKey      = "log-rotater-max-size"
	LogRotaterMaxFilesKey     = "log-rotater-max-files"
	LogRotaterMaxAgeKey       = "log-rotater-max-age"
	LogRotaterCompressEnabled = "log-rotater-compress-enabled"
	LogDisableDisplayKey      = "log-disable-display"
	TracingExporterTypeKey    = "tracing-exporter-type"
	TracingEndpointKey        = "tracing-endpoint"
	TracingInsecureKey        = "tracing-insecure"
	TracingSampleRateKey      = "tracing-sample-rate"
	TracingHeadersKey         = "tracing-headers"
)
