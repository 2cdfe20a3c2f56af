// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/trace"
	"github.com/ava-labs/orchestrator/utils/logging"
	"github.com/ava-labs/orchestrator/version"
)

var (
	errMissingNodeID       = errors.New("missing node ID")
	errMissingSubnetID     = errors.New("missing subnet ID")
	errMissingRegistryFile = errors.New("missing registry file")
	errInvalidPort         = errors.New("invalid port")
	errNonPositiveDuration = errors.New("duration must be positive")
	errNegativeBurst       = errors.New("burst must be non-negative")
	errInvalidSampleRate   = errors.New("trace sample rate must be in [0, 1]")
)

type HTTPConfig struct {
	Host             string   `json:"host"`
	Port             uint16   `json:"port"`
	AllowedOrigins   []string `json:"allowedOrigins"`
	AccessLogEnabled bool     `json:"accessLogEnabled"`
}

type CatchUpConfig struct {
	// Directory the accepted catch-up package is written to.
	Dir          string `json:"dir"`
	RegistryFile string `json:"registryFile"`

	PollFrequency time.Duration `json:"pollFrequency"`
	FetchTimeout  time.Duration `json:"fetchTimeout"`

	// Rate limit of the catch-up package endpoint served to peers.
	EndpointRateLimit float64 `json:"endpointRateLimit"`
	EndpointBurst     int     `json:"endpointBurst"`
}

// Config is the complete configuration of an orchestrator.
type Config struct {
	NodeID   ids.NodeID `json:"nodeID"`
	SubnetID ids.ID     `json:"subnetID"`

	HealthCheckFreq time.Duration `json:"healthCheckFreq"`

	HTTPConfig    HTTPConfig     `json:"httpConfig"`
	CatchUpConfig CatchUpConfig  `json:"catchUpConfig"`
	LoggingConfig logging.Config `json:"loggingConfig"`
	TraceConfig   trace.Config   `json:"traceConfig"`
}

// BuildViper parses [args] with [fs] and binds the result to a new viper
// instance. Values are taken, in decreasing order of precedence, from the
// command line, ORCHESTRATOR_ prefixed environment variables, the config file
// and the flag defaults.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(version.Client)
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if v.GetString(ConfigFileKey) != "" {
		v.SetConfigFile(getExpandedArg(v, ConfigFileKey))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("couldn't read config file: %w", err)
		}
	}
	return v, nil
}

// GetConfig resolves and validates the configuration held by [v].
func GetConfig(v *viper.Viper) (Config, error) {
	var (
		config Config
		err    error
	)

	config.NodeID, err = getNodeID(v)
	if err != nil {
		return Config{}, err
	}
	config.SubnetID, err = getSubnetID(v)
	if err != nil {
		return Config{}, err
	}
	config.HealthCheckFreq = v.GetDuration(HealthCheckFreqKey)
	if config.HealthCheckFreq <= 0 {
		return Config{}, fmt.Errorf("%w: %s is %s", errNonPositiveDuration, HealthCheckFreqKey, config.HealthCheckFreq)
	}
	config.HTTPConfig, err = getHTTPConfig(v)
	if err != nil {
		return Config{}, err
	}
	config.CatchUpConfig, err = getCatchUpConfig(v)
	if err != nil {
		return Config{}, err
	}
	config.LoggingConfig, err = getLoggingConfig(v)
	if err != nil {
		return Config{}, err
	}
	config.TraceConfig, err = getTraceConfig(v)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

func getNodeID(v *viper.Viper) (ids.NodeID, error) {
	nodeIDStr := v.GetString(NodeIDKey)
	if nodeIDStr == "" {
		return ids.EmptyNodeID, fmt.Errorf("%w: %s must be set", errMissingNodeID, NodeIDKey)
	}
	nodeID, err := ids.NodeIDFromString(nodeIDStr)
	if err != nil {
		return ids.EmptyNodeID, fmt.Errorf("couldn't parse %s %q: %w", NodeIDKey, nodeIDStr, err)
	}
	return nodeID, nil
}

func getSubnetID(v *viper.Viper) (ids.ID, error) {
	subnetIDStr := v.GetString(SubnetIDKey)
	if subnetIDStr == "" {
		return ids.Empty, fmt.Errorf("%w: %s must be set", errMissingSubnetID, SubnetIDKey)
	}
	subnetID, err := ids.FromString(subnetIDStr)
	if err != nil {
		return ids.Empty, fmt.Errorf("couldn't parse %s %q: %w", SubnetIDKey, subnetIDStr, err)
	}
	return subnetID, nil
}

func getHTTPConfig(v *viper.Viper) (HTTPConfig, error) {
	port := v.GetUint(HTTPPortKey)
	if port > math.MaxUint16 {
		return HTTPConfig{}, fmt.Errorf("%w: %s is %d", errInvalidPort, HTTPPortKey, port)
	}
	return HTTPConfig{
		Host:             v.GetString(HTTPHostKey),
		Port:             uint16(port),
		AllowedOrigins:   v.GetStringSlice(HTTPAllowedOriginsKey),
		AccessLogEnabled: v.GetBool(HTTPAccessLogEnabledKey),
	}, nil
}

func getCatchUpConfig(v *viper.Viper) (CatchUpConfig, error) {
	config := CatchUpConfig{
		Dir:               getExpandedArg(v, CUPDirKey),
		RegistryFile:      getExpandedArg(v, RegistryFileKey),
		PollFrequency:     v.GetDuration(PollFrequencyKey),
		FetchTimeout:      v.GetDuration(FetchTimeoutKey),
		EndpointRateLimit: v.GetFloat64(CUPEndpointRateLimitKey),
		EndpointBurst:     v.GetInt(CUPEndpointBurstKey),
	}
	switch {
	case config.RegistryFile == "":
		return CatchUpConfig{}, fmt.Errorf("%w: %s must be set", errMissingRegistryFile, RegistryFileKey)
	case config.PollFrequency <= 0:
		return CatchUpConfig{}, fmt.Errorf("%w: %s is %s", errNonPositiveDuration, PollFrequencyKey, config.PollFrequency)
	case config.FetchTimeout <= 0:
		return CatchUpConfig{}, fmt.Errorf("%w: %s is %s", errNonPositiveDuration, FetchTimeoutKey, config.FetchTimeout)
	case config.EndpointBurst < 0:
		return CatchUpConfig{}, fmt.Errorf("%w: %s is %d", errNegativeBurst, CUPEndpointBurstKey, config.EndpointBurst)
	}
	return config, nil
}

func getLoggingConfig(v *viper.Viper) (logging.Config, error) {
	loggingConfig := logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   int(v.GetUint(LogRotaterMaxSizeKey)),
			MaxFiles:  int(v.GetUint(LogRotaterMaxFilesKey)),
			MaxAge:    int(v.GetUint(LogRotaterMaxAgeKey)),
			Directory: getExpandedArg(v, LogsDirKey),
			Compress:  v.GetBool(LogRotaterCompressEnabled),
		},
		DisableWriterDisplaying: v.GetBool(LogDisableDisplayKey),
	}

	var err error
	loggingConfig.LogLevel, err = logging.ToLevel(v.GetString(LogLevelKey))
	if err != nil {
		return loggingConfig, err
	}

	logDisplayLevel := v.GetString(LogDisplayLevelKey)
	if logDisplayLevel == "" {
		logDisplayLevel = v.GetString(LogLevelKey)
	}
	loggingConfig.DisplayLevel, err = logging.ToLevel(logDisplayLevel)
	if err != nil {
		return loggingConfig, err
	}

	loggingConfig.LogFormat, err = logging.ToFormat(v.GetString(LogFormatKey), os.Stdout.Fd())
	return loggingConfig, err
}

func getTraceConfig(v *viper.Viper) (trace.Config, error) {
	exporterType, err := trace.ExporterTypeFromString(v.GetString(TracingExporterTypeKey))
	if err != nil {
		return trace.Config{}, err
	}
	sampleRate := v.GetFloat64(TracingSampleRateKey)
	if sampleRate < 0 || sampleRate > 1 {
		return trace.Config{}, fmt.Errorf("%w: %s is %f", errInvalidSampleRate, TracingSampleRateKey, sampleRate)
	}
	return trace.Config{
		ExporterConfig: trace.ExporterConfig{
			Type:     exporterType,
			Endpoint: v.GetString(TracingEndpointKey),
			Insecure: v.GetBool(TracingInsecureKey),
			Headers:  v.GetStringMapString(TracingHeadersKey),
		},
		TraceSampleRate: sampleRate,
		AppName:         version.Client,
		Version:         version.Current.String(),
	}, nil
}

// getExpandedArg gets the string in viper corresponding to [key] and expands
// any variables using the OS env. If the DataDirVar var is used, it expands
// the value of the variable with the value of DataDirKey in viper.
func getExpandedArg(v *viper.Viper, key string) string {
	return getExpandedString(v, v.GetString(key))
}

func getExpandedString(v *viper.Viper, s string) string {
	return os.Expand(
		s,
		func(strVar string) string {
			if strVar == DataDirVar {
				return os.ExpandEnv(v.GetString(DataDirKey))
			}
			return os.Getenv(strVar)
		},
	)
}
