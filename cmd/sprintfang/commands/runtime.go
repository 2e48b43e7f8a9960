// Package commands implements the sprintfang subcommands.
package commands

import (
	"context"
	"time"

	"github.com/Sumatoshi-tech/sprintfang/internal/config"
	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
	"github.com/Sumatoshi-tech/sprintfang/internal/observability"
	"github.com/Sumatoshi-tech/sprintfang/pkg/version"
)

// configFlagUsage documents the shared --config flag.
const configFlagUsage = "path to config file (default: .sprintfang.yaml in CWD or $HOME)"

// newSource builds the dataset source configured by cfg.
func newSource(cfg *config.Config) *dataset.Source {
	return dataset.NewSource(cfg.Data.Source,
		dataset.WithTimeout(time.Duration(cfg.Data.Timeout)*time.Second))
}

// observabilityConfig maps the telemetry config section onto the
// observability init config for the given application mode.
func observabilityConfig(cfg *config.Config, mode observability.AppMode) observability.Config {
	ocfg := observability.DefaultConfig()
	ocfg.ServiceVersion = version.Version
	ocfg.Environment = cfg.Telemetry.Environment
	ocfg.Mode = mode
	ocfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	ocfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	ocfg.OTLPInsecure = cfg.Telemetry.Insecure
	ocfg.DebugTrace = cfg.Telemetry.DebugTrace
	ocfg.SampleRatio = cfg.Telemetry.SampleRatio
	ocfg.LogLevel = cfg.Telemetry.SlogLevel()
	ocfg.LogJSON = cfg.Telemetry.LogJSON

	return ocfg
}

// shutdownObservability flushes the providers, logging shutdown failures
// instead of overriding the command's own error.
func shutdownObservability(providers observability.Providers) {
	err := providers.Shutdown(context.Background())
	if err != nil {
		providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}
