// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package
// and can be tested without the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/imamik/searchprov/internal/config"
	"github.com/imamik/searchprov/internal/logging"
	"github.com/imamik/searchprov/internal/platform/s3"
	"github.com/imamik/searchprov/internal/provisioning"
	"github.com/imamik/searchprov/internal/request"
)

// Runner matches provisioning.Executor.
type Runner interface {
	Run(ctx context.Context, requests []request.Descriptor) provisioning.Outcome
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig resolves domain, region and credentials.
	loadConfig = func(ctx context.Context, v *viper.Viper) (*config.Config, error) {
		return config.Load(ctx, v)
	}

	// newFetcher creates the client used for s3:// request lists.
	newFetcher = func(cfg *config.Config) config.Fetcher {
		return s3.NewClient(s3.Options{Region: cfg.Region, Credentials: cfg.Credentials})
	}

	// newRunner creates the executor for a configuration.
	newRunner = func(cfg *config.Config, opts ...provisioning.Option) Runner {
		return provisioning.NewExecutorFromConfig(cfg, opts...)
	}

	// newLogger creates the CLI logger.
	newLogger = func(debug bool) (logr.Logger, func()) {
		return logging.New(logging.Options{Debug: debug})
	}
)

// ApplyOptions holds the apply command's flags.
type ApplyOptions struct {
	File        string
	MetricsFile string
	Out         io.Writer
}

// Apply runs a request list against the configured domain.
//
// The run stops at the first failed request. A summary is printed in
// either case, and the metrics file, if requested, is written before the
// failure is returned.
func Apply(ctx context.Context, v *viper.Viper, opts ApplyOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	logger, flush := newLogger(v.GetBool(config.KeyDebug))
	defer flush()

	cfg, err := loadConfig(ctx, v)
	if err != nil {
		return err
	}
	logger.V(1).Info("configuration loaded", "config", cfg.String())

	requests, err := config.LoadRequests(ctx, opts.File, newFetcher(cfg))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	runner := newRunner(cfg,
		provisioning.WithLogger(logger),
		provisioning.WithMetrics(provisioning.NewMetrics(reg)))

	outcome := runner.Run(ctx, requests)

	fmt.Fprint(out, renderApplySummary(cfg.Endpoint.String(), requests, outcome))

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, reg); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
	}

	if outcome.Failed() {
		return fmt.Errorf("provisioning failed after %d of %d requests: %w",
			outcome.Succeeded, outcome.Total, outcome.Err)
	}
	return nil
}
