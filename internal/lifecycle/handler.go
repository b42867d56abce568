package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/searchprov/internal/config"
	"github.com/imamik/searchprov/internal/provisioning"
	"github.com/imamik/searchprov/internal/request"
)

// Runner executes a request list. Implemented by provisioning.Executor.
type Runner interface {
	Run(ctx context.Context, requests []request.Descriptor) provisioning.Outcome
}

// ConfigLoader resolves the configuration of one invocation.
type ConfigLoader func(ctx context.Context) (*config.Config, error)

// RunnerFactory builds the runner for a resolved configuration.
type RunnerFactory func(cfg *config.Config, logger logr.Logger) Runner

// Handler serves custom resource invocations.
type Handler struct {
	loadConfig ConfigLoader
	newRunner  RunnerFactory
	callback   *CallbackReporter
	fallback   Reporter
	logger     logr.Logger

	// reportTimeout is kept free at the end of the invocation deadline.
	reportTimeout time.Duration
}

// DefaultReportTimeout bounds the delivery of the outcome.
const DefaultReportTimeout = 10 * time.Second

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler's logger.
func WithLogger(logger logr.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithCallbackReporter sets the reporter used for events with a ResponseURL.
func WithCallbackReporter(r *CallbackReporter) Option {
	return func(h *Handler) {
		h.callback = r
	}
}

// WithReportTimeout sets how long reporting the outcome may take. The same
// amount is cut from the invocation deadline before provisioning starts.
func WithReportTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.reportTimeout = d
		}
	}
}

// DefaultRunnerFactory builds a provisioning.Executor from the configuration.
func DefaultRunnerFactory(cfg *config.Config, logger logr.Logger) Runner {
	return provisioning.NewExecutorFromConfig(cfg, provisioning.WithLogger(logger))
}

// NewHandler creates a handler. Configuration is loaded anew on every
// invocation.
func NewHandler(loadConfig ConfigLoader, newRunner RunnerFactory, opts ...Option) *Handler {
	h := &Handler{
		loadConfig: loadConfig,
		newRunner:  newRunner,
		fallback:   ErrorReporter{},
		logger:     logr.Discard(),

		reportTimeout: DefaultReportTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.callback == nil {
		h.callback = NewCallbackReporter(nil, WithCallbackLogger(h.logger))
	}
	return h
}

// Handle processes one invocation and reports its outcome exactly once.
func (h *Handler) Handle(ctx context.Context, ev Event) error {
	logger := h.logger.WithValues(
		"requestType", ev.RequestType,
		"requestId", ev.RequestID,
		"logicalResourceId", ev.LogicalResourceID)
	reporter := SelectReporter(ev, h.callback, h.fallback)

	runCtx, cancelRun := h.runContext(ctx)
	runErr := h.execute(runCtx, logger, ev)
	cancelRun()
	if runErr != nil {
		logger.Error(runErr, "invocation failed")
	}

	// The outcome is reported even when the invocation context has expired.
	reportCtx, cancelReport := context.WithTimeout(context.WithoutCancel(ctx), h.reportTimeout)
	defer cancelReport()
	return reporter.Report(reportCtx, ev, runErr)
}

// runContext ends provisioning reportTimeout before the invocation deadline.
func (h *Handler) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, deadline.Add(-h.reportTimeout))
}

func (h *Handler) execute(ctx context.Context, logger logr.Logger, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provisioning panicked: %v", r)
		}
	}()

	if !ev.Runs() {
		logger.Info("nothing to do for lifecycle event")
		return nil
	}

	props, err := ev.Properties()
	if err != nil {
		return err
	}

	cfg, err := h.loadConfig(ctx)
	if err != nil {
		return err
	}
	logger.V(1).Info("configuration loaded", "config", cfg.String())

	outcome := h.newRunner(cfg, logger).Run(ctx, props.Requests)
	if outcome.Failed() {
		return fmt.Errorf("%w: %w", ErrRequestsFailed, outcome.Err)
	}
	return nil
}
