package provisioning

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/searchprov/internal/platform/cluster"
	"github.com/imamik/searchprov/internal/platform/sigv4"
	"github.com/imamik/searchprov/internal/request"
)

// Signer produces signature headers for an encoded request.
// Implemented by sigv4.Signer.
type Signer interface {
	Sign(ctx context.Context, in sigv4.Input) (http.Header, error)
}

// Dispatcher sends one request and returns the complete response.
// Implemented by cluster.Client.
type Dispatcher interface {
	Do(req *http.Request) (*cluster.Response, error)
}

// Executor runs request lists against one cluster endpoint.
type Executor struct {
	endpoint   cluster.Endpoint
	signer     Signer
	dispatcher Dispatcher
	logger     logr.Logger
	metrics    *Metrics
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the executor's logger.
func WithLogger(logger logr.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithMetrics records per-request and per-run metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// NewExecutor creates an executor for the given endpoint.
func NewExecutor(endpoint cluster.Endpoint, signer Signer, dispatcher Dispatcher, opts ...Option) *Executor {
	e := &Executor{
		endpoint:   endpoint,
		signer:     signer,
		dispatcher: dispatcher,
		logger:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes requests in order and stops at the first failure.
// Per-request errors never escape; they end up in the returned Outcome.
func (e *Executor) Run(ctx context.Context, requests []request.Descriptor) Outcome {
	start := time.Now()
	outcome := Outcome{Status: StatusSuccess, Total: len(requests)}

	e.logger.Info("starting provisioning", "requests", len(requests), "endpoint", e.endpoint.String())

	for i, d := range requests {
		if outcome.Failed() {
			break
		}

		step := fmt.Sprintf("%d/%d", i+1, len(requests))
		outcome.Attempted++

		resp, err := e.runStep(ctx, step, d)
		if resp != nil {
			outcome.LastResponse = resp
		}
		if err != nil {
			outcome.Status = StatusFailure
			outcome.Err = &StepError{Index: i, Request: d.String(), Err: err}
			continue
		}
		outcome.Succeeded++
	}

	if outcome.Failed() {
		if skipped := outcome.Total - outcome.Attempted; skipped > 0 {
			e.logger.Info("skipped remaining requests", "skipped", skipped)
		}
		e.logger.Error(outcome.Err, "provisioning failed",
			"succeeded", outcome.Succeeded, "total", outcome.Total,
			"duration", time.Since(start).Round(time.Millisecond).String())
	} else {
		e.logger.Info("provisioning completed",
			"succeeded", outcome.Succeeded, "total", outcome.Total,
			"duration", time.Since(start).Round(time.Millisecond).String())
	}
	e.metrics.observeRun(outcome)

	return outcome
}

// runStep encodes, signs and dispatches one descriptor. A non-nil response
// is returned whenever the cluster answered, even with a rejection.
func (e *Executor) runStep(ctx context.Context, step string, d request.Descriptor) (*cluster.Response, error) {
	logger := e.logger.WithValues("step", step, "method", d.Method, "path", d.Path)

	enc, err := request.Encode(d)
	if err != nil {
		logger.Error(err, "request could not be encoded")
		e.metrics.observeRequest(methodLabel(d.Method), resultEncodingError, 0)
		return nil, err
	}

	header := enc.Header.Clone()
	signed, err := e.signer.Sign(ctx, sigv4.Input{
		Method: enc.Method,
		Host:   e.endpoint.Host,
		Path:   enc.Path,
		Header: header,
		Body:   enc.Body,
	})
	if err != nil {
		logger.Error(err, "request could not be signed")
		e.metrics.observeRequest(enc.Method, resultSigningError, 0)
		return nil, err
	}
	for k, values := range signed {
		header[k] = values
	}

	req, err := cluster.NewRequest(ctx, e.endpoint, enc.Method, enc.Path, header, enc.Body)
	if err != nil {
		logger.Error(err, "request could not be built")
		e.metrics.observeRequest(enc.Method, resultEncodingError, 0)
		return nil, &request.EncodingError{Request: d.String(), Reason: "build request", Err: err}
	}

	logger.Info("sending request",
		"target", enc.Path,
		"contentType", enc.ContentType,
		"body", request.Summary(enc.Body))

	sent := time.Now()
	resp, err := e.dispatcher.Do(req)
	elapsed := time.Since(sent)
	if err != nil {
		logger.Error(err, "request could not be delivered")
		e.metrics.observeRequest(enc.Method, resultTransportError, elapsed)
		return nil, err
	}

	if !resp.OK() {
		rejection := &ClusterRejection{StatusCode: resp.StatusCode, Body: resp.Body}
		logger.Error(rejection, "request rejected by cluster", "status", resp.StatusCode)
		e.metrics.observeRequest(enc.Method, resultRejected, elapsed)
		return resp, rejection
	}

	logger.Info("request succeeded", "status", resp.StatusCode, "duration", elapsed.Round(time.Millisecond).String())
	e.metrics.observeRequest(enc.Method, resultSuccess, elapsed)
	return resp, nil
}

// methodLabel keeps unvalidated methods out of metric labels.
func methodLabel(method string) string {
	if !request.IsSupportedMethod(method) {
		return methodInvalid
	}
	return strings.ToUpper(strings.TrimSpace(method))
}
