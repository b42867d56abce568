package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/go-logr/logr"

	"github.com/imamik/searchprov/internal/util/retry"
)

// PhysicalResourceID is reported for every invocation so that updates never
// trigger a replacement of the resource.
const PhysicalResourceID = "TheOnlyCustomResource"

// maxReasonLength keeps the response document well below the 4 KiB limit.
const maxReasonLength = 1024

// ErrRequestsFailed is the failure reported when a request of the list failed.
var ErrRequestsFailed = errors.New("one of the requests failed, see logs")

// Reporter delivers the final outcome of an invocation. runErr is nil on
// success.
type Reporter interface {
	Report(ctx context.Context, ev Event, runErr error) error
}

// ErrorReporter reports through the handler's return value. The Lambda
// runtime then signals the failure to the orchestrator.
type ErrorReporter struct{}

func (ErrorReporter) Report(_ context.Context, _ Event, runErr error) error {
	return runErr
}

// CallbackReporter uploads a CloudFormation response document to the
// event's ResponseURL.
type CallbackReporter struct {
	client    *http.Client
	logger    logr.Logger
	attempts  int
	logStream string
	delay     time.Duration
}

// CallbackOption configures a CallbackReporter.
type CallbackOption func(*CallbackReporter)

// WithCallbackLogger sets the reporter's logger.
func WithCallbackLogger(logger logr.Logger) CallbackOption {
	return func(r *CallbackReporter) {
		r.logger = logger
	}
}

// WithCallbackAttempts sets how often a failed upload is attempted in total.
func WithCallbackAttempts(n int) CallbackOption {
	return func(r *CallbackReporter) {
		r.attempts = n
	}
}

// WithRetryDelay sets the delay before the first repeated upload.
func WithRetryDelay(d time.Duration) CallbackOption {
	return func(r *CallbackReporter) {
		r.delay = d
	}
}

// WithLogStream names the log stream referenced in the response reason.
func WithLogStream(name string) CallbackOption {
	return func(r *CallbackReporter) {
		r.logStream = name
	}
}

// NewCallbackReporter creates a reporter using client for the upload.
func NewCallbackReporter(client *http.Client, opts ...CallbackOption) *CallbackReporter {
	if client == nil {
		client = http.DefaultClient
	}
	r := &CallbackReporter{
		client:   client,
		logger:   logr.Discard(),
		attempts: 3,
		delay:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Response builds the response document for ev.
func (r *CallbackReporter) Response(ev Event, runErr error) cfn.Response {
	resp := cfn.Response{
		Status:             cfn.StatusSuccess,
		RequestID:          ev.RequestID,
		LogicalResourceID:  ev.LogicalResourceID,
		StackID:            ev.StackID,
		PhysicalResourceID: PhysicalResourceID,
	}
	var reason string
	if runErr != nil {
		resp.Status = cfn.StatusFailed
		reason = truncate(runErr.Error(), maxReasonLength)
	}
	if r.logStream != "" {
		if reason != "" {
			reason += "; "
		}
		reason += "See the details in CloudWatch Log Stream: " + r.logStream
	}
	resp.Reason = reason
	return resp
}

// Report uploads the outcome. The returned error is only about the upload;
// a failed run that was delivered successfully returns nil.
func (r *CallbackReporter) Report(ctx context.Context, ev Event, runErr error) error {
	if ev.ResponseURL == "" {
		return errors.New("event has no ResponseURL")
	}

	doc := r.Response(ev, runErr)
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode response document: %w", err)
	}

	logger := r.logger.WithValues("status", doc.Status, "physicalResourceId", doc.PhysicalResourceID)
	err = retry.Do(ctx, func(ctx context.Context) error {
		return r.put(ctx, ev.ResponseURL, payload)
	},
		retry.WithAttempts(r.attempts),
		retry.WithInitialDelay(r.delay),
		retry.WithOnRetry(func(attempt int, err error) {
			logger.Info("response upload failed, retrying", "attempt", attempt, "error", err.Error())
		}),
	)
	if err != nil {
		logger.Error(err, "failed to send response to CloudFormation")
		return fmt.Errorf("failed to send response: %w", err)
	}

	logger.Info("response sent to CloudFormation")
	return nil
}

func (r *CallbackReporter) put(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return retry.Fatal(err)
	}
	// The pre-signed URL was issued without a content type.
	req.Header["Content-Type"] = []string{""}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500:
		return fmt.Errorf("response upload: status %d", resp.StatusCode)
	default:
		return retry.Fatal(fmt.Errorf("response upload: status %d", resp.StatusCode))
	}
}

// SelectReporter picks the callback reporter when the event carries a
// ResponseURL and fallback otherwise.
func SelectReporter(ev Event, callback *CallbackReporter, fallback Reporter) Reporter {
	if ev.ResponseURL != "" && callback != nil {
		return callback
	}
	return fallback
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
