package provisioning

import (
	"errors"
	"fmt"

	"github.com/imamik/searchprov/internal/platform/cluster"
)

// Status is the aggregate result of a run.
type Status string

const (
	// StatusSuccess means every request was accepted by the cluster.
	StatusSuccess Status = "success"
	// StatusFailure means one request failed and the rest were skipped.
	StatusFailure Status = "failure"
)

// Outcome is the single result of Executor.Run.
type Outcome struct {
	Status Status

	Total     int // descriptors in the list
	Attempted int // descriptors processed, including the failing one
	Succeeded int

	// LastResponse is the last answer received from the cluster, if any.
	LastResponse *cluster.Response

	// Err is a *StepError when Status is StatusFailure.
	Err error
}

// Failed reports whether the run failed.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailure
}

// StepError attributes a failure to one descriptor of the list.
type StepError struct {
	Index   int
	Request string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("request %d (%s): %v", e.Index+1, e.Request, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ClusterRejection is a response outside the 2xx range.
type ClusterRejection struct {
	StatusCode int
	Body       string
}

func (e *ClusterRejection) Error() string {
	return fmt.Sprintf("request failed: status %d: %s", e.StatusCode, e.Body)
}

// IsClusterRejection checks if err is or wraps a ClusterRejection.
func IsClusterRejection(err error) bool {
	var rej *ClusterRejection
	return errors.As(err, &rej)
}
