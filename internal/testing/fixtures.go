package testing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// Recorded is one request seen by a FakeDomain.
type Recorded struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

// FakeDomain records every request and answers with a configured status.
// A path status wins over the status sequence; the default is 200.
type FakeDomain struct {
	*httptest.Server

	mu       sync.Mutex
	received []Recorded
	byPath   map[string]int
	sequence []int
}

// FakeDomainOption configures a FakeDomain.
type FakeDomainOption func(*FakeDomain)

// WithPathStatus answers every request for path with status.
func WithPathStatus(path string, status int) FakeDomainOption {
	return func(d *FakeDomain) {
		d.byPath[path] = status
	}
}

// WithStatusSequence answers the n-th request with statuses[n], then 200.
func WithStatusSequence(statuses ...int) FakeDomainOption {
	return func(d *FakeDomain) {
		d.sequence = append(d.sequence, statuses...)
	}
}

// NewFakeDomain starts a fake domain. The caller must Close it.
func NewFakeDomain(opts ...FakeDomainOption) *FakeDomain {
	d := &FakeDomain{byPath: make(map[string]int)}
	for _, opt := range opts {
		opt(d)
	}
	d.Server = httptest.NewServer(http.HandlerFunc(d.serve))
	return d
}

func (d *FakeDomain) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	d.mu.Lock()
	d.received = append(d.received, Recorded{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     string(body),
	})
	status := http.StatusOK
	if len(d.sequence) > 0 {
		status, d.sequence = d.sequence[0], d.sequence[1:]
	}
	if s, ok := d.byPath[r.URL.Path]; ok {
		status = s
	}
	d.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status >= 200 && status < 300 {
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":` + strconv.Itoa(status) + `,"error":"` + http.StatusText(status) + `"}`))
}

// Received returns a copy of the requests seen so far.
func (d *FakeDomain) Received() []Recorded {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Recorded(nil), d.received...)
}

// Lines returns "METHOD path" for every request seen so far.
func (d *FakeDomain) Lines() []string {
	received := d.Received()
	lines := make([]string, 0, len(received))
	for _, r := range received {
		lines = append(lines, r.Method+" "+r.Path)
	}
	return lines
}
