package sigv4

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// ServiceName is the signing name of the managed search service.
const ServiceName = "es"

// Input is everything the signature covers.
type Input struct {
	Method string
	Host   string
	Path   string // host-relative, may carry a query string
	Header http.Header
	Body   []byte
}

// Signer computes signature headers for cluster requests.
type Signer struct {
	credentials aws.CredentialsProvider
	region      string
	service     string
	signer      *v4.Signer
	now         func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithClock overrides the signing clock.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// WithService overrides the signing service name.
func WithService(name string) Option {
	return func(s *Signer) {
		s.service = name
	}
}

// New creates a signer for the given region using credentials from provider.
func New(provider aws.CredentialsProvider, region string, opts ...Option) *Signer {
	s := &Signer{
		credentials: provider,
		region:      region,
		service:     ServiceName,
		signer:      v4.NewSigner(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign returns the headers that authenticate the described request.
func (s *Signer) Sign(ctx context.Context, in Input) (http.Header, error) {
	creds, err := s.retrieve(ctx)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse("https://" + in.Host + in.Path)
	if err != nil {
		return nil, &SigningError{Err: fmt.Errorf("parse request URL: %w", err)}
	}

	req := &http.Request{
		Method:        in.Method,
		URL:           u,
		Host:          in.Host,
		Header:        in.Header.Clone(),
		ContentLength: int64(len(in.Body)),
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	req = req.WithContext(ctx)

	sum := sha256.Sum256(in.Body)
	if err := s.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(sum[:]), s.service, s.region, s.now().UTC()); err != nil {
		return nil, &SigningError{Err: err}
	}

	return addedHeaders(in.Header, req.Header), nil
}

func (s *Signer) retrieve(ctx context.Context) (aws.Credentials, error) {
	if s.credentials == nil {
		return aws.Credentials{}, ErrCredentialsUnavailable
	}
	creds, err := s.credentials.Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("%w: %v", ErrCredentialsUnavailable, err)
	}
	if !creds.HasKeys() {
		return aws.Credentials{}, ErrCredentialsUnavailable
	}
	return creds, nil
}

// addedHeaders returns the entries of signed that are missing from or
// different in orig.
func addedHeaders(orig, signed http.Header) http.Header {
	out := make(http.Header)
	for k, values := range signed {
		if equalValues(orig.Values(k), values) {
			continue
		}
		out[k] = append([]string(nil), values...)
	}
	return out
}

func equalValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
