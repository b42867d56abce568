package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/imamik/searchprov/internal/platform/s3"
	"github.com/imamik/searchprov/internal/request"
)

// Fetcher downloads a remote request list. Implemented by s3.Client.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// requestFile is the document form of a request list. The key matches the
// custom resource property, so the same document works for both.
type requestFile struct {
	Requests []request.Descriptor `json:"requests"`
}

// LoadRequests reads a request list from a local file or an s3:// location.
func LoadRequests(ctx context.Context, location string, remote Fetcher) ([]request.Descriptor, error) {
	var (
		data []byte
		err  error
	)
	if s3.IsLocation(location) {
		if remote == nil {
			return nil, fmt.Errorf("no S3 client available for %s", location)
		}
		data, err = remote.Fetch(ctx, location)
	} else {
		// #nosec G304
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read request list: %w", err)
	}

	requests, err := ParseRequests(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return requests, nil
}

// ParseRequests decodes a request list from JSON or YAML. Both a bare list
// and a document with a top-level "requests" key are accepted. JSON input
// keeps the key order of structured bodies; YAML input does not.
func ParseRequests(data []byte) ([]request.Descriptor, error) {
	if !json.Valid(data) {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
		data = converted
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errors.New("empty request list")
	}

	var requests []request.Descriptor
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &requests); err != nil {
			return nil, fmt.Errorf("failed to decode request list: %w", err)
		}
	} else {
		var doc requestFile
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode request list: %w", err)
		}
		requests = doc.Requests
	}

	if err := ValidateRequests(requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ValidateRequests checks the fields every descriptor must carry.
func ValidateRequests(requests []request.Descriptor) error {
	if len(requests) == 0 {
		return errors.New("empty request list")
	}
	for i, d := range requests {
		if d.Method == "" {
			return fmt.Errorf("request %d: method is required", i+1)
		}
		if d.Path == "" {
			return fmt.Errorf("request %d: path is required", i+1)
		}
	}
	return nil
}
