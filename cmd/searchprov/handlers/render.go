package handlers

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/imamik/searchprov/internal/config"
	"github.com/imamik/searchprov/internal/request"
)

// renderedRequest is one encoded request in render output.
type renderedRequest struct {
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body,omitempty"`
}

// Render encodes a local request list and writes the result as YAML.
// Nothing is signed or sent.
func Render(ctx context.Context, file string, out io.Writer) error {
	requests, err := config.LoadRequests(ctx, file, nil)
	if err != nil {
		return err
	}

	rendered := make([]renderedRequest, 0, len(requests))
	for _, d := range requests {
		enc, err := request.Encode(d)
		if err != nil {
			return err
		}
		rendered = append(rendered, renderedRequest{
			Method:  enc.Method,
			Path:    enc.Path,
			Headers: flattenHeader(enc.Header),
			Body:    string(enc.Body),
		})
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(rendered); err != nil {
		return fmt.Errorf("failed to marshal requests: %w", err)
	}
	return enc.Close()
}

// flattenHeader keeps the first value per header; yaml sorts the keys.
func flattenHeader(h map[string][]string) map[string]string {
	flat := make(map[string]string, len(h))
	for k, values := range h {
		if len(values) > 0 {
			flat[k] = values[0]
		}
	}
	return flat
}
