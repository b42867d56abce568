package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/searchprov/internal/request"
)

type fakeFetcher struct {
	data     []byte
	err      error
	location string
}

func (f *fakeFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	f.location = location
	return f.data, f.err
}

const yamlList = `requests:
  - method: PUT
    path: _template/example-index-template
    body:
      index_patterns: ["logs-*"]
      settings:
        number_of_shards: 1
  - method: POST
    path: _plugin/kibana/api/saved_objects/_import
    securitytenant: global
    filename: dashboard.ndjson
    body: |
      {"type":"dashboard","id":"d1"}
`

func TestParseRequests_YAML(t *testing.T) {
	t.Parallel()

	list, err := ParseRequests([]byte(yamlList))
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "PUT", list[0].Method)
	assert.Equal(t, request.BodyStructured, list[0].Body.Kind())
	assert.JSONEq(t, `{"index_patterns":["logs-*"],"settings":{"number_of_shards":1}}`, string(list[0].Body.Raw()))

	require.NotNil(t, list[1].Filename)
	assert.Equal(t, "dashboard.ndjson", *list[1].Filename)
	assert.Equal(t, "global", *list[1].SecurityTenant)
	text, ok := list[1].Body.Text()
	require.True(t, ok)
	assert.Equal(t, "{\"type\":\"dashboard\",\"id\":\"d1\"}\n", text)
}

func TestParseRequests_JSONKeepsKeyOrder(t *testing.T) {
	t.Parallel()

	list, err := ParseRequests([]byte(`[{"method":"PUT","path":"p","body":{"z":1,"a":2}}]`))
	require.NoError(t, err)
	require.Len(t, list, 1)

	enc, err := request.Encode(list[0])
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2}`, string(enc.Body))
}

func TestParseRequests_LegacyKey(t *testing.T) {
	t.Parallel()

	list, err := ParseRequests([]byte(`{"Requests":[{"method":"GET","path":"_cluster/health"}]}`))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "_cluster/health", list[0].Path)
}

func TestParseRequests_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "empty request list"},
		{"null", "null", "empty request list"},
		{"empty list", "requests: []", "empty request list"},
		{"missing method", "- path: x", "request 1: method is required"},
		{"missing path", "- method: GET", "request 1: path is required"},
		{"bad yaml", "requests: [", "failed to unmarshal yaml"},
		{"wrong shape", `{"requests": "nope"}`, "failed to decode request list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseRequests([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRequests_LocalFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "requests.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlList), 0o600))

	list, err := LoadRequests(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestLoadRequests_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadRequests(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read request list")
}

func TestLoadRequests_S3(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{data: []byte(yamlList)}
	list, err := LoadRequests(context.Background(), "s3://assets/requests.yaml", fetcher)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "s3://assets/requests.yaml", fetcher.location)

	_, err = LoadRequests(context.Background(), "s3://assets/requests.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no S3 client")

	_, err = LoadRequests(context.Background(), "s3://assets/requests.yaml", &fakeFetcher{err: errors.New("denied")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestLoadRequests_ShippedExample(t *testing.T) {
	t.Parallel()

	list, err := LoadRequests(context.Background(), filepath.Join("..", "..", "examples", "requests.yaml"), nil)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "_template/example-index-template", list[0].Path)
	assert.Equal(t, "api/kibana/dashboards/import", list[1].Path)
	require.NotNil(t, list[2].Filename)

	for _, d := range list {
		_, err := request.Encode(d)
		assert.NoError(t, err, d.String())
	}
}
