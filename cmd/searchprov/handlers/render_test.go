package handlers

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRender(t *testing.T) {
	file := writeRequests(t, `
- method: put
  path: _template/t
  body: {"a": 1}
- method: POST
  path: _plugin/kibana/api/saved_objects/_import
  securitytenant: global
  filename: dashboard.ndjson
  body: X
`)

	var out bytes.Buffer
	require.NoError(t, Render(context.Background(), file, &out))

	var got []renderedRequest
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "PUT", got[0].Method)
	assert.Equal(t, "/_template/t", got[0].Path)
	assert.Equal(t, `{"a":1}`, got[0].Body)
	assert.Equal(t, "application/json", got[0].Headers["Content-Type"])
	assert.Equal(t, "7", got[0].Headers["Content-Length"])

	assert.Equal(t, "/_plugin/kibana/api/saved_objects/_import", got[1].Path)
	assert.Equal(t, "global", got[1].Headers["Securitytenant"])
	assert.Equal(t, "kibana", got[1].Headers["Kbn-Xsrf"])
	assert.Equal(t, "multipart/form-data; boundary=----MyBoundary", got[1].Headers["Content-Type"])
	assert.Contains(t, got[1].Body, `filename="dashboard.ndjson"`)
	assert.NotContains(t, out.String(), "Authorization")
}

func TestRender_EncodingError(t *testing.T) {
	file := writeRequests(t, "- method: PATCH\n  path: idx\n")

	err := Render(context.Background(), file, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported method")
}
