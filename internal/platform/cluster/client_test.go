package cluster

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpointFor(t *testing.T, srv *httptest.Server) Endpoint {
	t.Helper()
	ep, err := ParseEndpoint(srv.URL)
	require.NoError(t, err)
	return ep
}

func TestClient_Do(t *testing.T) {
	t.Parallel()

	var gotBody, gotTenant, gotPath string
	var gotLength int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotTenant = r.Header.Get("securitytenant")
		gotPath = r.URL.RequestURI()
		gotLength = r.ContentLength
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("securitytenant", "logs-tenant")

	req, err := NewRequest(context.Background(), endpointFor(t, srv), http.MethodDelete, "/idx/_doc/1?refresh=true", header, []byte(`{"x":"ü"}`))
	require.NoError(t, err)

	resp, err := NewClient().Do(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, resp.OK())
	assert.Equal(t, `{"acknowledged":true}`, resp.Body)
	assert.Equal(t, `{"x":"ü"}`, gotBody)
	assert.Equal(t, int64(len(`{"x":"ü"}`)), gotLength)
	assert.Equal(t, "logs-tenant", gotTenant)
	assert.Equal(t, "/idx/_doc/1?refresh=true", gotPath)
}

func TestClient_DoNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"no permissions"}`))
	}))
	defer srv.Close()

	req, err := NewRequest(context.Background(), endpointFor(t, srv), http.MethodGet, "/", nil, nil)
	require.NoError(t, err)

	resp, err := NewClient().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, resp.OK())
	assert.Contains(t, resp.Body, "no permissions")
}

func TestClient_DoesNotFollowRedirects(t *testing.T) {
	t.Parallel()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, err := NewRequest(context.Background(), endpointFor(t, srv), http.MethodGet, "/start", nil, nil)
	require.NoError(t, err)

	resp, err := NewClient().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 1, hits)
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	ep := endpointFor(t, srv)
	srv.Close()

	req, err := NewRequest(context.Background(), ep, http.MethodGet, "/", nil, nil)
	require.NoError(t, err)

	_, err = NewClient().Do(req)
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.Contains(t, err.Error(), "GET "+ep.String())
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	req, err := NewRequest(context.Background(), endpointFor(t, srv), http.MethodGet, "/", nil, nil)
	require.NoError(t, err)

	_, err = NewClient(WithTimeout(50 * time.Millisecond)).Do(req)
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
}

func TestClient_WithHTTPClient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ep := endpointFor(t, srv)
	assert.Equal(t, "https", ep.Scheme)

	req, err := NewRequest(context.Background(), ep, http.MethodGet, "/", nil, nil)
	require.NoError(t, err)

	resp, err := NewClient(WithHTTPClient(srv.Client())).Do(req)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Nil(t, srv.Client().CheckRedirect, "caller's client must not be modified")
}

func TestParseEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Endpoint
		wantErr string
	}{
		{"search-demo.eu-west-1.es.amazonaws.com", Endpoint{"https", "search-demo.eu-west-1.es.amazonaws.com"}, ""},
		{"https://search-demo.eu-west-1.es.amazonaws.com/", Endpoint{"https", "search-demo.eu-west-1.es.amazonaws.com"}, ""},
		{"http://127.0.0.1:9200", Endpoint{"http", "127.0.0.1:9200"}, ""},
		{"", Endpoint{}, "empty"},
		{"ftp://host", Endpoint{}, "unsupported scheme"},
		{"https://host/sub", Endpoint{}, "must not contain a path"},
		{"https://", Endpoint{}, "missing host"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseEndpoint(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
