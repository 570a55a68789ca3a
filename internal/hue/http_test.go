package hue_test

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

	"github.com/dokzlo13/huectl/internal/hue"
)

func newBridge(t *testing.T, handler http.HandlerFunc) *hue.HTTPTransport {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	return hue.NewHTTPTransport(
		strings.TrimPrefix(srv.URL, "https://"),
		"secret",
		hue.WithRateLimit(0),
		hue.WithTimeout(2*time.Second),
	)
}

func TestHTTPTransport_Get(t *testing.T) {
	transport := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/secret/lights/1", r.URL.Path)
		_, _ = w.Write([]byte(`{"name":"Desk"}`))
	})

	body, err := transport.Get(context.Background(), "lights/1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Desk"}`, string(body))
}

func TestHTTPTransport_PutSendsBody(t *testing.T) {
	transport := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/secret/lights/1/state", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"on":true}`, string(data))
		_, _ = w.Write([]byte(`[{"success":{"/lights/1/state/on":true}}]`))
	})

	_, err := transport.Put(context.Background(), "lights/1/state", []byte(`{"on":true}`))
	require.NoError(t, err)
}

func TestHTTPTransport_StatusError(t *testing.T) {
	transport := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := transport.Delete(context.Background(), "groups/3")
	var transportErr *hue.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.MethodDelete, transportErr.Method)
	assert.Equal(t, "groups/3", transportErr.Path)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPTransport_ConnectionFailure(t *testing.T) {
	transport := hue.NewHTTPTransport("127.0.0.1:1", "secret", hue.WithTimeout(time.Second))

	_, err := transport.Get(context.Background(), "lights")
	var transportErr *hue.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestHTTPTransport_EndToEndWithCore(t *testing.T) {
	transport := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"5": {"name":"Kitchen","lights":["1"],"type":"Room","state":{"all_on":false,"any_on":true},"action":{"on":true}}}`))
	})

	groups, err := hue.ListGroups(context.Background(), transport)
	require.NoError(t, err)
	require.Contains(t, groups, 5)
	assert.Equal(t, 5, groups[5].ID())
	assert.True(t, groups[5].Status.AnyOn)
}
