package transport

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/richard-senior/rpctree/pkg/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoDispatcher() *rpc.Dispatcher {
	table := rpc.NewMethodTable()
	table.Sync["ping"] = func(params json.RawMessage) (any, error) { return "pong", nil }
	return rpc.NewDispatcher(table)
}

func TestHTTPTransportRejectsNonPost(t *testing.T) {
	tr := NewHTTPTransport()
	tr.Register("/echo", newEchoDispatcher())

	req := httptest.NewRequest("GET", "/echo", nil)
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)
	assert.Equal(t, 405, rec.Code)
}

func TestHTTPTransportUnknownPathIs404(t *testing.T) {
	tr := NewHTTPTransport()
	tr.Register("/echo", newEchoDispatcher())

	body := strings.NewReader(`{"jsonrpc":"2.0","method":"ping","id":1}`)
	req := httptest.NewRequest("POST", "/nope", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)
	assert.Equal(t, 404, rec.Code)
}

func TestHTTPTransportTrailingSlashNormalizes(t *testing.T) {
	tr := NewHTTPTransport()
	tr.Register("/echo/", newEchoDispatcher())

	body := strings.NewReader(`{"jsonrpc":"2.0","method":"ping","id":1}`)
	req := httptest.NewRequest("POST", "/echo", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
}

func TestHTTPTransportWrongContentTypeIs415(t *testing.T) {
	tr := NewHTTPTransport()
	tr.Register("/echo", newEchoDispatcher())

	body := strings.NewReader(`{"jsonrpc":"2.0","method":"ping","id":1}`)
	req := httptest.NewRequest("POST", "/echo", body)
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)
	assert.Equal(t, 415, rec.Code)
}

func TestHTTPTransportMissingContentLengthIs411(t *testing.T) {
	tr := NewHTTPTransport()
	tr.Register("/echo", newEchoDispatcher())

	body := strings.NewReader(`{"jsonrpc":"2.0","method":"ping","id":1}`)
	req := httptest.NewRequest("POST", "/echo", body)
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	req.Header.Del("Content-Length")
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)
	assert.Equal(t, 411, rec.Code)
}

func TestHTTPTransportSuccessReturnsDispatcherBody(t *testing.T) {
	tr := NewHTTPTransport()
	tr.Register("/echo", newEchoDispatcher())

	body := strings.NewReader(`{"jsonrpc":"2.0","method":"ping","id":1}`)
	req := httptest.NewRequest("POST", "/echo", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"pong"`)
}

func TestHTTPTransportAcceptsContentTypeWithCharset(t *testing.T) {
	tr := NewHTTPTransport()
	tr.Register("/echo", newEchoDispatcher())

	body := strings.NewReader(`{"jsonrpc":"2.0","method":"ping","id":1}`)
	req := httptest.NewRequest("POST", "/echo", body)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	tr.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
}
