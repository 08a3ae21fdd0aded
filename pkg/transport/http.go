package transport

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/richard-senior/rpctree/internal/logger"
	"github.com/richard-senior/rpctree/pkg/rpc"
)

// HTTPTransport is the C8c binding: a net/http handler implementing
// spec.md §6.2 exactly, multiplexing a URL-path-keyed service table with
// trailing-slash normalization (both /foo and /foo/ resolve to the same
// dispatcher).
//
// Ported from inocybe_jsonrpc/httpd.py's JsonRpcHandler: POST only, 404 on
// an unknown path, 415 on the wrong content type, 411 on a missing
// Content-Length, 200 with the dispatcher's own response body otherwise.
type HTTPTransport struct {
	mu       sync.RWMutex
	services map[string]*rpc.Dispatcher
}

// NewHTTPTransport returns an empty path-keyed transport; register
// services onto it with Register before calling ServeHTTP.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{services: make(map[string]*rpc.Dispatcher)}
}

// Register binds a Dispatcher to a URL path. The path is stored with its
// trailing slash stripped, matching the normalization ServeHTTP applies to
// incoming requests.
func (t *HTTPTransport) Register(path string, d *rpc.Dispatcher) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.services[normalizeHTTPPath(path)] = d
}

func normalizeHTTPPath(path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// ServeHTTP implements http.Handler.
func (t *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	t.mu.RLock()
	d, ok := t.services[normalizeHTTPPath(r.URL.Path)]
	t.mu.RUnlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	mediaType := r.Header.Get("Content-Type")
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	if strings.TrimSpace(mediaType) != "application/json" {
		http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
		return
	}

	if r.ContentLength < 0 && r.Header.Get("Content-Length") == "" {
		http.Error(w, "length required", http.StatusLengthRequired)
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		logger.Error("failed to read request body: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	resp := d.HandleRequest(body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp); err != nil {
		logger.Error("failed to write response: %v", err)
	}
}

// decodeBody reads r.Body, transparently undoing gzip/deflate/brotli
// Content-Encoding. HTTP/2 and intermediary-proxied clients may compress a
// JSON-RPC body even over a loopback service boundary; generalized from
// the teacher's client-side gzip/deflate/brotli decompression idiom to the
// server side of this binding.
func decodeBody(r *http.Request) ([]byte, error) {
	var reader io.Reader = r.Body
	switch strings.ToLower(r.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			return nil, fmt.Errorf("transport: open gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(r.Body)
	case "deflate":
		reader = flate.NewReader(r.Body)
	case "", "identity":
		// reader already set to r.Body
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("transport: read request body: %w", err)
	}
	return b, nil
}
