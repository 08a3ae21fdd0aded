// Command rpctree launches one of the demo JSON-RPC services over a
// selected transport binding. Adapted from cmd/mcp/main.go's flag/stdin/
// args CLI idiom, extended with a -transport flag selecting stdio/tcp/http
// (interface shape ported from httpd.py's ArgumentParser-based launcher
// and uri.py's Uri.arg CLI integration).
package main

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"

	"github.com/richard-senior/rpctree/cmd/rpctree/services"
	"github.com/richard-senior/rpctree/internal/config"
	"github.com/richard-senior/rpctree/internal/logger"
	"github.com/richard-senior/rpctree/pkg/datatree"
	"github.com/richard-senior/rpctree/pkg/rpc"
	"github.com/richard-senior/rpctree/pkg/transport"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		logger.Fatal("failed to parse flags: %v", err)
	}

	logger.SetShowDateTime(true)
	if cfg.Debug {
		logger.Debug("debug logging enabled")
	}

	service := selectService(cfg)
	if service == "" {
		logger.Fatal("no service named; pass a positional argument selecting echo/math/keyval/tree")
	}

	d := rpc.NewDispatcher(resolveService(service))

	switch cfg.Transport {
	case config.TransportStdio:
		runStdio(d)
	case config.TransportTCP:
		runTCP(d, cfg.Listen)
	case config.TransportHTTP:
		runHTTP(d, cfg.Listen, service)
	default:
		logger.Fatal("unknown transport %q", string(cfg.Transport))
	}
}

// selectService picks a demo service name from the CLI's positional
// arguments, defaulting to echo when none is given.
func selectService(cfg *config.Config) string {
	if len(cfg.Args) > 0 {
		return cfg.Args[0]
	}
	return "echo"
}

func resolveService(name string) rpc.Service {
	switch name {
	case "math":
		return services.NewMath()
	case "keyval":
		return services.NewKeyval()
	case "tree":
		return services.NewTree(datatree.NewMemStore())
	default:
		return services.NewEcho()
	}
}

func runStdio(d *rpc.Dispatcher) {
	t := transport.NewStdioTransport()
	for {
		req, err := t.ReadRequest()
		if err != nil {
			logger.Info("stdio transport closing: %v", err)
			return
		}
		if err := t.WriteResponse(d.HandleRequest(req)); err != nil {
			logger.Error("failed to write stdio response: %v", err)
			return
		}
	}
}

func runTCP(d *rpc.Dispatcher, listenURI string) {
	ln, err := transport.ListenTCP(listenURI)
	if err != nil {
		logger.Fatal("failed to start tcp transport: %v", err)
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			logger.Error("failed to accept tcp connection: %v", err)
			continue
		}
		go serveTCPConn(d, conn)
	}
}

func serveTCPConn(d *rpc.Dispatcher, conn net.Conn) {
	defer conn.Close()
	t := transport.NewTCPTransport(conn)
	for {
		req, err := t.ReadRequest()
		if err != nil {
			logger.Info("tcp connection closing: %v", err)
			return
		}
		if err := t.WriteResponse(d.HandleRequest(req)); err != nil {
			logger.Error("failed to write tcp response: %v", err)
			return
		}
	}
}

func runHTTP(d *rpc.Dispatcher, listenURI string, path string) {
	normalized, err := transport.NormalizeURI(listenURI)
	if err != nil {
		logger.Fatal("failed to normalize http listen uri: %v", err)
	}

	u, err := url.Parse(normalized)
	if err != nil {
		logger.Fatal("failed to derive http listen address: %v", err)
	}

	ht := transport.NewHTTPTransport()
	ht.Register(fmt.Sprintf("/%s", path), d)

	logger.Info("http transport listening on %s", u.Host)
	if err := http.ListenAndServe(u.Host, ht); err != nil {
		logger.Fatal("http transport failed: %v", err)
	}
}
