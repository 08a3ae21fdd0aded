// Package config parses the command-line flags that select a transport
// binding and its parameters, matching cmd/mcp/main.go's stdlib flag-based
// CLI idiom - no external flag/config library appears anywhere in the
// example pack.
package config

import "flag"

// Transport names one of the three bindings a service can be driven over.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportTCP   Transport = "tcp"
	TransportHTTP  Transport = "http"
)

// Config holds the parsed command-line configuration for the rpctree CLI.
type Config struct {
	Transport Transport
	Listen    string
	Debug     bool
	Input     string
	Output    string
	Args      []string
}

// Parse parses args (typically os.Args[1:]) into a Config.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("rpctree", flag.ContinueOnError)
	transport := fs.String("transport", string(TransportStdio), "transport binding: stdio, tcp or http")
	listen := fs.String("listen", "tcp://127.0.0.1:8080", "listen/dial address for the tcp and http transports")
	debug := fs.Bool("debug", false, "log a debug notice at startup; the logger level stays at INFO, so debug lines are not printed")
	input := fs.String("input", "", "input file path (recorded in Config only; the stdio transport always reads stdin)")
	output := fs.String("output", "", "output file path (recorded in Config only; the stdio transport always writes stdout)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Config{
		Transport: Transport(*transport),
		Listen:    *listen,
		Debug:     *debug,
		Input:     *input,
		Output:    *output,
		Args:      fs.Args(),
	}, nil
}
