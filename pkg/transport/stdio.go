package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/richard-senior/rpctree/internal/logger"
)

// prettyPrintStdio, when true, writes each response exactly as the
// dispatcher produced it; when false, the response is compacted with
// json.Compact first. Neither setting indents the output.
const prettyPrintStdio = true

// StdioTransport is the C8a binding: a Dispatcher driven over stdin/stdout.
// Requests are pulled one at a time off a single long-lived json.Decoder, so
// whichever JSON value comes next on the stream - object or array, pretty
// printed or compact - is read in full and the remaining bytes stay buffered
// for the following call, with no delimiter or length prefix required.
type StdioTransport struct {
	decoder *json.Decoder
	writer  *bufio.Writer
}

// NewStdioTransport returns a transport wrapping os.Stdin/os.Stdout.
func NewStdioTransport() *StdioTransport {
	return &StdioTransport{
		decoder: json.NewDecoder(bufio.NewReader(os.Stdin)),
		writer:  bufio.NewWriter(os.Stdout),
	}
}

// ReadRequest decodes the next whole JSON value from stdin and returns its
// raw bytes, unparsed, for the Dispatcher to handle.
func (t *StdioTransport) ReadRequest() ([]byte, error) {
	logger.Debug("waiting for request on stdin")

	var raw json.RawMessage
	if err := t.decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			logger.Info("received EOF on stdin, client disconnected")
			return nil, io.EOF
		}
		logger.Error("error reading from stdin: %v", err)
		return nil, err
	}

	return bytes.TrimSpace(raw), nil
}

// WriteResponse writes one JSON-RPC response object to stdout, followed by
// a newline, and flushes.
func (t *StdioTransport) WriteResponse(response []byte) error {
	out := response
	if !prettyPrintStdio {
		var buf bytes.Buffer
		if err := json.Compact(&buf, response); err != nil {
			logger.Error("failed to compact response: %v", err)
			return err
		}
		out = buf.Bytes()
	}

	out = append(out, '\n')
	logger.Debug("sending response: %s", strings.TrimSpace(string(out)))

	if _, err := t.writer.Write(out); err != nil {
		logger.Error("failed to write response: %v", err)
		return err
	}
	if err := t.writer.Flush(); err != nil {
		logger.Error("failed to flush response: %v", err)
		return err
	}
	return nil
}
