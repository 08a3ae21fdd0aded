package transport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"net/url"

	"github.com/richard-senior/rpctree/internal/logger"
)

// TCPTransport is the C8b binding: one JSON-RPC object per frame, framed
// with a 4-byte big-endian length prefix over a single net.Conn, REQ/REP
// style - a read is always answered with exactly one write before the
// next read.
type TCPTransport struct {
	conn   net.Conn
	reader *bufio.Reader
}

// NewTCPTransport wraps an already-established connection.
func NewTCPTransport(conn net.Conn) *TCPTransport {
	return &TCPTransport{conn: conn, reader: bufio.NewReader(conn)}
}

// ReadRequest reads one length-prefixed frame.
func (t *TCPTransport) ReadRequest() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(t.reader, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(t.reader, body); err != nil {
		return nil, err
	}
	return body, nil
}

// WriteResponse writes one length-prefixed frame.
func (t *TCPTransport) WriteResponse(response []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(response)))
	if _, err := t.conn.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("transport: write tcp frame length: %w", err)
	}
	if _, err := t.conn.Write(response); err != nil {
		return fmt.Errorf("transport: write tcp frame body: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (t *TCPTransport) Close() error {
	return t.conn.Close()
}

// ListenTCP validates listenURI with NormalizeURI and binds a listener to
// its authority.
func ListenTCP(listenURI string) (net.Listener, error) {
	normalized, err := NormalizeURI(listenURI)
	if err != nil {
		return nil, fmt.Errorf("transport: tcp listen: %w", err)
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("transport: tcp listen: %w", err)
	}
	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("transport: tcp listen on %s: %w", u.Host, err)
	}
	logger.Info("tcp transport listening on %s", u.Host)
	return ln, nil
}

// DialTCP validates dialURI with NormalizeURI and connects to it.
func DialTCP(dialURI string) (net.Conn, error) {
	normalized, err := NormalizeURI(dialURI)
	if err != nil {
		return nil, fmt.Errorf("transport: tcp dial: %w", err)
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("transport: tcp dial: %w", err)
	}
	conn, err := net.Dial("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("transport: tcp dial %s: %w", u.Host, err)
	}
	return conn, nil
}
