package transport

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCPTransportRoundTripsOneFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serverSide := NewTCPTransport(server)
	clientSide := NewTCPTransport(client)

	payload := []byte(`{"jsonrpc":"2.0","method":"ping","id":1}`)
	done := make(chan error, 1)
	go func() { done <- clientSide.WriteResponse(payload) }()

	got, err := serverSide.ReadRequest()
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.Equal(t, payload, got)
}

func TestTCPTransportRoundTripsMultipleFrames(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	serverSide := NewTCPTransport(server)
	clientSide := NewTCPTransport(client)

	frames := [][]byte{[]byte(`{"a":1}`), []byte(`{"b":2}`)}
	go func() {
		for _, f := range frames {
			clientSide.WriteResponse(f)
		}
	}()

	for _, want := range frames {
		got, err := serverSide.ReadRequest()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestListenTCPRejectsInvalidURI(t *testing.T) {
	_, err := ListenTCP("http://127.0.0.1:0")
	assert.Error(t, err)
}

func TestDialTCPRejectsInvalidURI(t *testing.T) {
	_, err := DialTCP("not-a-uri::bad")
	assert.Error(t, err)
}

func TestListenAndDialTCPRoundTrip(t *testing.T) {
	ln, err := ListenTCP("tcp://127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		require.NoError(t, err)
		accepted <- conn
	}()

	conn, err := DialTCP("tcp://" + ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	server := <-accepted
	defer server.Close()

	serverSide := NewTCPTransport(server)
	clientSide := NewTCPTransport(conn)

	payload := []byte(`{"jsonrpc":"2.0","method":"ping","id":1}`)
	go clientSide.WriteResponse(payload)

	got, err := serverSide.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
