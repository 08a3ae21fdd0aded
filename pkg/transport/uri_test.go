package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURIAcceptsTCP(t *testing.T) {
	got, err := NormalizeURI("tcp://127.0.0.1:8080")
	require.NoError(t, err)
	assert.Equal(t, "tcp://127.0.0.1:8080", got)
}

func TestNormalizeURICanonicalizesZMQToTCP(t *testing.T) {
	got, err := NormalizeURI("zmq://127.0.0.1:5555")
	require.NoError(t, err)
	assert.Equal(t, "tcp://127.0.0.1:5555", got)
}

func TestNormalizeURIAcceptsRootPath(t *testing.T) {
	got, err := NormalizeURI("tcp://127.0.0.1:8080/")
	require.NoError(t, err)
	assert.Equal(t, "tcp://127.0.0.1:8080", got)
}

func TestNormalizeURIRejectsUnknownScheme(t *testing.T) {
	_, err := NormalizeURI("http://127.0.0.1:8080")
	assert.Error(t, err)
}

func TestNormalizeURIRejectsEmptyHost(t *testing.T) {
	_, err := NormalizeURI("tcp://")
	assert.Error(t, err)
}

func TestNormalizeURIRejectsNonRootPath(t *testing.T) {
	_, err := NormalizeURI("tcp://127.0.0.1:8080/some/path")
	assert.Error(t, err)
}

func TestNormalizeURIRejectsQuery(t *testing.T) {
	_, err := NormalizeURI("tcp://127.0.0.1:8080?foo=bar")
	assert.Error(t, err)
}

func TestNormalizeURIRejectsFragment(t *testing.T) {
	_, err := NormalizeURI("tcp://127.0.0.1:8080#frag")
	assert.Error(t, err)
}

func TestNormalizeURIReportsAllBadPartsTogether(t *testing.T) {
	_, err := NormalizeURI("http://127.0.0.1:8080/path?q=1#frag")
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "protocol")
	assert.Contains(t, msg, "path")
	assert.Contains(t, msg, "query")
	assert.Contains(t, msg, "fragment")
}
