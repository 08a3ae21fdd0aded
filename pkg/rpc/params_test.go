package rpc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindPositional(t *testing.T) {
	var a, b int
	err := Bind(json.RawMessage(`[1,2]`), []string{"a", "b"}, &a, &b)
	require.NoError(t, err)
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestBindNamed(t *testing.T) {
	var a, b int
	err := Bind(json.RawMessage(`{"a":1,"b":2}`), []string{"a", "b"}, &a, &b)
	require.NoError(t, err)
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestBindArityMismatchIsBindError(t *testing.T) {
	var a, b int
	err := Bind(json.RawMessage(`[1]`), []string{"a", "b"}, &a, &b)
	require.Error(t, err)
	var bindErr *BindError
	assert.True(t, errors.As(err, &bindErr))
}

func TestBindUnknownNamedParameter(t *testing.T) {
	var a int
	err := Bind(json.RawMessage(`{"a":1,"c":2}`), []string{"a"}, &a)
	require.Error(t, err)
	var bindErr *BindError
	assert.True(t, errors.As(err, &bindErr))
}

func TestBindMissingNamedParameter(t *testing.T) {
	var a, b int
	err := Bind(json.RawMessage(`{"a":1}`), []string{"a", "b"}, &a, &b)
	require.Error(t, err)
}

func TestBindAbsentParamsWithNoNames(t *testing.T) {
	err := Bind(nil, nil)
	assert.NoError(t, err)
}

func TestBindAbsentParamsWithNames(t *testing.T) {
	var a int
	err := Bind(nil, []string{"a"}, &a)
	require.Error(t, err)
}

func TestClassifyDistinguishesErrorKinds(t *testing.T) {
	bindErr := classify(&BindError{Detail: "bad arg"})
	assert.Equal(t, CodeInvalidParams, bindErr.Code)
	assert.Equal(t, "bad arg", bindErr.Data)

	notSupported := classify(&NotSupported{})
	assert.Equal(t, CodeInternal, notSupported.Code)

	generic := classify(errors.New("boom"))
	assert.Equal(t, CodeInternal, generic.Code)
	assert.Equal(t, "Internal error: boom", generic.Message)
}
