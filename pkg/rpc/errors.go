package rpc

import (
	"errors"
	"fmt"
)

// ParseError reports malformed JSON in the request string.
func ParseError() *Error {
	return &Error{Code: CodeParse, Message: "Parse error"}
}

// InvalidRequestError reports a request object that fails schema validation.
func InvalidRequestError() *Error {
	return &Error{Code: CodeInvalidRequest, Message: "Invalid Request"}
}

// MethodNotFoundError reports that the named method has no sync or async
// implementation registered against the service.
func MethodNotFoundError(method string) *Error {
	return &Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("Method not found: %s", method)}
}

// InvalidParamsError reports an arity or name mismatch in parameter binding.
// detail is copied into Data so the client can distinguish a dispatch
// failure from a runtime failure.
func InvalidParamsError(detail string) *Error {
	return &Error{Code: CodeInvalidParams, Message: "Invalid params", Data: detail}
}

// InternalError wraps an implementation failure. message is formatted into
// the wire message exactly as the distillation source's internal_error
// classmethod does: "Internal error: <detail>".
func InternalError(detail string) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf("Internal error: %s", detail)}
}

// errNotSupported is the fixed literal used for methods that exist in a
// service's method table but are not implemented - mirroring the source's
// NotImplementedError handling in invoke_sync, which discards the raised
// exception's own message in favour of this literal.
const errNotSupported = "method not supported in this service"

// NotSupportedError reports a method that is registered but deliberately
// unimplemented (the façade's error(txid) RPC, for instance).
func NotSupportedError() *Error {
	return InternalError(errNotSupported)
}

// BindError marks a parameter-binding failure so the dispatcher can
// classify it as invalid-params instead of a generic internal error,
// mirroring the source's invoke_sync catching TypeError specifically.
type BindError struct {
	Detail string
}

func (e *BindError) Error() string { return e.Detail }

// NotSupported marks an implementation failure as "not supported in this
// service", mirroring the source's NotImplementedError, whose message
// text invoke_sync discards in favour of the fixed literal.
type NotSupported struct{}

func (e *NotSupported) Error() string { return errNotSupported }

// classify turns an implementation-returned error into the wire Error the
// dispatcher attaches to a response or records into the handle table.
func classify(err error) *Error {
	var bindErr *BindError
	if errors.As(err, &bindErr) {
		return InvalidParamsError(bindErr.Detail)
	}
	var notSupported *NotSupported
	if errors.As(err, &notSupported) {
		return NotSupportedError()
	}
	return InternalError(err.Error())
}
