package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// rawRequest mirrors the wire shape before any canonicalization, so that
// FormRequest can validate field presence and type independently of the
// final Request representation.
type rawRequest struct {
	JSONRPC  any             `json:"jsonrpc"`
	Method   any             `json:"method"`
	Params   json.RawMessage `json:"params"`
	ID       any             `json:"id"`
	Metadata json.RawMessage `json:"metadata"`
}

// decode parses raw bytes into v using a decoder configured with UseNumber
// so that version values such as 2 and 2.0 can be told apart from "2" and
// "2.0" the way the distillation source's ValueType hierarchy does.
func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// FormVersion canonicalizes a decoded jsonrpc field. Accepts the strings
// "2.0", "2" and the numbers 2.0, 2; returns the canonical string "2.0".
func FormVersion(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		if t == "2.0" || t == "2" {
			return Version, true
		}
	case json.Number:
		if t.String() == "2" || t.String() == "2.0" {
			return Version, true
		}
	case float64:
		if t == 2 || t == 2.0 {
			return Version, true
		}
	case int:
		if t == 2 {
			return Version, true
		}
	}
	return "", false
}

// FormMethod validates a decoded method field: it must be a non-empty
// string that does not begin with the reserved "rpc." prefix.
func FormMethod(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	if strings.HasPrefix(s, "rpc.") {
		return "", false
	}
	return s, true
}

// FormParams validates a decoded params value: absent, a list, or a
// mapping. Returns the raw bytes unchanged (dispatch decides positional
// vs. named binding from the JSON token type) and false only when params
// is present but neither array nor object.
func FormParams(raw json.RawMessage) (json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, true
	}
	switch trimmed[0] {
	case '[', '{':
		return raw, true
	default:
		return nil, false
	}
}

// FormMetadata validates a decoded metadata field: an object whose only
// recognized key is async, carrying any value. Booleans other than true
// are accepted at the form layer (false just means synchronous); binding
// to a concrete dispatch decision happens in the dispatcher.
func FormMetadata(raw json.RawMessage) (*Metadata, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	var m Metadata
	if err := decode(raw, &m); err != nil {
		return nil, false
	}
	return &m, true
}

// FormRequest validates raw bytes into a canonical Request, or returns a
// typed *Error (ParseError for malformed JSON, InvalidRequestError for a
// schema violation) ready to be serialized as the response.
func FormRequest(raw []byte) (*Request, *Error) {
	var rr rawRequest
	if err := decode(raw, &rr); err != nil {
		return nil, ParseError()
	}

	version, ok := FormVersion(rr.JSONRPC)
	if !ok {
		return nil, InvalidRequestError()
	}

	method, ok := FormMethod(rr.Method)
	if !ok {
		return nil, InvalidRequestError()
	}

	params, ok := FormParams(rr.Params)
	if !ok {
		return nil, InvalidRequestError()
	}

	metadata, ok := FormMetadata(rr.Metadata)
	if !ok {
		return nil, InvalidRequestError()
	}

	return &Request{
		JSONRPC:  version,
		Method:   method,
		Params:   params,
		ID:       rr.ID,
		Metadata: metadata,
	}, nil
}

// requireObjectParams is used by callers that bind params by name.
func requireObjectParams(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := decode(raw, &m); err != nil {
		return nil, fmt.Errorf("params is not an object: %w", err)
	}
	return m, nil
}

// requireArrayParams is used by callers that bind params positionally.
func requireArrayParams(raw json.RawMessage) ([]any, error) {
	if len(raw) == 0 {
		return []any{}, nil
	}
	var a []any
	if err := decode(raw, &a); err != nil {
		return nil, fmt.Errorf("params is not an array: %w", err)
	}
	return a, nil
}
