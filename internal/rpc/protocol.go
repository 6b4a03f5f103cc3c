// Package rpc carries the control protocol: JSON-RPC 2.0 messages
// framed one per line over a Unix domain socket.
package rpc

import (
	"encoding/json"
	"fmt"
)

// Version is the JSON-RPC protocol version spoken on the socket.
const Version = "2.0"

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Error is a JSON-RPC error object. It doubles as a Go error so
// handlers can return one to pick the code that goes on the wire.
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Request is a call that expects a response. The id is kept raw and
// echoed back verbatim.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// Notification is a call without an id. It is never answered.
type Notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response answers one request with either a result or an error.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewRequest builds a request carrying a numeric id. Nil params stay
// off the wire.
func NewRequest(id int64, method string, params any) (*Request, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("encode id: %w", err)
	}
	return &Request{JSONRPC: Version, Method: method, Params: raw, ID: encoded}, nil
}

// NewNotification builds a fire-and-forget message.
func NewNotification(method string, params any) (*Notification, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Notification{JSONRPC: Version, Method: method, Params: raw}, nil
}

// NewResult builds a success response. A nil result encodes as null,
// which still satisfies the result-member requirement.
func NewResult(id json.RawMessage, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &Response{JSONRPC: Version, ID: echoID(id), Result: raw}, nil
}

// NewError builds an error response. Requests that never carried an
// id are answered with id 0.
func NewError(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      echoID(id),
		Error:   &Error{Code: code, Message: message},
	}
}

func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	return raw, nil
}

func echoID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("0")
	}
	return id
}

// Encode renders one message as a wire line, newline included.
func Encode(msg any) ([]byte, error) {
	line, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return append(line, '\n'), nil
}

// Decoded is the classified form of one wire line. Exactly one field
// is set. A line that parses as JSON but fits no shape classifies as
// a bare Response, which the server side rejects as invalid.
type Decoded struct {
	Request      *Request
	Notification *Notification
	Response     *Response
}

// Decode parses one wire line. A method with an id is a request, a
// method without one is a notification, everything else is a response.
func Decode(line []byte) (*Decoded, error) {
	var probe struct {
		Method string          `json:"method"`
		ID     json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	switch {
	case probe.Method != "" && probe.ID != nil:
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			return nil, fmt.Errorf("parse request: %w", err)
		}
		return &Decoded{Request: &req}, nil
	case probe.Method != "":
		var note Notification
		if err := json.Unmarshal(line, &note); err != nil {
			return nil, fmt.Errorf("parse notification: %w", err)
		}
		return &Decoded{Notification: &note}, nil
	default:
		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		return &Decoded{Response: &resp}, nil
	}
}
