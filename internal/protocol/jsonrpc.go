package protocol

import "encoding/json"

// JSON-RPC 2.0 framing for the MCP stdio transport. Messages are
// newline-delimited JSON objects; the ID may be a string, number, or null.

const Version = "2.0"

// Standard JSON-RPC 2.0 error codes, plus the MCP resource-not-found code.
const (
	CodeParseError       = -32700
	CodeInvalidRequest   = -32600
	CodeMethodNotFound   = -32601
	CodeInvalidParams    = -32602
	CodeInternalError    = -32603
	CodeResourceNotFound = -32002
)

// Request is an incoming JSON-RPC 2.0 request or notification.
// A notification carries no ID and must not be answered.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no ID.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// Response is an outgoing JSON-RPC 2.0 response. Exactly one of Result
// and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// ResponseError is the error member of a JSON-RPC 2.0 response.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewResponse builds a success response for the given request ID.
func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: Version, ID: id, Result: result}
}

// NewErrorResponse builds an error response for the given request ID.
func NewErrorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error:   &ResponseError{Code: code, Message: message},
	}
}
