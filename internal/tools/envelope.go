package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"finlab-mcp/internal/protocol"
)

// Fault is a categorized tool failure. The category gives the caller a
// short label to tell argument mistakes apart from upstream engine
// problems; the wrapped error keeps the original message.
type Fault struct {
	Category string
	Err      error
}

func (f *Fault) Error() string { return f.Err.Error() }
func (f *Fault) Unwrap() error { return f.Err }

// Fault categories.
const (
	CategoryMissingField    = "MissingField"
	CategoryInvalidArgument = "InvalidArgument"
	CategoryProxyFailure    = "ProxyFailure"
	CategoryInternal        = "InternalError"
)

func missingField(field string) error {
	return &Fault{
		Category: CategoryMissingField,
		Err:      fmt.Errorf("缺少必要參數: %s", field),
	}
}

func invalidArgument(err error) error {
	return &Fault{Category: CategoryInvalidArgument, Err: err}
}

func proxyFailure(err error) error {
	return &Fault{Category: CategoryProxyFailure, Err: err}
}

// faultEnvelope renders any handler failure into the uniform text
// envelope. Nothing raised inside a handler ever crosses the protocol
// boundary as a hard error.
func faultEnvelope(err error) protocol.CallToolResult {
	category := CategoryInternal
	var f *Fault
	if errors.As(err, &f) {
		category = f.Category
	}
	return protocol.ErrorResult(fmt.Sprintf(
		"執行工具時發生錯誤: %s\n\n詳細錯誤:\n%s: %s", err, category, err))
}

// decode marshals the argument bag back to JSON and unmarshals it into
// the tool's typed input struct.
func decode[T any](args map[string]any) (T, error) {
	var input T
	raw, err := json.Marshal(args)
	if err != nil {
		return input, invalidArgument(fmt.Errorf("encoding arguments: %w", err))
	}
	if err := json.Unmarshal(raw, &input); err != nil {
		return input, invalidArgument(fmt.Errorf("decoding arguments: %w", err))
	}
	return input, nil
}
