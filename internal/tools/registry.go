// Package tools declares the FinLab tool set and dispatches tool calls.
// The set is closed: four tools, selected by an exhaustive switch, so
// adding or removing one is a compile-time-visible change.
package tools

import (
	"finlab-mcp/internal/protocol"
	"finlab-mcp/internal/schema"
)

// Tool names. These are the only values tools/call will route.
const (
	NameGetStockData          = "get_stock_data"
	NameBacktestStrategy      = "backtest_strategy"
	NameGetTechnicalIndicator = "get_technical_indicator"
	NameCheckAPIToken         = "check_api_token"
)

// Registry holds the static tool descriptors served by tools/list.
// Schemas are generated once from the tool input structs; the registry is
// immutable after construction.
type Registry struct {
	descriptors []protocol.Tool
}

// NewRegistry builds the fixed descriptor list in declaration order.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: []protocol.Tool{
			{
				Name:        NameGetStockData,
				Description: descGetStockData,
				InputSchema: schema.Generate[StockDataInput](),
			},
			{
				Name:        NameBacktestStrategy,
				Description: descBacktestStrategy,
				InputSchema: schema.Generate[BacktestInput](),
			},
			{
				Name:        NameGetTechnicalIndicator,
				Description: descGetTechnicalIndicator,
				InputSchema: schema.Generate[IndicatorInput](),
			},
			{
				Name:        NameCheckAPIToken,
				Description: descCheckAPIToken,
				InputSchema: schema.Generate[CheckTokenInput](),
			},
		},
	}
}

// Descriptors returns the tool list in declaration order. The slice is a
// copy; callers cannot mutate the registry.
func (r *Registry) Descriptors() []protocol.Tool {
	out := make([]protocol.Tool, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}
