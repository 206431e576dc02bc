// Package finlab talks to the FinLab quantitative trading engine. The
// adapter treats it as an opaque capability with three operations: data
// lookup, indicator computation, and backtest simulation.
package finlab

import (
	"context"
	"errors"

	"finlab-mcp/internal/frame"
)

// TokenEnv is the environment variable carrying the FinLab API token.
const TokenEnv = "FINLAB_API_TOKEN"

// ErrTokenMissing is returned when the API token is not configured.
var ErrTokenMissing = errors.New("finlab: " + TokenEnv + " not set")

// BacktestRequest carries a simulation request. The pointer fields are
// overrides forwarded to the engine only when set; leaving one nil keeps
// the engine's default, which is not the same as passing zero.
type BacktestRequest struct {
	Position   *frame.Frame
	Resample   string
	StopLoss   *float64
	TakeProfit *float64
	FeeRatio   *float64
	TaxRatio   *float64
}

// Report summarizes a completed backtest. Stats holds the engine's full
// statistics mapping; the named fields are the headline figures pulled
// out of it.
type Report struct {
	CAGR             float64
	Sharpe           float64
	MaxDrawdown      float64
	WinRate          float64
	Trades           int
	AnnualVolatility float64
	FinalValue       float64
	Stats            map[string]any
}

// Engine is the capability the tool layer delegates to. Implementations
// may block on network I/O; all methods honor context cancellation.
type Engine interface {
	// GetData fetches one data column, e.g. table "price", column "收盤價".
	// Rows are dates, columns are stock IDs.
	GetData(ctx context.Context, table, column string) (*frame.Frame, error)

	// Indicator computes a technical indicator. Multi-valued indicators
	// (e.g. MACD) return more than one frame.
	Indicator(ctx context.Context, name string, params map[string]any) ([]*frame.Frame, error)

	// RunBacktest simulates the given position matrix.
	RunBacktest(ctx context.Context, req BacktestRequest) (*Report, error)
}
