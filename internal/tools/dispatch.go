package tools

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"finlab-mcp/internal/finlab"
	"finlab-mcp/internal/protocol"
)

// msgEngineUnavailable is returned for every tool except the token check
// when the FinLab engine failed to initialize at startup.
const msgEngineUnavailable = "錯誤：FinLab 引擎未初始化。請設置 FINLAB_API_TOKEN 環境變數後重新啟動服務器。"

// Dispatcher routes tool calls to their handlers. It is fault-isolating:
// every outcome, including unknown tool names and handler panics, is
// rendered into a text envelope so one failing call never disturbs the
// next.
type Dispatcher struct {
	engine finlab.Engine
	logger zerolog.Logger
}

// NewDispatcher creates a Dispatcher. A nil engine puts every tool except
// check_api_token into the unavailable short-circuit.
func NewDispatcher(engine finlab.Engine, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{engine: engine, logger: logger}
}

// Invoke runs the named tool with the given argument bag. It never
// returns an error; failures come back inside the envelope.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) (result protocol.CallToolResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Str("tool", name).Any("panic", r).Msg("tool handler panicked")
			result = faultEnvelope(fmt.Errorf("tool %s panicked: %v", name, r))
		}
	}()

	d.logger.Debug().Str("tool", name).Msg("call_tool")

	if d.engine == nil && name != NameCheckAPIToken {
		return protocol.TextResult(msgEngineUnavailable)
	}

	var text string
	var err error
	switch name {
	case NameCheckAPIToken:
		text, err = d.checkAPIToken()
	case NameGetStockData:
		text, err = d.getStockData(ctx, args)
	case NameGetTechnicalIndicator:
		text, err = d.getTechnicalIndicator(ctx, args)
	case NameBacktestStrategy:
		text, err = d.backtestStrategy(ctx, args)
	default:
		return protocol.TextResult("未知的工具: " + name)
	}

	if err != nil {
		d.logger.Warn().Str("tool", name).Err(err).Msg("tool call failed")
		return faultEnvelope(err)
	}
	return protocol.TextResult(text)
}
