package tools

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finlab-mcp/internal/finlab"
	"finlab-mcp/internal/frame"
	"finlab-mcp/internal/protocol"
)

// fakeEngine is a canned Engine for dispatcher tests.
type fakeEngine struct {
	data         *frame.Frame
	dataErr      error
	indicators   []*frame.Frame
	indicatorErr error
	report       *finlab.Report
	backtestErr  error

	lastBacktest finlab.BacktestRequest
}

func (f *fakeEngine) GetData(_ context.Context, _, _ string) (*frame.Frame, error) {
	return f.data, f.dataErr
}

func (f *fakeEngine) Indicator(_ context.Context, _ string, _ map[string]any) ([]*frame.Frame, error) {
	return f.indicators, f.indicatorErr
}

func (f *fakeEngine) RunBacktest(_ context.Context, req finlab.BacktestRequest) (*finlab.Report, error) {
	f.lastBacktest = req
	return f.report, f.backtestErr
}

const testSplit = `{"columns":["2330","2317"],"index":["2023-01-03","2023-01-04","2023-01-05"],"data":[[453.0,100.5],[458.5,101.0],[460.0,99.5]]}`

func testFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.Parse(testSplit)
	require.NoError(t, err)
	return f
}

// frames returns n copies of the test frame.
func frames(t *testing.T, n int) []*frame.Frame {
	t.Helper()
	out := make([]*frame.Frame, n)
	for i := range out {
		out[i] = testFrame(t)
	}
	return out
}

func newTestDispatcher(engine finlab.Engine) *Dispatcher {
	return NewDispatcher(engine, zerolog.Nop())
}

func resultText(t *testing.T, result protocol.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	return result.Content[0].Text
}

func TestInvoke_UnknownTool(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{data: testFrame(t)})

	result := d.Invoke(context.Background(), "does_not_exist", nil)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "未知的工具: does_not_exist")

	// A routing miss never affects subsequent calls.
	again := d.Invoke(context.Background(), NameGetStockData, map[string]any{
		"table": "price", "column": "close",
	})
	assert.False(t, again.IsError)
	assert.Contains(t, resultText(t, again), "成功獲取數據")
}

func TestInvoke_EngineUnavailableGating(t *testing.T) {
	d := newTestDispatcher(nil)

	for _, name := range []string{NameGetStockData, NameBacktestStrategy, NameGetTechnicalIndicator} {
		result := d.Invoke(context.Background(), name, nil)
		assert.Contains(t, resultText(t, result), "FinLab 引擎未初始化", name)
	}

	// The token check still answers without an engine.
	t.Setenv(finlab.TokenEnv, "")
	result := d.Invoke(context.Background(), NameCheckAPIToken, nil)
	assert.Contains(t, resultText(t, result), "未設置")
}

func TestInvoke_FaultIsolation(t *testing.T) {
	engine := &fakeEngine{dataErr: assert.AnError, data: nil}
	d := newTestDispatcher(engine)

	failed := d.Invoke(context.Background(), NameGetStockData, map[string]any{
		"table": "price", "column": "close",
	})
	assert.True(t, failed.IsError)
	assert.Contains(t, resultText(t, failed), CategoryProxyFailure)

	engine.dataErr = nil
	engine.data = testFrame(t)
	ok := d.Invoke(context.Background(), NameGetStockData, map[string]any{
		"table": "price", "column": "close",
	})
	assert.False(t, ok.IsError)
}

func TestInvoke_PanicIsNormalized(t *testing.T) {
	// A nil report dereference inside the handler must come back as an
	// envelope, not a crash.
	d := newTestDispatcher(&fakeEngine{report: nil})

	result := d.Invoke(context.Background(), NameBacktestStrategy, map[string]any{
		"position_data": testSplit,
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "執行工具時發生錯誤")

	// The dispatcher still serves the next call.
	t.Setenv(finlab.TokenEnv, "secret")
	next := d.Invoke(context.Background(), NameCheckAPIToken, nil)
	assert.False(t, next.IsError)
}
