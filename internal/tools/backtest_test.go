package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finlab-mcp/internal/finlab"
)

func testReport() *finlab.Report {
	return finlab.ReportFromStats(map[string]any{
		"cagr":              0.1234,
		"monthly_sharpe":    1.52,
		"max_drawdown":      -0.2345,
		"win_rate":          0.5678,
		"n_trades":          42.0,
		"annual_volatility": 0.189,
		"final_value":       1234567.0,
	})
}

func TestBacktestStrategy_Summary(t *testing.T) {
	engine := &fakeEngine{report: testReport()}
	d := newTestDispatcher(engine)

	result := d.Invoke(context.Background(), NameBacktestStrategy, map[string]any{
		"position_data": testSplit,
	})
	text := resultText(t, result)

	assert.False(t, result.IsError)
	assert.Contains(t, text, "📈 回測結果")
	assert.Contains(t, text, "年化報酬率 (CAGR): 12.34%")
	assert.Contains(t, text, "夏普比率 (Sharpe): 1.52")
	assert.Contains(t, text, "最大回撤 (MDD): -23.45%")
	assert.Contains(t, text, "勝率: 56.78%")
	assert.Contains(t, text, "總交易次數: 42")
	assert.Contains(t, text, "年化波動率: 18.90%")
	assert.Contains(t, text, "期末總資產: 1,234,567")
	// The full statistics mapping rides along.
	assert.Contains(t, text, "完整統計資料")
	assert.Contains(t, text, "monthly_sharpe")
}

func TestBacktestStrategy_DefaultsAndOverrides(t *testing.T) {
	engine := &fakeEngine{report: testReport()}
	d := newTestDispatcher(engine)

	d.Invoke(context.Background(), NameBacktestStrategy, map[string]any{
		"position_data": testSplit,
	})
	assert.Equal(t, "M", engine.lastBacktest.Resample)
	assert.Nil(t, engine.lastBacktest.StopLoss)
	assert.Nil(t, engine.lastBacktest.TakeProfit)
	assert.Nil(t, engine.lastBacktest.FeeRatio)
	assert.Nil(t, engine.lastBacktest.TaxRatio)

	d.Invoke(context.Background(), NameBacktestStrategy, map[string]any{
		"position_data": testSplit,
		"resample":      "W",
		"stop_loss":     0.0,
		"fee_ratio":     0.000475,
	})
	assert.Equal(t, "W", engine.lastBacktest.Resample)
	// An explicit zero is forwarded, not treated as omitted.
	require.NotNil(t, engine.lastBacktest.StopLoss)
	assert.Equal(t, 0.0, *engine.lastBacktest.StopLoss)
	require.NotNil(t, engine.lastBacktest.FeeRatio)
	assert.Equal(t, 0.000475, *engine.lastBacktest.FeeRatio)
	assert.Nil(t, engine.lastBacktest.TakeProfit)
}

func TestBacktestStrategy_MissingPositionData(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{report: testReport()})

	result := d.Invoke(context.Background(), NameBacktestStrategy, map[string]any{
		"resample": "D",
	})

	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, CategoryMissingField)
	assert.Contains(t, text, "position_data")
}

func TestBacktestStrategy_InvalidPositionJSON(t *testing.T) {
	d := newTestDispatcher(&fakeEngine{report: testReport()})

	result := d.Invoke(context.Background(), NameBacktestStrategy, map[string]any{
		"position_data": "{not valid json",
	})

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), CategoryInvalidArgument)
}

func TestBacktestStrategy_PositionReachesEngine(t *testing.T) {
	engine := &fakeEngine{report: testReport()}
	d := newTestDispatcher(engine)

	d.Invoke(context.Background(), NameBacktestStrategy, map[string]any{
		"position_data": testSplit,
	})
	require.NotNil(t, engine.lastBacktest.Position)
	assert.Equal(t, []string{"2330", "2317"}, engine.lastBacktest.Position.Columns)
}
