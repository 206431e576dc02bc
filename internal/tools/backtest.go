package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finlab-mcp/internal/finlab"
	"finlab-mcp/internal/frame"
)

const descBacktestStrategy = `執行回測策略。接收 position DataFrame 並回傳回測結果。

參數：
- position_data: Position DataFrame (JSON 格式，index 是日期，columns 是股票代碼)
- resample: 再平衡頻率 ("D"=每日, "W"=每週, "M"=每月)
- stop_loss: 停損比例 (如 0.08 代表 8%)
- take_profit: 停利比例 (如 0.15 代表 15%)
- fee_ratio: 手續費率 (預設 0.001425/3)
- tax_ratio: 交易稅率 (預設 0.003)

回傳包含年化報酬率、夏普比率、最大回撤等績效指標。
`

// BacktestInput is the argument schema for backtest_strategy. The
// override ratios are pointers: an omitted field stays nil and is not
// forwarded, since zero is itself a valid override.
type BacktestInput struct {
	PositionData string   `json:"position_data" jsonschema:"required,description=Position DataFrame 的 JSON 字串 (orient='split' 格式)"`
	Resample     string   `json:"resample,omitempty" jsonschema:"enum=D,enum=W,enum=M,default=M,description=再平衡頻率: D (每日)， W (每週)， M (每月)"`
	StopLoss     *float64 `json:"stop_loss,omitempty" jsonschema:"description=停損比例 (0-1)"`
	TakeProfit   *float64 `json:"take_profit,omitempty" jsonschema:"description=停利比例 (0-1)"`
	FeeRatio     *float64 `json:"fee_ratio,omitempty" jsonschema:"description=手續費率"`
	TaxRatio     *float64 `json:"tax_ratio,omitempty" jsonschema:"description=交易稅率"`
}

// backtestStrategy parses the position matrix, runs the simulation, and
// renders the headline performance figures plus the full statistics map.
func (d *Dispatcher) backtestStrategy(ctx context.Context, args map[string]any) (string, error) {
	input, err := decode[BacktestInput](args)
	if err != nil {
		return "", err
	}
	if input.PositionData == "" {
		return "", missingField("position_data")
	}

	position, err := frame.Parse(input.PositionData)
	if err != nil {
		return "", invalidArgument(err)
	}

	resample := input.Resample
	if resample == "" {
		resample = "M"
	}

	report, err := d.engine.RunBacktest(ctx, finlab.BacktestRequest{
		Position:   position,
		Resample:   resample,
		StopLoss:   input.StopLoss,
		TakeProfit: input.TakeProfit,
		FeeRatio:   input.FeeRatio,
		TaxRatio:   input.TaxRatio,
	})
	if err != nil {
		return "", proxyFailure(err)
	}

	statsJSON, err := json.MarshalIndent(report.Stats, "", "  ")
	if err != nil {
		statsJSON = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("📈 回測結果\n\n")
	b.WriteString("績效指標：\n")
	fmt.Fprintf(&b, "- 年化報酬率 (CAGR): %s\n", percent(report.CAGR))
	fmt.Fprintf(&b, "- 夏普比率 (Sharpe): %s\n", ratio(report.Sharpe))
	fmt.Fprintf(&b, "- 最大回撤 (MDD): %s\n", percent(report.MaxDrawdown))
	fmt.Fprintf(&b, "- 勝率: %s\n", percent(report.WinRate))
	fmt.Fprintf(&b, "- 總交易次數: %d\n\n", report.Trades)
	b.WriteString("風險指標：\n")
	fmt.Fprintf(&b, "- 年化波動率: %s\n", percent(report.AnnualVolatility))
	fmt.Fprintf(&b, "- 期末總資產: %s\n\n", amount(report.FinalValue))
	b.WriteString("完整統計資料：\n")
	b.Write(statsJSON)
	return b.String(), nil
}

// percent renders a 0-1 fraction as "12.34%".
func percent(v float64) string {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).Round(2).StringFixed(2) + "%"
}

// ratio renders a plain figure with two decimal places.
func ratio(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}

// amount renders a monetary value rounded to whole units with thousand
// separators.
func amount(v float64) string {
	s := decimal.NewFromFloat(v).Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
