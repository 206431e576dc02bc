package tools

import (
	"context"
	"fmt"
	"strings"
)

const descGetTechnicalIndicator = `計算技術指標。支援 TA-Lib 的所有指標。

常用指標：
- RSI: 相對強弱指標
- MACD: 平滑異同移動平均線
- BBANDS: 布林帶
- SMA: 簡單移動平均
- EMA: 指數移動平均

參數：
- indicator_name: 指標名稱 (如 RSI, MACD, BBANDS)
- params: 指標參數 (JSON 格式，如 {"timeperiod": 14})
`

// IndicatorInput is the argument schema for get_technical_indicator.
// Params is forwarded verbatim to the engine.
type IndicatorInput struct {
	IndicatorName string         `json:"indicator_name" jsonschema:"required,description=技術指標名稱 (如 RSI， MACD， BBANDS)"`
	Params        map[string]any `json:"params,omitempty" jsonschema:"description=指標參數 (如 timeperiod， fastperiod 等)"`
}

const tailRows = 5

// getTechnicalIndicator computes an indicator on the engine. Multi-valued
// indicators (MACD returns three lines) are reported one block per
// component with its own shape and tail sample.
func (d *Dispatcher) getTechnicalIndicator(ctx context.Context, args map[string]any) (string, error) {
	input, err := decode[IndicatorInput](args)
	if err != nil {
		return "", err
	}
	if input.IndicatorName == "" {
		return "", missingField("indicator_name")
	}

	results, err := d.engine.Indicator(ctx, input.IndicatorName, input.Params)
	if err != nil {
		return "", proxyFailure(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "計算技術指標: %s\n\n", input.IndicatorName)

	if len(results) == 1 {
		r := results[0]
		fmt.Fprintf(&b, "資料形狀: %s\n", r.Shape())
		fmt.Fprintf(&b, "最近 %d 筆資料:\n%s", tailRows, r.Tail(tailRows).Render())
		return b.String(), nil
	}

	fmt.Fprintf(&b, "回傳 %d 個數值\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "數值 %d 形狀: %s\n", i+1, r.Shape())
		fmt.Fprintf(&b, "最近 %d 筆資料:\n%s\n", tailRows, r.Tail(tailRows).Render())
	}
	return b.String(), nil
}
