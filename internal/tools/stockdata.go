package tools

import (
	"context"
	"fmt"
)

const descGetStockData = `獲取台股市場數據。支援價格、財報、月營收、本益比等各類數據。

使用範例：
- table="price", column="收盤價" : 獲取收盤價
- table="monthly_revenue", column="當月營收" : 獲取月營收
- table="price_earning_ratio", column="本益比" : 獲取本益比
- table="fundamental_features", column="ROE稅後" : 獲取 ROE

參數：
- table: 數據表名稱
- column: 欄位名稱
- start_date: 起始日期 (可選，格式: YYYY-MM-DD)
- end_date: 結束日期 (可選，格式: YYYY-MM-DD)
- stock_ids: 股票代碼列表 (可選，如 ["2330", "2317"])
`

// StockDataInput is the argument schema for get_stock_data.
type StockDataInput struct {
	Table     string   `json:"table" jsonschema:"required,description=數據表名稱，如 price， monthly_revenue， fundamental_features 等"`
	Column    string   `json:"column" jsonschema:"required,description=欄位名稱，如 收盤價， 當月營收， ROE稅後 等"`
	StartDate string   `json:"start_date,omitempty" jsonschema:"description=起始日期 (可選，格式: YYYY-MM-DD)"`
	EndDate   string   `json:"end_date,omitempty" jsonschema:"description=結束日期 (可選，格式: YYYY-MM-DD)"`
	StockIDs  []string `json:"stock_ids,omitempty" jsonschema:"description=股票代碼列表 (可選)"`
}

// sampleRows caps how many rows of a dataset are echoed back; full frames
// are never dumped.
const sampleRows = 10

// getStockData fetches one data column from the engine, applies the
// optional date-range and stock-ID filters as pure post-processing, and
// summarizes the result.
func (d *Dispatcher) getStockData(ctx context.Context, args map[string]any) (string, error) {
	input, err := decode[StockDataInput](args)
	if err != nil {
		return "", err
	}
	if input.Table == "" {
		return "", missingField("table")
	}
	if input.Column == "" {
		return "", missingField("column")
	}

	df, err := d.engine.GetData(ctx, input.Table, input.Column)
	if err != nil {
		return "", proxyFailure(err)
	}

	if input.StartDate != "" || input.EndDate != "" {
		df = df.FilterDates(input.StartDate, input.EndDate)
	}
	if len(input.StockIDs) > 0 {
		df, err = df.Select(input.StockIDs)
		if err != nil {
			return "", invalidArgument(err)
		}
	}

	return fmt.Sprintf(
		"成功獲取數據: %s:%s\n\n"+
			"📊 資料摘要：\n"+
			"- 股票數量: %d\n"+
			"- 日期數量: %d\n"+
			"- 日期範圍: %s\n\n"+
			"前 %d 筆資料樣本：\n%s",
		input.Table, input.Column,
		df.Cols(), df.Rows(), df.DateRange(),
		sampleRows, df.Head(sampleRows).Render(),
	), nil
}
