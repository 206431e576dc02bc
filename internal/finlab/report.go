package finlab

// Stat keys used by the engine's statistics mapping. Names match the
// FinLab report format.
const (
	statCAGR             = "cagr"
	statSharpe           = "monthly_sharpe"
	statMaxDrawdown      = "max_drawdown"
	statWinRate          = "win_rate"
	statTrades           = "n_trades"
	statAnnualVolatility = "annual_volatility"
	statFinalValue       = "final_value"
)

// ReportFromStats pulls the headline figures out of a raw statistics
// mapping. Missing or non-numeric entries read as zero; the full mapping
// is kept alongside for completeness.
func ReportFromStats(stats map[string]any) *Report {
	return &Report{
		CAGR:             statFloat(stats, statCAGR),
		Sharpe:           statFloat(stats, statSharpe),
		MaxDrawdown:      statFloat(stats, statMaxDrawdown),
		WinRate:          statFloat(stats, statWinRate),
		Trades:           int(statFloat(stats, statTrades)),
		AnnualVolatility: statFloat(stats, statAnnualVolatility),
		FinalValue:       statFloat(stats, statFinalValue),
		Stats:            stats,
	}
}

func statFloat(stats map[string]any, key string) float64 {
	switch v := stats[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
