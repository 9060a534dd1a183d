package reporting

import (
	"fmt"
	"strings"

	"trading-journal/internal/analytics"
	"trading-journal/internal/domain"
)

// RenderSymbolCSV renders the symbol breakdown as a CSV string.
func RenderSymbolCSV(rows []analytics.SymbolRow) string {
	var sb strings.Builder

	sb.WriteString("symbol,trades,win_rate,pnl,volume,fees\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%.6f\n",
			r.Symbol,
			r.Trades,
			r.WinRate,
			r.PnL.Float(),
			r.Volume.Float(),
			r.Fees.Float(),
		))
	}

	return sb.String()
}

// RenderDailyCSV renders daily snapshot points as a CSV string.
func RenderDailyCSV(points []domain.DailyPnLPoint) string {
	var sb strings.Builder

	sb.WriteString("day,trades,pnl,fees\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f\n",
			p.Day,
			p.TradeCount,
			p.PnL.Float(),
			p.Fees.Float(),
		))
	}

	return sb.String()
}
