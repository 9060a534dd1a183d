package reporting

import (
	"fmt"
	"strings"
	"time"

	"trading-journal/internal/domain"
)

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.AccountID != "" {
		sb.WriteString(fmt.Sprintf("Account: %s\n\n", r.AccountID))
	}
	sb.WriteString(fmt.Sprintf("Window: %s to %s\n\n", formatBound(r.RangeStart), formatBound(r.RangeEnd)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Fills | %d |\n", r.FillCount))
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", r.TradeCount))
	sb.WriteString(fmt.Sprintf("| Total PnL | %.2f |\n", r.Summary.PnL.Float()))
	sb.WriteString(fmt.Sprintf("| Return | %.2f%% |\n", r.Summary.PnLPct*100))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% |\n", r.WinLoss.WinRate*100))
	sb.WriteString(fmt.Sprintf("| Avg Win / Avg Loss | %.2f / %.2f |\n", r.WinLoss.AvgWin.Float(), r.WinLoss.AvgLoss.Float()))
	sb.WriteString(fmt.Sprintf("| Largest Win / Loss | %.2f / %.2f |\n", r.WinLoss.LargestWin.Float(), r.WinLoss.LargestLoss.Float()))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.2f |\n", r.MaxDrawdown.Float()))
	sb.WriteString(fmt.Sprintf("| Avg Duration | %s |\n", formatDuration(r.AvgDurationSec)))
	sb.WriteString(fmt.Sprintf("| Volume | %.2f |\n", r.VolumeFees.Volume.Float()))
	sb.WriteString(fmt.Sprintf("| Fees | %.2f |\n", r.VolumeFees.FeeTotal.Float()))
	sb.WriteString(fmt.Sprintf("| Long / Short | %d / %d (%s) |\n", r.LongShort.LongCount, r.LongShort.ShortCount, r.LongShort.Bias))
	sb.WriteString("\n")

	sb.WriteString("## Order Types\n\n")
	sb.WriteString("| Order Type | Trades | Wins | PnL | Fees |\n")
	sb.WriteString("|------------|--------|------|-----|------|\n")
	for _, ot := range domain.OrderTypes {
		stats := r.OrderTypes[ot]
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.2f | %.2f |\n",
			ot, stats.Trades, stats.Wins, stats.PnL.Float(), stats.Fees.Float()))
	}
	sb.WriteString("\n")

	sb.WriteString("## Symbols\n\n")
	if len(r.Symbols) > 0 {
		sb.WriteString("| Symbol | Trades | Win Rate | PnL | Volume | Fees |\n")
		sb.WriteString("|--------|--------|----------|-----|--------|------|\n")
		for _, row := range r.Symbols {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f%% | %.2f | %.2f | %.2f |\n",
				row.Symbol, row.Trades, row.WinRate*100, row.PnL.Float(), row.Volume.Float(), row.Fees.Float()))
		}
	} else {
		sb.WriteString("No trades in window.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Daily PnL\n\n")
	if len(r.Daily) > 0 {
		sb.WriteString("| Day | Trades | PnL | Fees |\n")
		sb.WriteString("|-----|--------|-----|------|\n")
		for _, p := range r.Daily {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f |\n",
				p.Day, p.TradeCount, p.PnL.Float(), p.Fees.Float()))
		}
	} else {
		sb.WriteString("No trades in window.\n")
	}

	return sb.String()
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "open"
	}
	return t.Format("2006-01-02")
}

func formatDuration(seconds float64) string {
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}
