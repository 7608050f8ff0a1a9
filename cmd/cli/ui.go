package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fleveque/sentiment-service/internal/model"
	"github.com/fleveque/sentiment-service/internal/service"
)

var (
	symbolStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	resultStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	degradedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

func renderItem(item service.BatchItem) string {
	header := symbolStyle.Render(item.Symbol)
	switch {
	case item.Err != nil:
		return header + "  " + failedStyle.Render(item.Err.Error())
	case item.Result.Outcome == model.OutcomeDegraded:
		return header + "  " + degradedStyle.Render(item.Result.Text)
	default:
		return header + "\n" + resultStyle.Render(strings.TrimSpace(item.Result.Text))
	}
}

func renderStats(stats *service.BatchStats) string {
	return dimStyle.Render(fmt.Sprintf("%d symbols: %d succeeded, %d degraded, %d failed",
		stats.Total, stats.Succeeded, stats.Degraded, stats.Failed))
}

func renderCall(call model.UpstreamCall) string {
	line := fmt.Sprintf("%-5d %s  %-10s %-9s %6dms  %s/%s",
		call.ID, call.CreatedAt.Format("2006-01-02 15:04:05"), call.Symbol,
		call.Outcome, call.DurationMs, call.Provider, call.Model)

	switch call.Outcome {
	case model.OutcomeDegraded:
		if call.StatusCode != nil {
			line += fmt.Sprintf("  status=%d", *call.StatusCode)
		}
		return degradedStyle.Render(line)
	case model.OutcomeFailed:
		if call.Error != nil {
			line += "  " + *call.Error
		}
		return failedStyle.Render(line)
	default:
		return line
	}
}

func renderSummary(s *callSummary) string {
	line := fmt.Sprintf("%d succeeded, %d degraded, %d failed",
		s.Succeeded, s.Degraded, s.Failed)
	if s.Symbol != "" {
		line += fmt.Sprintf("  |  %s: %d calls", s.Symbol, s.SymbolCalls)
	}
	return dimStyle.Render(line)
}
