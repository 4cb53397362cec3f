package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/derekology/simple-dash/internal/database/repository"
)

// chartMetric selects which campaign number the dashboard charts.
type chartMetric int

const (
	metricOpenRate chartMetric = iota
	metricClickRate
	metricCTOR
	metricDelivered
	metricCount // sentinel for cycling
)

func (m chartMetric) label() string {
	switch m {
	case metricClickRate:
		return "Click rate"
	case metricCTOR:
		return "Click-to-open rate"
	case metricDelivered:
		return "Delivered"
	default:
		return "Open rate"
	}
}

func (m chartMetric) value(c repository.Campaign) float64 {
	switch m {
	case metricClickRate:
		return c.ClickRate
	case metricCTOR:
		return c.CTOR
	case metricDelivered:
		return float64(c.Delivered)
	default:
		return c.OpenRate
	}
}

func (m chartMetric) format(v float64) string {
	if m == metricDelivered {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

// renderBarChart draws one horizontal bar per campaign, scaled to the
// largest value in the set.
func renderBarChart(campaigns []repository.Campaign, metric chartMetric, width int) string {
	if len(campaigns) == 0 {
		return "No campaigns selected. Open the campaign picker to chart something."
	}

	labelWidth := 24
	valueWidth := 8
	barWidth := width - labelWidth - valueWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}

	maxVal := 0.0
	for _, c := range campaigns {
		if v := metric.value(c); v > maxVal {
			maxVal = v
		}
	}

	lines := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		v := metric.value(c)
		filled := 0
		if maxVal > 0 {
			filled = int(v / maxVal * float64(barWidth))
		}
		if filled > barWidth {
			filled = barWidth
		}
		bar := barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
		name := c.Title
		if name == "" {
			name = c.Subject
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %*s",
			labelWidth, truncate(name, labelWidth), bar, valueWidth, metric.format(v)))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
