package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekology/simple-dash/internal/database/repository"
)

func TestRenderBarChartScalesToMax(t *testing.T) {
	campaigns := []repository.Campaign{
		{Title: "Monthly digest", OpenRate: 0.30},
		{Title: "Flash sale", OpenRate: 0.60},
	}

	out := renderBarChart(campaigns, metricOpenRate, 80)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.Greater(t, strings.Count(lines[1], "█"), strings.Count(lines[0], "█"))
	assert.Contains(t, lines[0], "Monthly digest")
	assert.Contains(t, lines[1], "60.0%")
}

func TestRenderBarChartDeliveredFormatsAsCount(t *testing.T) {
	campaigns := []repository.Campaign{{Title: "Spring launch", Delivered: 2400}}

	out := renderBarChart(campaigns, metricDelivered, 80)
	assert.Contains(t, out, "2400")
	assert.NotContains(t, out, "%")
}

func TestRenderBarChartEmptySelection(t *testing.T) {
	out := renderBarChart(nil, metricOpenRate, 80)
	assert.Contains(t, out, "No campaigns selected")
}

func TestMetricCycleLabels(t *testing.T) {
	seen := map[string]bool{}
	for m := chartMetric(0); m < metricCount; m++ {
		seen[m.label()] = true
	}
	assert.Len(t, seen, int(metricCount))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a ver…", truncate("a very long campaign name", 6))
	assert.Equal(t, "", truncate("anything", 0))
}
