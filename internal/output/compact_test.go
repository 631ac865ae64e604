package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectTiers(t *testing.T) {
	tiers, err := CollectTiers(scenarioTable(t), scoring.NewClassifier(scoring.DefaultThresholds()))
	require.NoError(t, err)
	require.Len(t, tiers, 5)

	byMetric := map[types.Metric]MetricTiers{}
	for _, m := range tiers {
		byMetric[m.Metric] = m
	}
	wmc := byMetric[types.MetricWMC]
	assert.Equal(t, []string{"A"}, wmc.Red)
	assert.Empty(t, wmc.Orange)
	assert.Equal(t, 3, wmc.Counts.Total())
	assert.Equal(t, 10.0, wmc.Band.GreenMax)
}

func TestCompactFormatter_FormatAll(t *testing.T) {
	tiers, err := CollectTiers(scenarioTable(t), scoring.NewClassifier(scoring.DefaultThresholds()))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewCompactFormatter(&buf, false, time.Time{}).FormatAll(3, tiers))
	out := buf.String()
	for _, want := range []string{"✗", "Attention:", "WMC red: A", "3 entities, 5 metrics, 4 red classifications"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[")
	assert.NotContains(t, out, "ms)")
}

func TestCompactFormatter_VerboseListsOrange(t *testing.T) {
	metric := MetricTiers{
		Metric: types.MetricCBO,
		Counts: scoring.TierCounts{Green: 1, Orange: 1},
		Orange: []string{"B"},
	}

	var quiet, verbose bytes.Buffer
	require.NoError(t, NewCompactFormatter(&quiet, false, time.Time{}).FormatAll(2, []MetricTiers{metric}))
	require.NoError(t, NewCompactFormatter(&verbose, true, time.Time{}).FormatAll(2, []MetricTiers{metric}))

	assert.Contains(t, quiet.String(), "!")
	assert.NotContains(t, quiet.String(), "Attention:")
	assert.Contains(t, verbose.String(), "CBO orange: B")
}

func TestCompactFormatter_AllGreen(t *testing.T) {
	metric := MetricTiers{Metric: types.MetricWMC, Counts: scoring.TierCounts{Green: 2}}

	var buf bytes.Buffer
	require.NoError(t, NewCompactFormatter(&buf, false, time.Time{}).FormatAll(2, []MetricTiers{metric}))
	out := buf.String()
	assert.Contains(t, out, "✓")
	assert.NotContains(t, out, "Attention:")
	assert.Contains(t, out, "0 red classifications")
}

func TestRenderBar(t *testing.T) {
	f := NewCompactFormatter(&bytes.Buffer{}, false, time.Time{})
	styles := TierStyles()

	bar := f.renderBar(scoring.TierCounts{Green: 1, Orange: 1, Red: 2}, 4, styles, styles[types.TierGreen])
	assert.Equal(t, 20, strings.Count(bar, "█")+strings.Count(bar, "░"))

	empty := f.renderBar(scoring.TierCounts{}, 0, styles, styles[types.TierGreen])
	assert.Equal(t, strings.Repeat("░", 20), empty)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
}
