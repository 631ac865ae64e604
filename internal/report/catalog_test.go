package report

import (
	"errors"
	"testing"

	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionID(t *testing.T) {
	tests := []struct {
		in      string
		want    SectionID
		wantErr bool
	}{
		{"title", SectionTitle, false},
		{" Summary ", SectionSummary, false},
		{"size/overview", SectionSizeOverview, false},
		{"metric/wmc", MetricSection(types.MetricWMC), false},
		{"metric/LOC_METHODE", MetricSection(types.MetricLinesPerMethod), false},
		{"metric/halstead", "", true},
		{"appendix", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSectionID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownSection))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSectionMetric(t *testing.T) {
	m, ok := MetricSection(types.MetricCBO).Metric()
	assert.True(t, ok)
	assert.Equal(t, types.MetricCBO, m)

	_, ok = SectionTitle.Metric()
	assert.False(t, ok)
}

func TestPresets(t *testing.T) {
	full, err := Preset("full")
	require.NoError(t, err)
	assert.Len(t, full, 11)
	assert.Equal(t, SectionTitle, full[0])
	assert.Equal(t, SectionConclusion, full[len(full)-1])

	charts, err := Preset("charts")
	require.NoError(t, err)
	assert.Equal(t, []SectionID{SectionSizeOverview, SectionSizeScatter, MetricSection(types.MetricLinesPerMethod), SectionSummary}, charts)

	full[0] = "mutated"
	again, _ := Preset("full")
	assert.Equal(t, SectionTitle, again[0])

	_, err = Preset("tiny")
	assert.True(t, errors.Is(err, ErrUnknownPreset))
	assert.Equal(t, []string{"charts", "full"}, PresetNames())
}

func TestCatalog(t *testing.T) {
	ids := Catalog(scoring.NewClassifier(scoring.DefaultThresholds()))
	assert.Equal(t, []SectionID{
		SectionTitle,
		SectionSizeOverview,
		SectionSizeScatter,
		"metric/loc_per_method",
		"metric/wmc",
		"metric/cbo",
		"metric/lcom",
		"metric/dit",
		SectionComparison,
		SectionSummary,
		SectionConclusion,
	}, ids)
}
