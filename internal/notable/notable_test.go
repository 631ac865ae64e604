package notable

import (
	"testing"

	"github.com/dotcommander/qmreport/internal/derived"
	"github.com/dotcommander/qmreport/internal/metrics"
	"github.com/dotcommander/qmreport/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(t *testing.T, records ...metrics.Record) *derived.Table {
	t.Helper()
	set, err := metrics.NewRecordSet(records)
	require.NoError(t, err)
	return derived.Compute(set)
}

func scenario(t *testing.T) *derived.Table {
	return table(t,
		metrics.Record{Name: "A", MethodCount: 2, LineCount: 30, WeightedMethodComplexity: 25, CouplingCount: 10, CohesionDeficit: 5},
		metrics.Record{Name: "B", MethodCount: 10, LineCount: 40, WeightedMethodComplexity: 8, CouplingCount: 2},
		metrics.Record{Name: "C", MethodCount: 1, LineCount: 1, WeightedMethodComplexity: 1, CouplingCount: 1},
	)
}

func TestSelectScenario(t *testing.T) {
	set, err := Select(scenario(t), DefaultTracked)
	require.NoError(t, err)

	assert.True(t, set.Contains("A"))
	assert.True(t, set.Contains("B"))
	assert.False(t, set.Contains("C"))
	assert.Equal(t, []string{"A", "B"}, set.Names())
	assert.Equal(t, []int{0, 1}, set.Indices())

	entries := set.Entries()
	assert.Contains(t, entries[0].Maximum, types.MetricWMC)
	assert.Contains(t, entries[1].Maximum, types.MetricMethods)
}

func TestSelectEmptyRecordSet(t *testing.T) {
	set, err := Select(table(t), DefaultTracked)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.NotNil(t, set.Names())
	assert.Empty(t, set.Names())
}

func TestSelectSkipsAllZeroMetric(t *testing.T) {
	set, err := Select(table(t,
		metrics.Record{Name: "A", WeightedMethodComplexity: 3},
		metrics.Record{Name: "B", WeightedMethodComplexity: 5},
	), []types.Metric{types.MetricWMC, types.MetricLCOM})
	require.NoError(t, err)

	assert.Equal(t, []string{"B"}, set.Names())
}

func TestSelectTieGoesToFirstIndex(t *testing.T) {
	set, err := Select(table(t,
		metrics.Record{Name: "First", CouplingCount: 9},
		metrics.Record{Name: "Second", CouplingCount: 9},
	), []types.Metric{types.MetricCBO})
	require.NoError(t, err)

	assert.Equal(t, []string{"First"}, set.Names())
}

func TestSelectOrderFollowsRecordIndex(t *testing.T) {
	// selection order is lcom (Z) then wmc (X); output follows record order
	set, err := Select(table(t,
		metrics.Record{Name: "X", WeightedMethodComplexity: 50},
		metrics.Record{Name: "Y"},
		metrics.Record{Name: "Z", CohesionDeficit: 9},
	), []types.Metric{types.MetricLCOM, types.MetricWMC})
	require.NoError(t, err)

	assert.Equal(t, []string{"X", "Z"}, set.Names())
}

func TestSelectBounds(t *testing.T) {
	tracked := []types.Metric{types.MetricWMC, types.MetricCBO, types.MetricLines, types.MetricLCOM}

	tests := []struct {
		name    string
		records []metrics.Record
		want    int
	}{
		{
			name: "distinct maxima",
			records: []metrics.Record{
				{Name: "W", WeightedMethodComplexity: 9, CouplingCount: 1, LineCount: 1, CohesionDeficit: 1},
				{Name: "C", WeightedMethodComplexity: 1, CouplingCount: 9, LineCount: 1, CohesionDeficit: 1},
				{Name: "L", WeightedMethodComplexity: 1, CouplingCount: 1, LineCount: 9, CohesionDeficit: 1},
				{Name: "M", WeightedMethodComplexity: 1, CouplingCount: 1, LineCount: 1, CohesionDeficit: 9},
			},
			want: 4,
		},
		{
			name: "one entity dominates",
			records: []metrics.Record{
				{Name: "Big", WeightedMethodComplexity: 9, CouplingCount: 9, LineCount: 9, CohesionDeficit: 9},
				{Name: "Small", WeightedMethodComplexity: 1, CouplingCount: 1, LineCount: 1, CohesionDeficit: 1},
			},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Select(table(t, tt.records...), tracked)
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.Len())
			assert.LessOrEqual(t, set.Len(), 4)
			assert.GreaterOrEqual(t, set.Len(), 1)
		})
	}
}

func TestSelectUnknownMetric(t *testing.T) {
	_, err := Select(scenario(t), []types.Metric{"halstead"})
	assert.Error(t, err)
}
