package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dotcommander/qmreport/internal/types"
)

// ErrInvalidBand is returned when a threshold row is not 0 <= green <= orange.
var ErrInvalidBand = errors.New("invalid threshold band")

// Band is one threshold row. Values up to GreenMax are green, values up to
// OrangeMax are orange, anything above is red.
type Band struct {
	GreenMax  float64 `json:"green" yaml:"green" mapstructure:"green"`
	OrangeMax float64 `json:"orange" yaml:"orange" mapstructure:"orange"`
}

func (b Band) validate() error {
	if b.GreenMax < 0 {
		return fmt.Errorf("%w: green max %v is negative", ErrInvalidBand, b.GreenMax)
	}
	if b.OrangeMax < b.GreenMax {
		return fmt.Errorf("%w: orange max %v is below green max %v", ErrInvalidBand, b.OrangeMax, b.GreenMax)
	}
	return nil
}

// ThresholdTable maps metrics to bands. It is read-only once built.
type ThresholdTable struct {
	bands map[types.Metric]Band
}

// NewThresholdTable validates and copies bands into a table.
func NewThresholdTable(bands map[types.Metric]Band) (*ThresholdTable, error) {
	t := &ThresholdTable{bands: make(map[types.Metric]Band, len(bands))}
	for m, b := range bands {
		if !m.Valid() {
			return nil, fmt.Errorf("threshold for %q: %w", m, types.ErrUnknownMetric)
		}
		if err := b.validate(); err != nil {
			return nil, fmt.Errorf("threshold for %s: %w", m, err)
		}
		t.bands[m] = b
	}
	return t, nil
}

// DefaultThresholds returns the built-in threshold table.
func DefaultThresholds() *ThresholdTable {
	t, err := NewThresholdTable(map[types.Metric]Band{
		types.MetricLinesPerMethod: {GreenMax: 8, OrangeMax: 12},
		types.MetricWMC:            {GreenMax: 10, OrangeMax: 20},
		types.MetricCBO:            {GreenMax: 4, OrangeMax: 8},
		types.MetricLCOM:           {GreenMax: 0, OrangeMax: 3},
		types.MetricDIT:            {GreenMax: 2, OrangeMax: 4},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Merge returns a new table with overrides replacing or adding rows.
func (t *ThresholdTable) Merge(overrides map[types.Metric]Band) (*ThresholdTable, error) {
	merged := make(map[types.Metric]Band, len(t.bands)+len(overrides))
	for m, b := range t.bands {
		merged[m] = b
	}
	for m, b := range overrides {
		merged[m] = b
	}
	return NewThresholdTable(merged)
}

// Lookup returns the band for m.
func (t *ThresholdTable) Lookup(m types.Metric) (Band, bool) {
	b, ok := t.bands[m]
	return b, ok
}

// Kinds returns the metrics that have a row, in canonical order.
func (t *ThresholdTable) Kinds() []types.Metric {
	kinds := make([]types.Metric, 0, len(t.bands))
	for m := range t.bands {
		kinds = append(kinds, m)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i].Rank() < kinds[j].Rank()
	})
	return kinds
}

// Bands returns a copy of all rows.
func (t *ThresholdTable) Bands() map[types.Metric]Band {
	out := make(map[types.Metric]Band, len(t.bands))
	for m, b := range t.bands {
		out[m] = b
	}
	return out
}
