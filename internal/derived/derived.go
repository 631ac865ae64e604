// Package derived computes per-entity ratios and per-metric aggregates from a
// record set. Everything here is a pure function of its input.
package derived

import (
	"errors"
	"fmt"

	"github.com/dotcommander/qmreport/internal/metrics"
	"github.com/dotcommander/qmreport/internal/types"
)

// ErrUnsupportedMetric is returned for metrics the table cannot resolve.
var ErrUnsupportedMetric = errors.New("unsupported metric")

// Row holds the derived values for one entity.
type Row struct {
	Index               int     `json:"index" yaml:"index"`
	Name                string  `json:"name" yaml:"name"`
	LinesPerMethod      float64 `json:"lines_per_method" yaml:"lines_per_method"`
	ComplexityPerMethod float64 `json:"complexity_per_method" yaml:"complexity_per_method"`
}

// Aggregate summarises one metric across the record set.
// MaxIndex is -1 and MaxEntity empty when the set is empty.
type Aggregate struct {
	Metric    types.Metric `json:"metric" yaml:"metric"`
	Sum       float64      `json:"sum" yaml:"sum"`
	Mean      float64      `json:"mean" yaml:"mean"`
	Max       float64      `json:"max" yaml:"max"`
	MaxIndex  int          `json:"max_index" yaml:"max_index"`
	MaxEntity string       `json:"max_entity" yaml:"max_entity"`
}

// Table is the derived view over a record set.
type Table struct {
	records    *metrics.RecordSet
	rows       []Row
	aggregates map[types.Metric]Aggregate
}

// Compute derives ratios for every record and aggregates for every metric.
func Compute(set *metrics.RecordSet) *Table {
	t := &Table{
		records:    set,
		rows:       make([]Row, set.Len()),
		aggregates: make(map[types.Metric]Aggregate),
	}

	for i := 0; i < set.Len(); i++ {
		r := set.At(i)
		t.rows[i] = Row{
			Index:               i,
			Name:                r.Name,
			LinesPerMethod:      ratio(r.LineCount, r.MethodCount),
			ComplexityPerMethod: ratio(r.WeightedMethodComplexity, r.MethodCount),
		}
	}

	for _, m := range types.AllMetrics() {
		t.aggregates[m] = t.aggregate(m)
	}

	return t
}

// ratio divides by max(denominator, 1) so an entity without methods keeps its
// numerator as the ratio.
func ratio(numerator, denominator int) float64 {
	if denominator < 1 {
		denominator = 1
	}
	return float64(numerator) / float64(denominator)
}

func (t *Table) aggregate(m types.Metric) Aggregate {
	agg := Aggregate{Metric: m, MaxIndex: -1}
	for i := range t.rows {
		v := t.mustValue(i, m)
		agg.Sum += v
		// strictly greater: ties keep the first index
		if agg.MaxIndex < 0 || v > agg.Max {
			agg.Max = v
			agg.MaxIndex = i
			agg.MaxEntity = t.rows[i].Name
		}
	}
	if n := len(t.rows); n > 0 {
		agg.Mean = agg.Sum / float64(n)
	}
	return agg
}

func (t *Table) mustValue(i int, m types.Metric) float64 {
	v, err := t.Value(i, m)
	if err != nil {
		panic(err)
	}
	return v
}

// Records returns the underlying record set.
func (t *Table) Records() *metrics.RecordSet {
	return t.records
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the derived rows in canonical order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Row returns the derived row at index i.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Value returns the value of metric m for entity i, raw or derived.
func (t *Table) Value(i int, m types.Metric) (float64, error) {
	switch m {
	case types.MetricLinesPerMethod:
		return t.rows[i].LinesPerMethod, nil
	case types.MetricComplexityPerMethod:
		return t.rows[i].ComplexityPerMethod, nil
	}
	if v, ok := t.records.At(i).Value(m); ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMetric, m)
}

// Values returns the value of m for every entity in canonical order.
func (t *Table) Values(m types.Metric) ([]float64, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMetric, m)
	}
	out := make([]float64, len(t.rows))
	for i := range t.rows {
		v, err := t.Value(i, m)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Aggregate returns the aggregate statistics for m.
func (t *Table) Aggregate(m types.Metric) (Aggregate, error) {
	agg, ok := t.aggregates[m]
	if !ok {
		return Aggregate{}, fmt.Errorf("%w: %q", ErrUnsupportedMetric, m)
	}
	return agg, nil
}

// OverallLinesPerMethod returns total LOC divided by max(total NOM, 1).
func (t *Table) OverallLinesPerMethod() float64 {
	return t.aggregates[types.MetricLines].Sum / maxOne(t.aggregates[types.MetricMethods].Sum)
}

func maxOne(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}
