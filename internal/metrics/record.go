// Package metrics holds the immutable per-entity metric records a report is built from.
package metrics

import (
	"errors"
	"fmt"

	"github.com/dotcommander/qmreport/internal/types"
)

var (
	// ErrDuplicateName is returned when two records share a name.
	ErrDuplicateName = errors.New("duplicate entity name")
	// ErrNegativeCount is returned when a record carries a negative metric.
	ErrNegativeCount = errors.New("negative metric value")
	// ErrEmptyName is returned when a record has no name.
	ErrEmptyName = errors.New("empty entity name")
)

// Record is one analysed entity (typically a class) with its raw metrics.
type Record struct {
	Name                     string `json:"name" yaml:"name"`
	MethodCount              int    `json:"method_count" yaml:"method_count"`
	AttributeCount           int    `json:"attribute_count" yaml:"attribute_count"`
	LineCount                int    `json:"line_count" yaml:"line_count"`
	WeightedMethodComplexity int    `json:"weighted_method_complexity" yaml:"weighted_method_complexity"`
	InheritanceDepth         int    `json:"inheritance_depth" yaml:"inheritance_depth"`
	CouplingCount            int    `json:"coupling_count" yaml:"coupling_count"`
	CohesionDeficit          int    `json:"cohesion_deficit" yaml:"cohesion_deficit"`
}

// Value returns the raw value of m. Derived metrics are not stored on a
// record and report false.
func (r Record) Value(m types.Metric) (float64, bool) {
	switch m {
	case types.MetricMethods:
		return float64(r.MethodCount), true
	case types.MetricAttributes:
		return float64(r.AttributeCount), true
	case types.MetricLines:
		return float64(r.LineCount), true
	case types.MetricWMC:
		return float64(r.WeightedMethodComplexity), true
	case types.MetricDIT:
		return float64(r.InheritanceDepth), true
	case types.MetricCBO:
		return float64(r.CouplingCount), true
	case types.MetricLCOM:
		return float64(r.CohesionDeficit), true
	default:
		return 0, false
	}
}

func (r Record) validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	counts := []struct {
		metric types.Metric
		value  int
	}{
		{types.MetricMethods, r.MethodCount},
		{types.MetricAttributes, r.AttributeCount},
		{types.MetricLines, r.LineCount},
		{types.MetricWMC, r.WeightedMethodComplexity},
		{types.MetricDIT, r.InheritanceDepth},
		{types.MetricCBO, r.CouplingCount},
		{types.MetricLCOM, r.CohesionDeficit},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%w: %s %s=%d", ErrNegativeCount, r.Name, c.metric.Label(), c.value)
		}
	}
	return nil
}

// RecordSet is an ordered, read-only collection of records with unique names.
// The position of a record is its canonical index, used for every tie-break.
type RecordSet struct {
	records []Record
	index   map[string]int
}

// NewRecordSet validates and copies records into a RecordSet.
func NewRecordSet(records []Record) (*RecordSet, error) {
	set := &RecordSet{
		records: make([]Record, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for i, r := range records {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if prev, ok := set.index[r.Name]; ok {
			return nil, fmt.Errorf("%w: %q at records %d and %d", ErrDuplicateName, r.Name, prev+1, i+1)
		}
		set.index[r.Name] = i
		set.records[i] = r
	}
	return set, nil
}

// Len returns the number of records.
func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// At returns the record at index i.
func (s *RecordSet) At(i int) Record {
	return s.records[i]
}

// Records returns a copy of all records in canonical order.
func (s *RecordSet) Records() []Record {
	if s == nil {
		return []Record{}
	}
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Names returns the entity names in canonical order.
func (s *RecordSet) Names() []string {
	names := make([]string, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		names = append(names, s.records[i].Name)
	}
	return names
}

// IndexOf returns the canonical index of name, or -1.
func (s *RecordSet) IndexOf(name string) int {
	if s == nil {
		return -1
	}
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}
