// Package notable selects the entities highlighted in the multi-metric
// comparison: those that reach the maximum of at least one tracked metric.
package notable

import (
	"fmt"
	"sort"

	"github.com/dotcommander/qmreport/internal/derived"
	"github.com/dotcommander/qmreport/internal/types"
)

// DefaultTracked is the metric list used when none is configured.
var DefaultTracked = []types.Metric{
	types.MetricWMC,
	types.MetricCBO,
	types.MetricLines,
	types.MetricLCOM,
	types.MetricMethods,
}

// Entry is one notable entity.
type Entry struct {
	Index   int            `json:"index" yaml:"index"`
	Name    string         `json:"name" yaml:"name"`
	Maximum []types.Metric `json:"maximum" yaml:"maximum"` // tracked metrics this entity maximises
}

// Set is the notable selection, ordered by record index.
type Set struct {
	entries []Entry
}

// Select returns the entities that attain the maximum of a tracked metric.
// Metrics whose maximum is zero contribute nothing. When several entities
// share the maximum the first one in record order wins.
func Select(t *derived.Table, tracked []types.Metric) (*Set, error) {
	byIndex := make(map[int]*Entry)

	for _, m := range tracked {
		agg, err := t.Aggregate(m)
		if err != nil {
			return nil, fmt.Errorf("tracked metric %q: %w", m, err)
		}
		if agg.MaxIndex < 0 || agg.Max <= 0 {
			continue
		}
		e, ok := byIndex[agg.MaxIndex]
		if !ok {
			e = &Entry{Index: agg.MaxIndex, Name: agg.MaxEntity}
			byIndex[agg.MaxIndex] = e
		}
		if !containsMetric(e.Maximum, m) {
			e.Maximum = append(e.Maximum, m)
		}
	}

	set := &Set{entries: make([]Entry, 0, len(byIndex))}
	for _, e := range byIndex {
		set.entries = append(set.entries, *e)
	}
	sort.Slice(set.entries, func(i, j int) bool {
		return set.entries[i].Index < set.entries[j].Index
	})
	return set, nil
}

func containsMetric(list []types.Metric, m types.Metric) bool {
	for _, x := range list {
		if x == m {
			return true
		}
	}
	return false
}

// Len returns the number of notable entities.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns a copy of the entries in record order.
func (s *Set) Entries() []Entry {
	if s == nil {
		return []Entry{}
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Names returns the notable names in record order. Never nil.
func (s *Set) Names() []string {
	names := make([]string, 0, s.Len())
	for _, e := range s.Entries() {
		names = append(names, e.Name)
	}
	return names
}

// Indices returns the record indices of the notable entities.
func (s *Set) Indices() []int {
	out := make([]int, 0, s.Len())
	for _, e := range s.Entries() {
		out = append(out, e.Index)
	}
	return out
}

// Contains reports whether name is notable.
func (s *Set) Contains(name string) bool {
	for _, e := range s.Entries() {
		if e.Name == name {
			return true
		}
	}
	return false
}
