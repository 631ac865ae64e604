package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/types"
)

var (
	// ErrUnknownSection is returned for section identifiers with no builder.
	ErrUnknownSection = errors.New("unknown section")
	// ErrUnknownPreset is returned for unknown layout presets.
	ErrUnknownPreset = errors.New("unknown preset")
)

// SectionID identifies a report section. Per-metric sections use the form
// "metric/<metric>".
type SectionID string

// Fixed section identifiers.
const (
	SectionTitle        SectionID = "title"
	SectionSizeOverview SectionID = "size/overview"
	SectionSizeScatter  SectionID = "size/scatter"
	SectionComparison   SectionID = "comparison"
	SectionSummary      SectionID = "summary"
	SectionConclusion   SectionID = "conclusion"

	metricPrefix = "metric/"
)

// MetricSection returns the section identifier of a per-metric page.
func MetricSection(m types.Metric) SectionID {
	return SectionID(metricPrefix + string(m))
}

// Metric returns the metric of a per-metric section.
func (id SectionID) Metric() (types.Metric, bool) {
	s := string(id)
	if !strings.HasPrefix(s, metricPrefix) {
		return "", false
	}
	return types.Metric(strings.TrimPrefix(s, metricPrefix)), true
}

// ParseSectionID validates s as a section identifier.
func ParseSectionID(s string) (SectionID, error) {
	id := SectionID(strings.ToLower(strings.TrimSpace(s)))
	switch id {
	case SectionTitle, SectionSizeOverview, SectionSizeScatter, SectionComparison, SectionSummary, SectionConclusion:
		return id, nil
	}
	if m, ok := id.Metric(); ok {
		parsed, err := types.ParseMetric(string(m))
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrUnknownSection, s, err)
		}
		return MetricSection(parsed), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// Presets are the built-in section layouts.
var presets = map[string][]SectionID{
	"full": {
		SectionTitle,
		SectionSizeOverview,
		SectionSizeScatter,
		MetricSection(types.MetricLinesPerMethod),
		MetricSection(types.MetricWMC),
		MetricSection(types.MetricCBO),
		MetricSection(types.MetricLCOM),
		MetricSection(types.MetricDIT),
		SectionComparison,
		SectionSummary,
		SectionConclusion,
	},
	"charts": {
		SectionSizeOverview,
		SectionSizeScatter,
		MetricSection(types.MetricLinesPerMethod),
		SectionSummary,
	},
}

// DefaultPreset is used when no layout is configured.
const DefaultPreset = "full"

// Preset returns a copy of the named layout.
func Preset(name string) ([]SectionID, error) {
	ids, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	return append([]SectionID(nil), ids...), nil
}

// PresetNames lists the preset names alphabetically.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Catalog lists every section the assembler can build with the given
// classifier, in canonical order. Per-metric sections exist for each metric
// with a threshold row.
func Catalog(c *scoring.Classifier) []SectionID {
	ids := []SectionID{SectionTitle, SectionSizeOverview, SectionSizeScatter}
	for _, m := range c.Table().Kinds() {
		ids = append(ids, MetricSection(m))
	}
	return append(ids, SectionComparison, SectionSummary, SectionConclusion)
}
