// Package types provides shared types used across the qmreport codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned when a metric identifier cannot be parsed.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric identifies a raw or derived per-entity metric.
type Metric string

// Raw metric constants, one per input column.
const (
	MetricMethods    Metric = "nom"
	MetricAttributes Metric = "noa"
	MetricLines      Metric = "loc"
	MetricWMC        Metric = "wmc"
	MetricDIT        Metric = "dit"
	MetricCBO        Metric = "cbo"
	MetricLCOM       Metric = "lcom"
)

// Derived metric constants.
const (
	MetricLinesPerMethod      Metric = "loc_per_method"
	MetricComplexityPerMethod Metric = "cc_per_method"
)

// Descriptor holds display properties of a metric.
type Descriptor struct {
	Label     string // short label, e.g. "WMC"
	Title     string // long name, e.g. "Weighted Methods per Class"
	AxisLabel string
	Derived   bool
	Decimals  int // precision used when formatting values
}

var descriptors = map[Metric]Descriptor{
	MetricMethods:             {Label: "NOM", Title: "Number of Methods", AxisLabel: "Number of methods (NOM)"},
	MetricAttributes:          {Label: "NOA", Title: "Number of Attributes", AxisLabel: "Number of attributes (NOA)"},
	MetricLines:               {Label: "LOC", Title: "Lines of Code", AxisLabel: "Lines of code (LOC)"},
	MetricWMC:                 {Label: "WMC", Title: "Weighted Methods per Class", AxisLabel: "WMC (sum of cyclomatic complexities)"},
	MetricDIT:                 {Label: "DIT", Title: "Depth of Inheritance Tree", AxisLabel: "DIT (depth in the inheritance hierarchy)"},
	MetricCBO:                 {Label: "CBO", Title: "Coupling Between Objects", AxisLabel: "CBO (number of coupled classes)"},
	MetricLCOM:                {Label: "LCOM", Title: "Lack of Cohesion of Methods", AxisLabel: "LCOM (Chidamber-Kemerer)"},
	MetricLinesPerMethod:      {Label: "LOC/M", Title: "Lines of Code per Method", AxisLabel: "LOC per method", Derived: true, Decimals: 1},
	MetricComplexityPerMethod: {Label: "CC/M", Title: "Cyclomatic Complexity per Method", AxisLabel: "CC per method", Derived: true, Decimals: 2},
}

// canonical is the fixed ordering used whenever metrics are iterated.
var canonical = []Metric{
	MetricMethods,
	MetricAttributes,
	MetricLines,
	MetricLinesPerMethod,
	MetricWMC,
	MetricComplexityPerMethod,
	MetricCBO,
	MetricLCOM,
	MetricDIT,
}

var aliases = map[string]Metric{
	"loc_methode":           MetricLinesPerMethod,
	"loc/m":                 MetricLinesPerMethod,
	"lines_per_method":      MetricLinesPerMethod,
	"cc/m":                  MetricComplexityPerMethod,
	"complexity_per_method": MetricComplexityPerMethod,
	"method_count":          MetricMethods,
	"attribute_count":       MetricAttributes,
	"line_count":            MetricLines,
}

// AllMetrics returns every known metric in canonical order.
func AllMetrics() []Metric {
	out := make([]Metric, len(canonical))
	copy(out, canonical)
	return out
}

// ParseMetric converts a user supplied identifier into a Metric.
func ParseMetric(s string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := descriptors[Metric(key)]; ok {
		return Metric(key), nil
	}
	if m, ok := aliases[key]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	_, ok := descriptors[m]
	return ok
}

// Describe returns the descriptor for m. Unknown metrics get their own
// identifier as label.
func (m Metric) Describe() Descriptor {
	if d, ok := descriptors[m]; ok {
		return d
	}
	return Descriptor{Label: string(m), Title: string(m), AxisLabel: string(m)}
}

// Label returns the short display label.
func (m Metric) Label() string { return m.Describe().Label }

// Rank returns the position of m in canonical order, or len(AllMetrics()) when unknown.
func (m Metric) Rank() int {
	for i, c := range canonical {
		if c == m {
			return i
		}
	}
	return len(canonical)
}

// Tier is a risk classification for a metric value.
type Tier string

// Tier constants, ordered by severity.
const (
	TierGreen  Tier = "green"
	TierOrange Tier = "orange"
	TierRed    Tier = "red"
)

// Tiers returns all tiers from best to worst.
func Tiers() []Tier {
	return []Tier{TierGreen, TierOrange, TierRed}
}

// Severity returns 0 for green, 1 for orange and 2 for red.
func (t Tier) Severity() int {
	switch t {
	case TierGreen:
		return 0
	case TierOrange:
		return 1
	case TierRed:
		return 2
	default:
		return -1
	}
}

// Worse reports whether t is strictly more severe than other.
func (t Tier) Worse(other Tier) bool {
	return t.Severity() > other.Severity()
}

// Meaning returns the human reading of the tier used in narratives.
func (t Tier) Meaning() string {
	switch t {
	case TierGreen:
		return "good"
	case TierOrange:
		return "acceptable"
	case TierRed:
		return "critical"
	default:
		return "unknown"
	}
}
