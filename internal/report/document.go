// Package report assembles the ordered section sequence of a metrics report.
package report

import (
	"github.com/dotcommander/qmreport/internal/narrative"
	"github.com/dotcommander/qmreport/internal/types"
)

// DocumentTitle is the title of every generated report.
const DocumentTitle = "Quality Metrics Report"

// ChartKind tells a renderer how to draw a chart.
type ChartKind string

// Chart kinds.
const (
	ChartGroupedBar    ChartKind = "grouped_bar"
	ChartHorizontalBar ChartKind = "horizontal_bar"
	ChartScatter       ChartKind = "scatter"
	ChartRadar         ChartKind = "radar"
	ChartTable         ChartKind = "table"
)

// Series is one named list of values aligned with Chart.Categories.
type Series struct {
	Name   string       `json:"name" yaml:"name"`
	Values []float64    `json:"values" yaml:"values"`
	Tiers  []types.Tier `json:"tiers,omitempty" yaml:"tiers,omitempty"`
}

// Point is one labelled scatter point.
type Point struct {
	Label string  `json:"label" yaml:"label"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Size  float64 `json:"size" yaml:"size"`
}

// Reference is a threshold or ratio line. A diagonal reference is drawn as
// y = Value * x, otherwise as a constant at Value on the value axis.
type Reference struct {
	Label    string     `json:"label" yaml:"label"`
	Value    float64    `json:"value" yaml:"value"`
	Tier     types.Tier `json:"tier,omitempty" yaml:"tier,omitempty"`
	Diagonal bool       `json:"diagonal,omitempty" yaml:"diagonal,omitempty"`
}

// Table is a tabular chart.
type Table struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
	Footer  []string   `json:"footer,omitempty" yaml:"footer,omitempty"`
}

// Chart is a renderer-independent chart specification.
type Chart struct {
	Kind       ChartKind   `json:"kind" yaml:"kind"`
	Title      string      `json:"title,omitempty" yaml:"title,omitempty"`
	XLabel     string      `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	YLabel     string      `json:"y_label,omitempty" yaml:"y_label,omitempty"`
	Categories []string    `json:"categories,omitempty" yaml:"categories,omitempty"`
	Series     []Series    `json:"series,omitempty" yaml:"series,omitempty"`
	Points     []Point     `json:"points,omitempty" yaml:"points,omitempty"`
	References []Reference `json:"references,omitempty" yaml:"references,omitempty"`
	Table      *Table      `json:"table,omitempty" yaml:"table,omitempty"`
}

// Section is one page of the report.
type Section struct {
	ID        SectionID `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Charts    []Chart   `json:"charts,omitempty" yaml:"charts,omitempty"`
	Narrative string    `json:"narrative" yaml:"narrative"`
	Facts     any       `json:"facts,omitempty" yaml:"facts,omitempty"`
}

// Document is a complete report. It is built fresh on every run.
type Document struct {
	Title    string         `json:"title" yaml:"title"`
	Meta     narrative.Meta `json:"meta" yaml:"meta"`
	Sections []Section      `json:"sections" yaml:"sections"`
}

// IDs returns the section identifiers in document order.
func (d *Document) IDs() []SectionID {
	ids := make([]SectionID, len(d.Sections))
	for i, s := range d.Sections {
		ids[i] = s.ID
	}
	return ids
}

// Section returns the section with the given id.
func (d *Document) Section(id SectionID) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
