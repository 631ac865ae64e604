package narrative

import (
	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/types"
)

// Meta carries run-level information shown on the title page.
type Meta struct {
	Project string `json:"project,omitempty" yaml:"project,omitempty"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
}

// Extremum names the entity holding an extreme value.
type Extremum struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// TitleFacts backs the title page.
type TitleFacts struct {
	Project  string `json:"project,omitempty" yaml:"project,omitempty"`
	Date     string `json:"date,omitempty" yaml:"date,omitempty"`
	Entities int    `json:"entities" yaml:"entities"`
}

// OverviewFacts backs the size overview page.
type OverviewFacts struct {
	Entities        int      `json:"entities" yaml:"entities"`
	TopLines        Extremum `json:"top_lines" yaml:"top_lines"`
	TopMethods      Extremum `json:"top_methods" yaml:"top_methods"`
	TotalLines      int      `json:"total_lines" yaml:"total_lines"`
	TotalMethods    int      `json:"total_methods" yaml:"total_methods"`
	TotalAttributes int      `json:"total_attributes" yaml:"total_attributes"`
}

// ScatterFacts backs the LOC versus NOM page.
type ScatterFacts struct {
	Entities     int      `json:"entities" yaml:"entities"`
	AverageRatio float64  `json:"average_ratio" yaml:"average_ratio"`
	Above        []string `json:"above" yaml:"above"`
	Below        []string `json:"below" yaml:"below"`
}

// MetricFacts backs a per-metric breakdown page.
type MetricFacts struct {
	Metric         types.Metric       `json:"metric" yaml:"metric"`
	Entities       int                `json:"entities" yaml:"entities"`
	Mean           float64            `json:"mean" yaml:"mean"`
	Max            Extremum           `json:"max" yaml:"max"`
	Thresholds     scoring.Band       `json:"thresholds" yaml:"thresholds"`
	Counts         scoring.TierCounts `json:"counts" yaml:"counts"`
	GreenEntities  []string           `json:"green_entities" yaml:"green_entities"`
	OrangeEntities []string           `json:"orange_entities" yaml:"orange_entities"`
	RedEntities    []string           `json:"red_entities" yaml:"red_entities"`
	Recommendation string             `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// AxisValue is one normalised value in the comparison view.
type AxisValue struct {
	Metric     types.Metric `json:"metric" yaml:"metric"`
	Value      float64      `json:"value" yaml:"value"`
	Normalised float64      `json:"normalised" yaml:"normalised"`
}

// ComparedEntity is one notable entity in the comparison view.
type ComparedEntity struct {
	Name    string         `json:"name" yaml:"name"`
	Maximum []types.Metric `json:"maximum" yaml:"maximum"`
	Values  []AxisValue    `json:"values" yaml:"values"`
}

// ComparisonFacts backs the multi-metric comparison page.
type ComparisonFacts struct {
	Axes     []types.Metric   `json:"axes" yaml:"axes"`
	Notable  []string         `json:"notable" yaml:"notable"`
	Compared []ComparedEntity `json:"compared" yaml:"compared"`
}

// SummaryFacts backs the tabular summary page.
type SummaryFacts struct {
	Entities              int     `json:"entities" yaml:"entities"`
	TotalLines            int     `json:"total_lines" yaml:"total_lines"`
	TotalMethods          int     `json:"total_methods" yaml:"total_methods"`
	TotalAttributes       int     `json:"total_attributes" yaml:"total_attributes"`
	AverageLinesPerMethod float64 `json:"average_lines_per_method" yaml:"average_lines_per_method"`
	MeanWMC               float64 `json:"mean_wmc" yaml:"mean_wmc"`
	MeanCBO               float64 `json:"mean_cbo" yaml:"mean_cbo"`
	MeanLCOM              float64 `json:"mean_lcom" yaml:"mean_lcom"`
}

// AttentionPoint lists the red-tier entities of one metric.
type AttentionPoint struct {
	Metric   types.Metric `json:"metric" yaml:"metric"`
	Entities []string     `json:"entities" yaml:"entities"`
	Action   string       `json:"action" yaml:"action"`
}

// ConclusionFacts backs the closing synthesis.
type ConclusionFacts struct {
	Entities     int                      `json:"entities" yaml:"entities"`
	TotalLines   int                      `json:"total_lines" yaml:"total_lines"`
	TotalMethods int                      `json:"total_methods" yaml:"total_methods"`
	Averages     map[types.Metric]float64 `json:"averages" yaml:"averages"`
	Strengths    []string                 `json:"strengths" yaml:"strengths"`
	Attention    []AttentionPoint         `json:"attention" yaml:"attention"`
	Largest      Extremum                 `json:"largest" yaml:"largest"`
}
