package report

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/dotcommander/qmreport/internal/derived"
	"github.com/dotcommander/qmreport/internal/narrative"
	"github.com/dotcommander/qmreport/internal/notable"
	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/textutil"
	"github.com/dotcommander/qmreport/internal/types"
)

// ErrMissingInput is returned by a builder whose input was not computed.
var ErrMissingInput = errors.New("missing analysis input")

// Analysis bundles the computed inputs every section builder reads.
type Analysis struct {
	Table      *derived.Table
	Classifier *scoring.Classifier
	Notable    *notable.Set
	Meta       narrative.Meta
}

// BuildFunc produces one section from an analysis.
type BuildFunc func(a *Analysis) (Section, error)

var fixedBuilders = map[SectionID]BuildFunc{
	SectionTitle:        buildTitle,
	SectionSizeOverview: buildSizeOverview,
	SectionSizeScatter:  buildSizeScatter,
	SectionComparison:   buildComparison,
	SectionSummary:      buildSummary,
	SectionConclusion:   buildConclusion,
}

func builderFor(id SectionID) (BuildFunc, bool) {
	if b, ok := fixedBuilders[id]; ok {
		return b, true
	}
	if m, ok := id.Metric(); ok && m.Valid() {
		return metricBuilder(m), true
	}
	return nil, false
}

func buildTitle(a *Analysis) (Section, error) {
	text, facts := narrative.Title(a.Meta, a.Table)
	return Section{Title: DocumentTitle, Narrative: text, Facts: facts}, nil
}

func buildSizeOverview(a *Analysis) (Section, error) {
	text, facts := narrative.SizeOverview(a.Table)

	chart := Chart{
		Kind:       ChartGroupedBar,
		XLabel:     "Entities",
		YLabel:     "Value",
		Categories: a.Table.Records().Names(),
	}
	for _, m := range []types.Metric{types.MetricLines, types.MetricMethods, types.MetricAttributes} {
		values, err := a.Table.Values(m)
		if err != nil {
			return Section{}, err
		}
		chart.Series = append(chart.Series, Series{Name: m.Describe().AxisLabel, Values: values})
	}

	return Section{
		Title:     "Metrics per entity (LOC, NOM, NOA)",
		Charts:    []Chart{chart},
		Narrative: text,
		Facts:     facts,
	}, nil
}

func buildSizeScatter(a *Analysis) (Section, error) {
	text, facts := narrative.SizeScatter(a.Table)

	chart := Chart{
		Kind:   ChartScatter,
		XLabel: types.MetricMethods.Describe().AxisLabel,
		YLabel: types.MetricLines.Describe().AxisLabel,
		Points: make([]Point, 0, a.Table.Len()),
		References: []Reference{{
			Label:    fmt.Sprintf("Average ratio: %s LOC/method", textutil.FormatFloat(facts.AverageRatio, 1)),
			Value:    facts.AverageRatio,
			Diagonal: true,
		}},
	}
	for _, r := range a.Table.Records().Records() {
		chart.Points = append(chart.Points, Point{
			Label: r.Name,
			X:     float64(r.MethodCount),
			Y:     float64(r.LineCount),
			Size:  float64(r.AttributeCount),
		})
	}

	return Section{
		Title:     "Scatter plot: LOC vs NOM",
		Charts:    []Chart{chart},
		Narrative: text,
		Facts:     facts,
	}, nil
}

func metricBuilder(m types.Metric) BuildFunc {
	return func(a *Analysis) (Section, error) {
		text, facts, err := narrative.MetricBreakdown(a.Table, a.Classifier, m)
		if err != nil {
			return Section{}, err
		}
		values, err := a.Table.Values(m)
		if err != nil {
			return Section{}, err
		}
		tiers, err := a.Classifier.ClassifyAll(values, m)
		if err != nil {
			return Section{}, err
		}

		// ascending by value; stable so equal values keep record order
		names := a.Table.Records().Names()
		order := make([]int, len(values))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return values[order[i]] < values[order[j]]
		})

		series := Series{Name: m.Label(), Values: make([]float64, len(order)), Tiers: make([]types.Tier, len(order))}
		categories := make([]string, len(order))
		for pos, i := range order {
			categories[pos] = names[i]
			series.Values[pos] = values[i]
			series.Tiers[pos] = tiers[i]
		}

		chart := Chart{
			Kind:       ChartHorizontalBar,
			XLabel:     m.Describe().AxisLabel,
			Categories: categories,
			Series:     []Series{series},
			References: []Reference{
				{Label: fmt.Sprintf("Acceptable threshold (%s)", formatBound(facts.Thresholds.GreenMax)), Value: facts.Thresholds.GreenMax, Tier: types.TierOrange},
				{Label: fmt.Sprintf("Critical threshold (%s)", formatBound(facts.Thresholds.OrangeMax)), Value: facts.Thresholds.OrangeMax, Tier: types.TierRed},
			},
		}

		d := m.Describe()
		return Section{
			Title:     fmt.Sprintf("%s: %s", d.Label, d.Title),
			Charts:    []Chart{chart},
			Narrative: text,
			Facts:     facts,
		}, nil
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func buildComparison(a *Analysis) (Section, error) {
	if a.Notable == nil {
		return Section{}, fmt.Errorf("%w: notable set", ErrMissingInput)
	}
	text, facts := narrative.Comparison(a.Table, a.Notable)

	chart := Chart{Kind: ChartRadar, YLabel: "Normalised value"}
	for _, m := range facts.Axes {
		chart.Categories = append(chart.Categories, m.Label())
	}
	for _, ce := range facts.Compared {
		s := Series{Name: ce.Name, Values: make([]float64, len(ce.Values))}
		for i, v := range ce.Values {
			s.Values[i] = v.Normalised
		}
		chart.Series = append(chart.Series, s)
	}

	return Section{
		Title:     "Multi-metric view of notable entities",
		Charts:    []Chart{chart},
		Narrative: text,
		Facts:     facts,
	}, nil
}

// SummaryColumns are the columns of the summary table.
var SummaryColumns = []string{"Entity", "NOM", "NOA", "LOC", "WMC", "DIT", "CBO", "LCOM", "LOC/M", "CC/M"}

func buildSummary(a *Analysis) (Section, error) {
	text, facts := narrative.Summary(a.Table)

	table := &Table{Columns: append([]string(nil), SummaryColumns...), Rows: make([][]string, 0, a.Table.Len())}
	for i, r := range a.Table.Records().Records() {
		row := a.Table.Row(i)
		table.Rows = append(table.Rows, []string{
			r.Name,
			strconv.Itoa(r.MethodCount),
			strconv.Itoa(r.AttributeCount),
			strconv.Itoa(r.LineCount),
			strconv.Itoa(r.WeightedMethodComplexity),
			strconv.Itoa(r.InheritanceDepth),
			strconv.Itoa(r.CouplingCount),
			strconv.Itoa(r.CohesionDeficit),
			textutil.FormatFloat(row.LinesPerMethod, 1),
			textutil.FormatFloat(row.ComplexityPerMethod, 2),
		})
	}
	if a.Table.Len() > 0 {
		table.Footer = []string{
			"Total",
			strconv.Itoa(facts.TotalMethods),
			strconv.Itoa(facts.TotalAttributes),
			strconv.Itoa(facts.TotalLines),
			"", "", "", "",
			textutil.FormatFloat(facts.AverageLinesPerMethod, 1),
			"",
		}
	}

	return Section{
		Title:     "Summary table",
		Charts:    []Chart{{Kind: ChartTable, Table: table}},
		Narrative: text,
		Facts:     facts,
	}, nil
}

func buildConclusion(a *Analysis) (Section, error) {
	text, facts, err := narrative.Conclusion(a.Table, a.Classifier)
	if err != nil {
		return Section{}, err
	}
	return Section{Title: "Conclusion and recommendations", Narrative: text, Facts: facts}, nil
}
