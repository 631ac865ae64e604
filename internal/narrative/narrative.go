// Package narrative turns computed metrics into report text. Every generator
// returns the text together with the facts it was derived from, so callers can
// check the content without depending on the wording.
package narrative

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dotcommander/qmreport/internal/derived"
	"github.com/dotcommander/qmreport/internal/notable"
	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/textutil"
	"github.com/dotcommander/qmreport/internal/types"
)

// Fixed sentences other packages and tests rely on.
const (
	NoEntities      = "No entities were analysed."
	NoEntityExceeds = "No entity exceeds the threshold"
	NoNotable       = "No notable entity: every tracked metric is zero across the record set."
)

// ComparisonAxes are the metrics shown in the multi-metric comparison.
var ComparisonAxes = []types.Metric{
	types.MetricLines,
	types.MetricMethods,
	types.MetricWMC,
	types.MetricCBO,
	types.MetricLCOM,
}

func formatValue(m types.Metric, v float64) string {
	return textutil.FormatFloat(v, m.Describe().Decimals)
}

func formatMean(m types.Metric, v float64) string {
	d := m.Describe().Decimals
	if d < 1 {
		d = 1
	}
	return textutil.FormatFloat(v, d)
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func aggregate(t *derived.Table, m types.Metric) derived.Aggregate {
	agg, err := t.Aggregate(m)
	if err != nil {
		// every canonical metric is aggregated by derived.Compute
		panic(err)
	}
	return agg
}

// Title writes the title page text.
func Title(meta Meta, t *derived.Table) (string, TitleFacts) {
	facts := TitleFacts{Project: meta.Project, Date: meta.Date, Entities: t.Len()}

	var lines []string
	if meta.Project != "" {
		lines = append(lines, fmt.Sprintf("Project: %s.", meta.Project))
	}
	if t.Len() == 0 {
		lines = append(lines, NoEntities)
	} else {
		lines = append(lines, fmt.Sprintf("Automated analysis of %d %s.", t.Len(), textutil.Plural(t.Len(), "entity", "entities")))
	}
	if meta.Date != "" {
		lines = append(lines, fmt.Sprintf("Generated on %s.", meta.Date))
	}
	return strings.Join(lines, "\n"), facts
}

// SizeOverview describes the LOC, NOM and NOA comparison.
func SizeOverview(t *derived.Table) (string, OverviewFacts) {
	loc := aggregate(t, types.MetricLines)
	nom := aggregate(t, types.MetricMethods)
	noa := aggregate(t, types.MetricAttributes)

	facts := OverviewFacts{
		Entities:        t.Len(),
		TopLines:        Extremum{Name: loc.MaxEntity, Value: loc.Max},
		TopMethods:      Extremum{Name: nom.MaxEntity, Value: nom.Max},
		TotalLines:      int(loc.Sum),
		TotalMethods:    int(nom.Sum),
		TotalAttributes: int(noa.Sum),
	}

	intro := "This chart compares the three size metrics (LOC, NOM, NOA) of each entity."
	if t.Len() == 0 {
		return textutil.Paragraphs(intro, NoEntities), facts
	}

	body := fmt.Sprintf(
		"%s has the most lines of code (%s LOC), while %s has the most methods (%s). "+
			"An imbalance between LOC and NOM can indicate methods that are too long or a lack of functional decomposition.",
		loc.MaxEntity, formatValue(types.MetricLines, loc.Max),
		nom.MaxEntity, formatValue(types.MetricMethods, nom.Max),
	)
	return textutil.Paragraphs(intro, body), facts
}

// SizeScatter describes LOC against NOM and the entities above and below the
// overall LOC per method ratio.
func SizeScatter(t *derived.Table) (string, ScatterFacts) {
	ratio := t.OverallLinesPerMethod()
	facts := ScatterFacts{
		Entities:     t.Len(),
		AverageRatio: ratio,
		Above:        []string{},
		Below:        []string{},
	}

	set := t.Records()
	for i := 0; i < set.Len(); i++ {
		r := set.At(i)
		if float64(r.LineCount) > ratio*float64(r.MethodCount) {
			facts.Above = append(facts.Above, r.Name)
		} else {
			facts.Below = append(facts.Below, r.Name)
		}
	}

	intro := fmt.Sprintf(
		"Each entity is placed by its number of methods (x axis) and its lines of code (y axis). "+
			"Marker size follows the number of attributes (NOA). "+
			"The dashed line is the average ratio of %s LOC per method.",
		textutil.FormatFloat(ratio, 1),
	)
	if t.Len() == 0 {
		return textutil.Paragraphs(intro, NoEntities), facts
	}

	body := fmt.Sprintf(
		"Above the average (longer methods): %s.\nBelow the average (more concise methods): %s.",
		textutil.JoinNames(facts.Above, "none"),
		textutil.JoinNames(facts.Below, "none"),
	)
	return textutil.Paragraphs(intro, body), facts
}

// MetricBreakdown describes one classified metric. The text always contains
// NoEntityExceeds when no entity is red, and the remediation when one is.
func MetricBreakdown(t *derived.Table, c *scoring.Classifier, m types.Metric) (string, MetricFacts, error) {
	band, ok := c.Table().Lookup(m)
	if !ok {
		return "", MetricFacts{}, &scoring.UnknownMetricKindError{Kind: m}
	}
	values, err := t.Values(m)
	if err != nil {
		return "", MetricFacts{}, err
	}
	tiers, err := c.ClassifyAll(values, m)
	if err != nil {
		return "", MetricFacts{}, err
	}

	agg := aggregate(t, m)
	green, orange, red := scoring.Partition(t.Records().Names(), tiers)
	facts := MetricFacts{
		Metric:         m,
		Entities:       t.Len(),
		Mean:           agg.Mean,
		Max:            Extremum{Name: agg.MaxEntity, Value: agg.Max},
		Thresholds:     band,
		Counts:         scoring.CountTiers(tiers),
		GreenEntities:  green,
		OrangeEntities: orange,
		RedEntities:    red,
	}

	label := m.Label()
	g := guidanceFor(m)
	legend := fmt.Sprintf("Green = good (%s <= %s), Orange = acceptable (<= %s), Red = critical (> %s).",
		label, formatThreshold(band.GreenMax), formatThreshold(band.OrangeMax), formatThreshold(band.OrangeMax))

	if t.Len() == 0 {
		return textutil.Paragraphs(g.interpretation, legend, NoEntities+" "+NoEntityExceeds+"."), facts, nil
	}

	stats := fmt.Sprintf("Mean %s: %s. Highest: %s (%s).",
		label, formatMean(m, agg.Mean), agg.MaxEntity, formatValue(m, agg.Max))

	var tiersText []string
	if len(orange) > 0 {
		tiersText = append(tiersText, fmt.Sprintf("Orange (acceptable): %s.", textutil.JoinNames(orange, "")))
	}
	switch {
	case len(red) > 0:
		tiersText = append(tiersText, fmt.Sprintf("Red (critical): %s.", textutil.JoinNames(red, "")))
		facts.Recommendation = g.remediation
	case len(orange) > 0:
		tiersText = append(tiersText, fmt.Sprintf("%s of %s.", NoEntityExceeds, formatThreshold(band.OrangeMax)))
	default:
		tiersText = append(tiersText, fmt.Sprintf("%s: all %d %s green.",
			NoEntityExceeds, t.Len(), textutil.Plural(t.Len(), "entity is", "entities are")))
	}

	return textutil.Paragraphs(
		g.interpretation,
		stats+"\n"+legend,
		strings.Join(tiersText, "\n"),
		facts.Recommendation,
	), facts, nil
}

// Comparison describes the notable entities over ComparisonAxes, each value
// normalised by the metric's maximum across all entities.
func Comparison(t *derived.Table, set *notable.Set) (string, ComparisonFacts) {
	facts := ComparisonFacts{
		Axes:     append([]types.Metric(nil), ComparisonAxes...),
		Notable:  set.Names(),
		Compared: []ComparedEntity{},
	}

	for _, e := range set.Entries() {
		ce := ComparedEntity{Name: e.Name, Maximum: e.Maximum, Values: make([]AxisValue, 0, len(ComparisonAxes))}
		for _, m := range ComparisonAxes {
			v, err := t.Value(e.Index, m)
			if err != nil {
				panic(err)
			}
			av := AxisValue{Metric: m, Value: v}
			if peak := aggregate(t, m).Max; peak > 0 {
				av.Normalised = v / peak
			}
			ce.Values = append(ce.Values, av)
		}
		facts.Compared = append(facts.Compared, ce)
	}

	labels := make([]string, len(ComparisonAxes))
	for i, m := range ComparisonAxes {
		labels[i] = m.Label()
	}
	intro := fmt.Sprintf(
		"This view overlays %s, each normalised to [0, 1] by its maximum, for the notable entities: "+
			"those reaching the maximum of at least one tracked metric.",
		strings.Join(labels, ", "),
	)

	switch {
	case t.Len() == 0:
		return textutil.Paragraphs(intro, NoEntities), facts
	case set.Len() == 0:
		return textutil.Paragraphs(intro, NoNotable), facts
	}

	body := fmt.Sprintf("Entities shown: %s.\nAn entity covering a large area concentrates several quality risks.",
		textutil.JoinNames(facts.Notable, ""))
	return textutil.Paragraphs(intro, body), facts
}

// Summary describes the full metrics table.
func Summary(t *derived.Table) (string, SummaryFacts) {
	facts := SummaryFacts{
		Entities:              t.Len(),
		TotalLines:            int(aggregate(t, types.MetricLines).Sum),
		TotalMethods:          int(aggregate(t, types.MetricMethods).Sum),
		TotalAttributes:       int(aggregate(t, types.MetricAttributes).Sum),
		AverageLinesPerMethod: t.OverallLinesPerMethod(),
		MeanWMC:               aggregate(t, types.MetricWMC).Mean,
		MeanCBO:               aggregate(t, types.MetricCBO).Mean,
		MeanLCOM:              aggregate(t, types.MetricLCOM).Mean,
	}

	if t.Len() == 0 {
		return textutil.Paragraphs("Complete metrics table.", NoEntities), facts
	}

	totals := fmt.Sprintf("Totals: LOC %d | methods %d | attributes %d",
		facts.TotalLines, facts.TotalMethods, facts.TotalAttributes)
	averages := fmt.Sprintf("Averages: LOC/method %s | WMC %s | CBO %s | LCOM %s",
		textutil.FormatFloat(facts.AverageLinesPerMethod, 1),
		textutil.FormatFloat(facts.MeanWMC, 1),
		textutil.FormatFloat(facts.MeanCBO, 1),
		textutil.FormatFloat(facts.MeanLCOM, 1),
	)
	return textutil.Paragraphs(
		fmt.Sprintf("Complete metrics table for the %d %s.", t.Len(), textutil.Plural(t.Len(), "entity", "entities")),
		totals+"\n"+averages,
	), facts
}

// Conclusion writes the closing synthesis: overview, strengths, attention
// points for every classified metric with red entities, and the largest entity.
func Conclusion(t *derived.Table, c *scoring.Classifier) (string, ConclusionFacts, error) {
	averageMetrics := []types.Metric{
		types.MetricLinesPerMethod,
		types.MetricWMC,
		types.MetricCBO,
		types.MetricLCOM,
		types.MetricDIT,
	}
	loc := aggregate(t, types.MetricLines)
	facts := ConclusionFacts{
		Entities:     t.Len(),
		TotalLines:   int(loc.Sum),
		TotalMethods: int(aggregate(t, types.MetricMethods).Sum),
		Averages:     make(map[types.Metric]float64, len(averageMetrics)),
		Strengths:    []string{},
		Attention:    []AttentionPoint{},
		Largest:      Extremum{Name: loc.MaxEntity, Value: loc.Max},
	}
	for _, m := range averageMetrics {
		facts.Averages[m] = aggregate(t, m).Mean
	}

	if t.Len() == 0 {
		return textutil.Paragraphs("Overview\n"+NoEntities, "Attention points\n"+noAttention), facts, nil
	}

	overview := fmt.Sprintf(
		"Overview\nThe project has %d %s totalling %d LOC in %d methods. "+
			"Average density: %s LOC/method, average WMC: %s, average CBO: %s, average LCOM: %s, average DIT: %s.",
		t.Len(), textutil.Plural(t.Len(), "entity", "entities"), facts.TotalLines, facts.TotalMethods,
		textutil.FormatFloat(facts.Averages[types.MetricLinesPerMethod], 1),
		textutil.FormatFloat(facts.Averages[types.MetricWMC], 1),
		textutil.FormatFloat(facts.Averages[types.MetricCBO], 1),
		textutil.FormatFloat(facts.Averages[types.MetricLCOM], 1),
		textutil.FormatFloat(facts.Averages[types.MetricDIT], 1),
	)

	strengths, err := conclusionStrengths(t, c, facts.Averages)
	if err != nil {
		return "", ConclusionFacts{}, err
	}
	facts.Strengths = strengths

	for _, m := range c.Table().Kinds() {
		values, err := t.Values(m)
		if err != nil {
			return "", ConclusionFacts{}, err
		}
		tiers, err := c.ClassifyAll(values, m)
		if err != nil {
			return "", ConclusionFacts{}, err
		}
		_, _, red := scoring.Partition(t.Records().Names(), tiers)
		if len(red) == 0 {
			continue
		}
		facts.Attention = append(facts.Attention, AttentionPoint{Metric: m, Entities: red, Action: guidanceFor(m).action})
	}

	var sb strings.Builder
	sb.WriteString("Strengths")
	if len(facts.Strengths) == 0 {
		sb.WriteString("\nNo particular strength stands out.")
	}
	for _, s := range facts.Strengths {
		sb.WriteString("\n- " + s)
	}
	strengthsText := sb.String()

	sb.Reset()
	sb.WriteString("Attention points")
	if len(facts.Attention) == 0 {
		sb.WriteString("\n" + noAttention)
	}
	for _, a := range facts.Attention {
		fmt.Fprintf(&sb, "\n- High %s: %s. Action: %s.", a.Metric.Label(), textutil.JoinNames(a.Entities, ""), a.Action)
	}
	attentionText := sb.String()

	largest := fmt.Sprintf("Largest entity: %s (%d LOC, WMC=%d, CBO=%d).",
		loc.MaxEntity, int(loc.Max),
		t.Records().At(loc.MaxIndex).WeightedMethodComplexity,
		t.Records().At(loc.MaxIndex).CouplingCount,
	)

	return textutil.Paragraphs(overview, strengthsText, attentionText, largest), facts, nil
}

const noAttention = NoEntityExceeds + " of the red tier on any metric."

func conclusionStrengths(t *derived.Table, c *scoring.Classifier, averages map[types.Metric]float64) ([]string, error) {
	strengths := []string{}

	if band, ok := c.Table().Lookup(types.MetricLinesPerMethod); ok {
		values, err := t.Values(types.MetricLinesPerMethod)
		if err != nil {
			return nil, err
		}
		tiers, err := c.ClassifyAll(values, types.MetricLinesPerMethod)
		if err != nil {
			return nil, err
		}
		green, _, _ := scoring.Partition(t.Records().Names(), tiers)
		if len(green) > 0 {
			strengths = append(strengths, fmt.Sprintf("Good LOC density (<= %s LOC/method): %s.",
				formatThreshold(band.GreenMax), textutil.JoinNames(green, "")))
		}
	}
	if band, ok := c.Table().Lookup(types.MetricDIT); ok && averages[types.MetricDIT] <= band.GreenMax {
		strengths = append(strengths, fmt.Sprintf("Average DIT of %s: the project favours composition over inheritance.",
			textutil.FormatFloat(averages[types.MetricDIT], 1)))
	}
	if band, ok := c.Table().Lookup(types.MetricCBO); ok && averages[types.MetricCBO] <= band.GreenMax {
		strengths = append(strengths, fmt.Sprintf("Average CBO of %s: coupling is under control (GRASP Low Coupling).",
			textutil.FormatFloat(averages[types.MetricCBO], 1)))
	}
	return strengths, nil
}
