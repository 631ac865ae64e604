package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/dotcommander/qmreport/internal/derived"
	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/textutil"
	"github.com/dotcommander/qmreport/internal/types"
)

// MetricTiers is the tier distribution of one classified metric.
type MetricTiers struct {
	Metric types.Metric
	Band   scoring.Band
	Counts scoring.TierCounts
	Red    []string
	Orange []string
}

// CollectTiers classifies every metric of the classifier's table.
func CollectTiers(t *derived.Table, c *scoring.Classifier) ([]MetricTiers, error) {
	names := t.Records().Names()
	var out []MetricTiers
	for _, m := range c.Table().Kinds() {
		values, err := t.Values(m)
		if err != nil {
			return nil, err
		}
		tiers, err := c.ClassifyAll(values, m)
		if err != nil {
			return nil, err
		}
		band, _ := c.Table().Lookup(m)
		_, orange, red := scoring.Partition(names, tiers)
		out = append(out, MetricTiers{
			Metric: m,
			Band:   band,
			Counts: scoring.CountTiers(tiers),
			Red:    red,
			Orange: orange,
		})
	}
	return out, nil
}

// CompactFormatter prints a summary-first view of tier distributions.
type CompactFormatter struct {
	w         io.Writer
	verbose   bool
	colorize  bool
	barWidth  int
	startTime time.Time
}

// NewCompactFormatter creates a new CompactFormatter. Colour is used only
// when w is a terminal.
func NewCompactFormatter(w io.Writer, verbose bool, startTime time.Time) *CompactFormatter {
	return &CompactFormatter{
		w:         w,
		verbose:   verbose,
		colorize:  isTTY(w),
		barWidth:  20,
		startTime: startTime,
	}
}

// WithColor forces colour on or off.
func (f *CompactFormatter) WithColor(on bool) *CompactFormatter {
	f.colorize = on
	return f
}

func isTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(file.Fd())
}

// FormatAll prints one status line per metric, the red entities, and a
// closing summary line.
func (f *CompactFormatter) FormatAll(entities int, metrics []MetricTiers) error {
	styles := TierStyles()
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	maxNameLen, maxCountLen := calculateColumnWidths(metrics)

	b.WriteString("\n")
	for _, m := range metrics {
		name := m.Metric.Label()
		padding := strings.Repeat(" ", maxNameLen-len(name))
		info := getStatusInfo(m, maxCountLen)

		icon, text := info.icon, info.text
		bar := f.renderBar(m.Counts, entities, styles, dimStyle)
		if f.colorize {
			icon = styles[info.tier].Render(icon)
			text = styles[info.tier].Render(text)
			name = dimStyle.Render(name)
		}
		fmt.Fprintf(&b, "  %s %s%s  %s  %s\n", icon, name, padding, bar, text)
	}

	f.printAttention(&b, metrics, boldStyle, styles)
	f.printSummaryLine(&b, entities, metrics, styles)

	if _, err := io.WriteString(f.w, b.String()); err != nil {
		return fmt.Errorf("error writing summary: %w", err)
	}
	return nil
}

// calculateColumnWidths computes the maximum label and count column widths.
func calculateColumnWidths(metrics []MetricTiers) (maxNameLen, maxCountLen int) {
	for _, m := range metrics {
		if n := len(m.Metric.Label()); n > maxNameLen {
			maxNameLen = n
		}
		if n := len(fmt.Sprintf("%d", m.Counts.Total())); n > maxCountLen {
			maxCountLen = n
		}
	}
	return maxNameLen, maxCountLen
}

// statusInfo groups the status icon, text, and worst tier of a metric.
type statusInfo struct {
	icon string
	text string
	tier types.Tier
}

func getStatusInfo(m MetricTiers, maxCountLen int) statusInfo {
	text := fmt.Sprintf("%*d green, %d orange, %d red", maxCountLen, m.Counts.Green, m.Counts.Orange, m.Counts.Red)
	switch {
	case m.Counts.Red > 0:
		return statusInfo{icon: "✗", text: text, tier: types.TierRed}
	case m.Counts.Orange > 0:
		return statusInfo{icon: "!", text: text, tier: types.TierOrange}
	}
	return statusInfo{icon: "✓", text: text, tier: types.TierGreen}
}

// renderBar draws the green/orange/red proportions of a metric.
func (f *CompactFormatter) renderBar(c scoring.TierCounts, total int, styles map[types.Tier]lipgloss.Style, dim lipgloss.Style) string {
	if total == 0 {
		return strings.Repeat("░", f.barWidth)
	}
	var b strings.Builder
	used := 0
	for _, tier := range types.Tiers() {
		n := c.Get(tier)
		cells := n * f.barWidth / total
		if n > 0 && cells == 0 {
			cells = 1
		}
		if used+cells > f.barWidth {
			cells = f.barWidth - used
		}
		used += cells
		seg := strings.Repeat("█", cells)
		if f.colorize {
			seg = styles[tier].Render(seg)
		}
		b.WriteString(seg)
	}
	rest := strings.Repeat("░", f.barWidth-used)
	if f.colorize {
		rest = dim.Render(rest)
	}
	b.WriteString(rest)
	return b.String()
}

// printAttention lists red entities per metric, and orange ones when verbose.
func (f *CompactFormatter) printAttention(b *strings.Builder, metrics []MetricTiers, bold lipgloss.Style, styles map[types.Tier]lipgloss.Style) {
	var lines []string
	for _, m := range metrics {
		if len(m.Red) > 0 {
			lines = append(lines, f.entityLine(m.Metric, types.TierRed, m.Red, styles))
		}
		if f.verbose && len(m.Orange) > 0 {
			lines = append(lines, f.entityLine(m.Metric, types.TierOrange, m.Orange, styles))
		}
	}
	if len(lines) == 0 {
		return
	}

	heading := "Attention:"
	if f.colorize {
		heading = bold.Render(heading)
	}
	b.WriteString("\n" + heading + "\n")
	for _, l := range lines {
		b.WriteString(l)
	}
}

func (f *CompactFormatter) entityLine(m types.Metric, tier types.Tier, names []string, styles map[types.Tier]lipgloss.Style) string {
	label := fmt.Sprintf("%s %s", m.Label(), tier)
	if f.colorize {
		label = styles[tier].Render(label)
	}
	return fmt.Sprintf("  %s: %s\n", label, strings.Join(names, ", "))
}

func (f *CompactFormatter) printSummaryLine(b *strings.Builder, entities int, metrics []MetricTiers, styles map[types.Tier]lipgloss.Style) {
	red := 0
	for _, m := range metrics {
		red += m.Counts.Red
	}

	text := fmt.Sprintf("%d %s, %d %s, %d red %s",
		entities, textutil.Plural(entities, "entity", "entities"),
		len(metrics), textutil.Plural(len(metrics), "metric", "metrics"),
		red, textutil.Plural(red, "classification", "classifications"))
	if !f.startTime.IsZero() {
		text += fmt.Sprintf(" (%s)", formatDuration(time.Since(f.startTime)))
	}

	if f.colorize {
		tier := types.TierGreen
		if red > 0 {
			tier = types.TierRed
		}
		text = styles[tier].Render(text)
	}
	b.WriteString("\n" + text + "\n")
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
