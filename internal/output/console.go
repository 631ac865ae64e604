package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dotcommander/qmreport/internal/report"
	"github.com/dotcommander/qmreport/internal/types"
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	verbose  bool
	colorize bool
}

// NewConsoleFormatter creates a new ConsoleFormatter. Non-verbose output
// shows only the tables of sections that carry one.
func NewConsoleFormatter(verbose, colorize bool) *ConsoleFormatter {
	return &ConsoleFormatter{verbose: verbose, colorize: colorize}
}

type consoleStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	header  lipgloss.Style
	dim     lipgloss.Style
	tiers   map[types.Tier]lipgloss.Style
}

func (f *ConsoleFormatter) styles() consoleStyles {
	if !f.colorize {
		plain := lipgloss.NewStyle()
		return consoleStyles{
			title: plain, section: plain, header: plain, dim: plain,
			tiers: map[types.Tier]lipgloss.Style{},
		}
	}
	return consoleStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		section: lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		tiers:   TierStyles(),
	}
}

// TierStyles returns the console colour of every tier.
func TierStyles() map[types.Tier]lipgloss.Style {
	return map[types.Tier]lipgloss.Style{
		types.TierGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		types.TierOrange: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		types.TierRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Format prints the document
func (f *ConsoleFormatter) Format(w io.Writer, doc *report.Document) error {
	st := f.styles()
	var b strings.Builder

	b.WriteString(st.title.Render(doc.Title))
	b.WriteString("\n")
	if doc.Meta.Project != "" {
		b.WriteString(st.dim.Render(doc.Meta.Project))
		b.WriteString("\n")
	}

	for _, s := range doc.Sections {
		b.WriteString("\n")
		b.WriteString(st.section.Render(s.Title))
		b.WriteString("\n")

		for _, c := range s.Charts {
			header, rows := tabulate(c)
			if len(header) == 0 {
				continue
			}
			if !f.verbose && c.Kind != report.ChartTable && c.Kind != report.ChartHorizontalBar {
				continue
			}
			b.WriteString(f.renderTable(st, header, rows, tierColumn(c)))
			b.WriteString("\n")
		}

		if s.Narrative != "" && (f.verbose || s.ID == report.SectionConclusion) {
			b.WriteString(s.Narrative)
			b.WriteString("\n")
		}
	}

	if _, err := fmt.Fprint(w, b.String()); err != nil {
		return fmt.Errorf("error writing console output: %w", err)
	}
	return nil
}

func (f *ConsoleFormatter) renderTable(st consoleStyles, header []string, rows [][]string, tierCol int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.dim).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return st.header.Padding(0, 1)
			}
			if col == tierCol && row >= 0 && row < len(rows) && col < len(rows[row]) {
				if tier, ok := parseTier(rows[row][col]); ok {
					if style, ok := st.tiers[tier]; ok {
						return style.Padding(0, 1)
					}
				}
			}
			return cell
		})
	return t.String()
}
