// Package output renders report documents to PDF, Markdown, JSON, YAML,
// the console and PNG chart files.
package output

import (
	"io"
	"strconv"

	"github.com/dotcommander/qmreport/internal/report"
	"github.com/dotcommander/qmreport/internal/textutil"
	"github.com/dotcommander/qmreport/internal/types"
)

// Tool identifies the generator in document headers.
const Tool = "qmreport"

// Version is the generator version, set at build time.
var Version = "dev"

// Formatter renders a document to w.
type Formatter interface {
	Format(w io.Writer, doc *report.Document) error
}

// tabulate flattens a chart into a header row and data rows so text
// formats can show what a picture would.
func tabulate(c report.Chart) (header []string, rows [][]string) {
	switch c.Kind {
	case report.ChartTable:
		if c.Table == nil {
			return nil, nil
		}
		rows = append(rows, c.Table.Rows...)
		if len(c.Table.Footer) > 0 {
			rows = append(rows, c.Table.Footer)
		}
		return c.Table.Columns, rows

	case report.ChartHorizontalBar:
		if len(c.Series) == 0 {
			return nil, nil
		}
		s := c.Series[0]
		header = []string{"Entity", s.Name, "Tier"}
		for i, name := range c.Categories {
			rows = append(rows, []string{name, value(s.Values, i, 2), string(tierAt(s, i))})
		}
		return header, rows

	case report.ChartGroupedBar, report.ChartRadar:
		first := "Entity"
		if c.Kind == report.ChartRadar {
			first = "Axis"
		}
		header = []string{first}
		for _, s := range c.Series {
			header = append(header, s.Name)
		}
		for i, cat := range c.Categories {
			row := []string{cat}
			for _, s := range c.Series {
				row = append(row, value(s.Values, i, 2))
			}
			rows = append(rows, row)
		}
		return header, rows

	case report.ChartScatter:
		header = []string{"Entity", c.XLabel, c.YLabel}
		for _, p := range c.Points {
			rows = append(rows, []string{p.Label, textutil.FormatFloat(p.X, 0), textutil.FormatFloat(p.Y, 0)})
		}
		return header, rows
	}
	return nil, nil
}

func value(values []float64, i, decimals int) string {
	if i >= len(values) {
		return ""
	}
	v := values[i]
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return textutil.FormatFloat(v, decimals)
}

// tierColumn returns the index of the tier column produced by tabulate, or -1.
func tierColumn(c report.Chart) int {
	if c.Kind == report.ChartHorizontalBar {
		return 2
	}
	return -1
}

func parseTier(s string) (types.Tier, bool) {
	for _, t := range types.Tiers() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}
