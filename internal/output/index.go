package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dotcommander/qmreport/internal/types"
)

// Artifact is one generated file listed in the artifact index.
type Artifact struct {
	Path        string
	Description string
}

// IndexFormatter writes the README that accompanies published report
// artifacts.
type IndexFormatter struct {
	project string
}

// NewIndexFormatter creates an IndexFormatter.
func NewIndexFormatter(project string) *IndexFormatter {
	return &IndexFormatter{project: project}
}

// Format writes the index listing artifacts and the collected metrics.
func (f *IndexFormatter) Format(w io.Writer, artifacts []Artifact) error {
	var b strings.Builder

	b.WriteString("# Quality report artifacts\n\n")
	if f.project != "" {
		b.WriteString(fmt.Sprintf("Generated for **%s**. ", f.project))
	}
	b.WriteString("This directory holds the output of the metrics report pipeline. It is regenerated on every run.\n\n")

	b.WriteString("## Contents\n\n")
	rows := make([][]string, 0, len(artifacts))
	for _, a := range artifacts {
		rows = append(rows, []string{"`" + a.Path + "`", a.Description})
	}
	table, err := markdownTable([]string{"File", "Description"}, rows)
	if err != nil {
		return fmt.Errorf("error rendering artifact table: %w", err)
	}
	b.WriteString(table)
	b.WriteString("\n")

	b.WriteString("## Metrics\n\n")
	var metricRows [][]string
	for _, m := range types.AllMetrics() {
		d := m.Describe()
		kind := "collected"
		if d.Derived {
			kind = "derived"
		}
		metricRows = append(metricRows, []string{d.Label, d.Title, kind})
	}
	table, err = markdownTable([]string{"Metric", "Description", "Kind"}, metricRows)
	if err != nil {
		return fmt.Errorf("error rendering metric table: %w", err)
	}
	b.WriteString(table)
	b.WriteString("\n")

	b.WriteString("> Do not edit these files by hand. They are overwritten by the next run.\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("error writing index: %w", err)
	}
	return nil
}
