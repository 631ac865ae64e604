package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dotcommander/qmreport/internal/report"
	"github.com/dotcommander/qmreport/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownFormatter_Format(t *testing.T) {
	doc := testDocument(t)
	images := map[report.SectionID]string{
		report.MetricSection(types.MetricWMC): "graphs/04_metric_wmc.png",
	}

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(images).Format(&buf, doc))
	out := buf.String()

	wantContains := []string{
		"# Quality Metrics Report\n",
		"**Project:** NoteManager",
		"**Date:** 2024-05-01",
		"## Contents",
		"(#summary-table)",
		"## Summary table",
		"](graphs/04_metric_wmc.png)",
		"| Entity",
		"| Total",
	}
	for _, want := range wantContains {
		assert.Contains(t, out, want)
	}

	for _, s := range doc.Sections {
		assert.Contains(t, out, "## "+s.Title+"\n")
	}
	assert.Equal(t, 1, strings.Count(out, "!["))
}

func TestMarkdownFormatter_EscapesPipes(t *testing.T) {
	doc := &report.Document{
		Title: "T",
		Sections: []report.Section{{
			ID:    report.SectionSummary,
			Title: "Summary table",
			Charts: []report.Chart{{Kind: report.ChartTable, Table: &report.Table{
				Columns: []string{"Entity"},
				Rows:    [][]string{{"a|b"}},
			}}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(nil).Format(&buf, doc))
	assert.Contains(t, buf.String(), `a\|b`)
	assert.NotContains(t, buf.String(), "## Contents")
}

func TestCreateAnchor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Summary table", "summary-table"},
		{"Scatter plot: LOC vs NOM", "scatter-plot-loc-vs-nom"},
		{"Metrics per entity (LOC, NOM, NOA)", "metrics-per-entity-loc-nom-noa"},
		{"snake_case-name", "snake_case-name"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, createAnchor(tt.in))
		})
	}
}
