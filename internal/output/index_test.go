package output

import (
	"bytes"
	"testing"

	"github.com/dotcommander/qmreport/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexFormatter_Format(t *testing.T) {
	artifacts := []Artifact{
		{Path: "rapport_metriques.pdf", Description: "Report"},
		{Path: "graphs/04_metric_wmc.png", Description: "WMC chart"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewIndexFormatter("NoteManager").Format(&buf, artifacts))
	out := buf.String()

	assert.Contains(t, out, "# Quality report artifacts")
	assert.Contains(t, out, "**NoteManager**")
	assert.Contains(t, out, "`rapport_metriques.pdf`")
	assert.Contains(t, out, "`graphs/04_metric_wmc.png`")
	for _, m := range types.AllMetrics() {
		assert.Contains(t, out, m.Describe().Title)
	}
	assert.Contains(t, out, "derived")
	assert.Contains(t, out, "Do not edit")
}

func TestIndexFormatter_NoProject(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewIndexFormatter("").Format(&buf, nil))
	assert.NotContains(t, buf.String(), "Generated for")
}
