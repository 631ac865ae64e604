package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dotcommander/qmreport/internal/report"
	"github.com/dotcommander/qmreport/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageName(t *testing.T) {
	assert.Equal(t, "04_metric_wmc.png", ImageName(4, report.MetricSection(types.MetricWMC)))
	assert.Equal(t, "01_size_overview.png", ImageName(1, report.SectionSizeOverview))
}

func TestExportImages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "graphs")
	doc := testDocument(t)

	images, err := ExportImages(dir, doc)
	require.NoError(t, err)

	var names []string
	for _, img := range images {
		names = append(names, img.Name)
		data, err := os.ReadFile(img.Path)
		require.NoError(t, err)
		assert.Equal(t, pngMagic, data[:len(pngMagic)])
	}
	assert.Equal(t, []string{
		"01_size_overview.png",
		"02_size_scatter.png",
		"03_metric_loc_per_method.png",
		"04_metric_wmc.png",
		"05_metric_cbo.png",
		"06_metric_lcom.png",
		"07_metric_dit.png",
		"08_comparison.png",
	}, names)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(images))
}

func TestExportImagesBadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := ExportImages(filepath.Join(file, "graphs"), testDocument(t))
	assert.Error(t, err)
}
