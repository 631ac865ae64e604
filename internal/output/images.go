package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dotcommander/qmreport/internal/report"
	"github.com/dotcommander/qmreport/internal/textutil"
)

// Image is one exported chart file.
type Image struct {
	Section report.SectionID
	Name    string // file name inside the export directory
	Path    string
}

// ImageName returns the export file name of the section at position index.
func ImageName(index int, id report.SectionID) string {
	return fmt.Sprintf("%02d_%s.png", index, textutil.Slug(string(id)))
}

// ExportImages writes the first plottable chart of every section to dir.
// Sections without one are skipped; numbering follows document position.
func ExportImages(dir string, doc *report.Document) ([]Image, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating image directory: %w", err)
	}

	var images []Image
	for i, s := range doc.Sections {
		chart, ok := firstPlottable(s)
		if !ok {
			continue
		}
		png, err := ChartPNG(chart)
		if err != nil {
			return nil, fmt.Errorf("error rendering %s: %w", s.ID, err)
		}

		name := ImageName(i, s.ID)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, png, 0644); err != nil {
			return nil, fmt.Errorf("error writing image %s: %w", path, err)
		}
		images = append(images, Image{Section: s.ID, Name: name, Path: path})
	}
	return images, nil
}

func firstPlottable(s report.Section) (report.Chart, bool) {
	for _, c := range s.Charts {
		if Plottable(c) {
			return c, true
		}
	}
	return report.Chart{}, false
}
