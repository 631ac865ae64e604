package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/qmreport/internal/report"
	"github.com/go-pdf/fpdf"
)

// page geometry in millimetres, landscape letter
const (
	pageMargin  = 15.0
	lineHeight  = 5.5
	chartHeight = 110.0
)

// PDFFormatter writes one page per section.
type PDFFormatter struct {
	stamp time.Time
}

// NewPDFFormatter creates a PDFFormatter. The document creation and
// modification dates are set to stamp so equal input gives equal bytes;
// a zero stamp uses the Unix epoch.
func NewPDFFormatter(stamp time.Time) *PDFFormatter {
	if stamp.IsZero() {
		stamp = time.Unix(0, 0)
	}
	return &PDFFormatter{stamp: stamp.UTC()}
}

// Format writes the document as PDF
func (f *PDFFormatter) Format(w io.Writer, doc *report.Document) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(f.stamp)
	pdf.SetModificationDate(f.stamp)
	pdf.SetCompression(true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(doc.Title), false)
	pdf.SetCreator(Tool, false)
	if doc.Meta.Project != "" {
		pdf.SetSubject(tr(doc.Meta.Project), false)
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(0x95, 0xa5, 0xa6)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d / {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	images := 0
	for i, s := range doc.Sections {
		pdf.AddPage()
		if s.ID == report.SectionTitle {
			titlePage(pdf, tr, doc, s)
			continue
		}

		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(0x2c, 0x3e, 0x50)
		pdf.CellFormat(0, 10, tr(s.Title), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		for j, c := range s.Charts {
			switch {
			case Plottable(c):
				if err := chartImage(pdf, c, fmt.Sprintf("s%02d_c%d", i, j), images); err != nil {
					return fmt.Errorf("error rendering chart for %s: %w", s.ID, err)
				}
				images++
			case c.Kind == report.ChartTable && c.Table != nil:
				tableGrid(pdf, tr, c.Table)
			}
		}

		if s.Narrative != "" {
			pdf.Ln(3)
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(0x2c, 0x3e, 0x50)
			pdf.MultiCell(0, lineHeight, tr(s.Narrative), "", "L", false)
		}

		if err := pdf.Error(); err != nil {
			return fmt.Errorf("error laying out %s: %w", s.ID, err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing PDF: %w", err)
	}
	return nil
}

func titlePage(pdf *fpdf.Fpdf, tr func(string) string, doc *report.Document, s report.Section) {
	_, pageH := pdf.GetPageSize()
	pdf.SetY(pageH * 0.3)

	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetTextColor(0x2c, 0x3e, 0x50)
	pdf.CellFormat(0, 14, tr(doc.Title), "", 1, "C", false, 0, "")

	if doc.Meta.Project != "" {
		pdf.SetFont("Helvetica", "", 18)
		pdf.SetTextColor(0x34, 0x49, 0x5e)
		pdf.CellFormat(0, 12, tr(doc.Meta.Project), "", 1, "C", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0x7f, 0x8c, 0x8d)
	for _, line := range strings.Split(s.Narrative, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.CellFormat(0, 8, tr(line), "", 1, "C", false, 0, "")
	}
}

func chartImage(pdf *fpdf.Fpdf, c report.Chart, name string, seq int) error {
	png, err := embeddedChartPNG(c, seq)
	if err != nil {
		return err
	}
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

	pageW, _ := pdf.GetPageSize()
	width := chartHeight * float64(ChartWidth/ChartHeight)
	x := (pageW - width) / 2
	pdf.ImageOptions(name, x, pdf.GetY(), width, chartHeight, true, opts, 0, "")
	return pdf.Error()
}

func tableGrid(pdf *fpdf.Fpdf, tr func(string) string, t *report.Table) {
	if len(t.Columns) == 0 {
		return
	}
	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*pageMargin
	first := usable * 0.22
	other := (usable - first) / float64(max(len(t.Columns)-1, 1))
	widthOf := func(col int) float64 {
		if col == 0 {
			return first
		}
		return other
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(0x2c, 0x3e, 0x50)
	pdf.SetTextColor(0xff, 0xff, 0xff)
	for i, h := range t.Columns {
		pdf.CellFormat(widthOf(i), 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0x2c, 0x3e, 0x50)
	for r, row := range t.Rows {
		fill := r%2 == 1
		pdf.SetFillColor(0xec, 0xf0, 0xf1)
		for i := range t.Columns {
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widthOf(i), 6, tr(cellAt(row, i)), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(t.Footer) > 0 {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(0xd5, 0xdb, 0xdb)
		for i := range t.Columns {
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widthOf(i), 6, tr(cellAt(t.Footer, i)), "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
