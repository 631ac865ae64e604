package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dotcommander/qmreport/internal/report"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	images map[report.SectionID]string
}

// NewMarkdownFormatter creates a new MarkdownFormatter. images maps sections
// to exported chart files, linked relative to the document.
func NewMarkdownFormatter(images map[report.SectionID]string) *MarkdownFormatter {
	return &MarkdownFormatter{images: images}
}

// Format writes the document as Markdown
func (f *MarkdownFormatter) Format(w io.Writer, doc *report.Document) error {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("# %s\n\n", doc.Title))
	if doc.Meta.Project != "" {
		builder.WriteString(fmt.Sprintf("**Project:** %s\n\n", doc.Meta.Project))
	}
	if doc.Meta.Date != "" {
		builder.WriteString(fmt.Sprintf("**Date:** %s\n\n", doc.Meta.Date))
	}

	// Table of contents
	if len(doc.Sections) > 1 {
		builder.WriteString("## Contents\n\n")
		for i, s := range doc.Sections {
			builder.WriteString(fmt.Sprintf("%d. [%s](#%s)\n", i+1, s.Title, createAnchor(s.Title)))
		}
		builder.WriteString("\n")
	}

	for _, s := range doc.Sections {
		builder.WriteString(fmt.Sprintf("## %s\n\n", s.Title))

		if img, ok := f.images[s.ID]; ok {
			builder.WriteString(fmt.Sprintf("![%s](%s)\n\n", s.Title, img))
		}

		for _, c := range s.Charts {
			header, rows := tabulate(c)
			if len(header) == 0 {
				continue
			}
			table, err := markdownTable(header, rows)
			if err != nil {
				return fmt.Errorf("error rendering table for %s: %w", s.ID, err)
			}
			builder.WriteString(table)
			builder.WriteString("\n")
		}

		if s.Narrative != "" {
			builder.WriteString(markdownNarrative(s.Narrative))
			builder.WriteString("\n\n")
		}
	}

	if _, err := io.WriteString(w, builder.String()); err != nil {
		return fmt.Errorf("error writing markdown: %w", err)
	}
	return nil
}

func markdownTable(header []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	table := createStandardTable(header, &buf)
	for _, row := range rows {
		if err := table.Append(escapeCells(row)); err != nil {
			return "", err
		}
	}
	if err := table.Render(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// createStandardTable creates a table writer with standard formatting options
func createStandardTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func escapeCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

// markdownNarrative keeps list lines as Markdown lists and paragraph breaks
// as blank lines.
func markdownNarrative(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
