package outputters

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dotcommander/qmreport/internal/config"
	"github.com/dotcommander/qmreport/internal/output"
	"github.com/dotcommander/qmreport/internal/report"
	"go.uber.org/zap/zaptest"
)

func testDoc() *report.Document {
	return &report.Document{
		Title: report.DocumentTitle,
		Sections: []report.Section{
			{ID: report.SectionTitle, Title: report.DocumentTitle, Narrative: "No entities."},
			{
				ID:    report.SectionSummary,
				Title: "Summary table",
				Charts: []report.Chart{{
					Kind:  report.ChartTable,
					Table: &report.Table{Columns: []string{"Entity", "LOC"}, Rows: [][]string{{"A", "30"}}},
				}},
				Narrative: "One entity.",
			},
		},
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format  string
		path    string
		want    string
		wantErr bool
	}{
		{format: "", path: "rapport_metriques.pdf", want: "pdf"},
		{format: "", path: "report.MD", want: "markdown"},
		{format: "", path: "report.markdown", want: "markdown"},
		{format: "", path: "out/report.json", want: "json"},
		{format: "", path: "report.yml", want: "yaml"},
		{format: "", path: "report.yaml", want: "yaml"},
		{format: "", path: "", want: "console"},
		{format: "json", path: "report.pdf", want: "json"},
		{format: "", path: "report.txt", wantErr: true},
		{format: "html", path: "report.html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format+"|"+tt.path, func(t *testing.T) {
			got, err := ResolveFormat(tt.format, tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ResolveFormat() error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStamp(t *testing.T) {
	if !Stamp("").IsZero() {
		t.Error("Stamp(\"\") should be zero")
	}
	if !Stamp("not a date").IsZero() {
		t.Error("Stamp(invalid) should be zero")
	}
	want := time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC)
	if got := Stamp("2023-11-14"); !got.Equal(want) {
		t.Errorf("Stamp() = %v, want %v", got, want)
	}
}

func TestOutputter_WriteFormats(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		prefix string
	}{
		{name: "pdf", file: "report.pdf", prefix: "%PDF-"},
		{name: "markdown", file: "report.md", prefix: "# Quality Metrics Report"},
		{name: "json", file: "report.json", prefix: "{"},
		{name: "yaml", file: "report.yaml", prefix: "tool: qmreport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", tt.file)
			cfg := &config.Config{Output: path}

			res, err := NewOutputter(cfg, zaptest.NewLogger(t)).Write(testDoc(), nil)
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if res.Format != tt.name {
				t.Errorf("Write() format = %q, want %q", res.Format, tt.name)
			}
			if res.Output != path {
				t.Errorf("Write() output = %q, want %q", res.Output, path)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("output starts with %q, want prefix %q", string(data[:min(len(data), 20)]), tt.prefix)
			}

			entries, _ := os.ReadDir(filepath.Dir(path))
			if len(entries) != 1 {
				t.Errorf("output directory has %d entries, want 1 (no temp files left)", len(entries))
			}
		})
	}
}

func TestOutputter_WriteConsole(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Format: "console"}

	res, err := NewOutputter(cfg, zaptest.NewLogger(t)).WithStdout(&buf).Write(testDoc(), nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if res.Output != "" {
		t.Errorf("console output path = %q, want empty", res.Output)
	}
	if !strings.Contains(buf.String(), "Summary table") {
		t.Errorf("console output missing section title: %s", buf.String())
	}
}

func TestOutputter_WriteUnsupported(t *testing.T) {
	cfg := &config.Config{Output: filepath.Join(t.TempDir(), "report.txt")}
	_, err := NewOutputter(cfg, nil).Write(testDoc(), nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Write() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestOutputter_ExportImages(t *testing.T) {
	dir := t.TempDir()
	doc := testDoc()
	doc.Sections = append(doc.Sections, report.Section{
		ID:    report.SectionSizeOverview,
		Title: "Sizes",
		Charts: []report.Chart{{
			Kind:       report.ChartGroupedBar,
			Categories: []string{"A"},
			Series:     []report.Series{{Name: "LOC", Values: []float64{30}}},
		}},
	})

	disabled := NewOutputter(&config.Config{}, nil)
	images, err := disabled.ExportImages(doc)
	if err != nil || images != nil {
		t.Fatalf("ExportImages() disabled = %v, %v; want nil, nil", images, err)
	}

	cfg := &config.Config{
		Output: filepath.Join(dir, "report.md"),
		Graphs: config.GraphsConfig{Enabled: true, Dir: filepath.Join(dir, "graphs")},
	}
	o := NewOutputter(cfg, zaptest.NewLogger(t))
	images, err = o.ExportImages(doc)
	if err != nil {
		t.Fatalf("ExportImages() error = %v", err)
	}
	if len(images) != 1 || images[0].Name != "02_size_overview.png" {
		t.Fatalf("ExportImages() = %+v, want one 02_size_overview.png", images)
	}

	if _, err := o.Write(doc, images); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "](graphs/02_size_overview.png)") {
		t.Errorf("markdown does not link the exported image:\n%s", data)
	}
}

func TestOutputter_WriteIndex(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Project: "NoteManager"}
	o := NewOutputter(cfg, zaptest.NewLogger(t))

	res := &Result{
		Format: "pdf",
		Output: "rapport_metriques.pdf",
		Images: []output.Image{{Section: report.SectionSizeOverview, Name: "01_size_overview.png", Path: "graphs/01_size_overview.png"}},
	}
	if err := o.WriteIndex(res); err != nil {
		t.Fatalf("WriteIndex() without path error = %v", err)
	}
	if res.Index != "" {
		t.Errorf("index written without configured path")
	}

	cfg.Index = filepath.Join(dir, "README.md")
	if err := o.WriteIndex(res); err != nil {
		t.Fatalf("WriteIndex() error = %v", err)
	}
	data, err := os.ReadFile(cfg.Index)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"NoteManager", "`rapport_metriques.pdf`", "`graphs/01_size_overview.png`"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestWriteFileAtomic_FailureKeepsTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WriteFileAtomic() error = %v, want boom", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "old" {
		t.Errorf("target = %q, want untouched", data)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}
