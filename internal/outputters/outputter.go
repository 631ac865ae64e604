package outputters

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/dotcommander/qmreport/internal/config"
	"github.com/dotcommander/qmreport/internal/output"
	"github.com/dotcommander/qmreport/internal/report"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned when no formatter handles a format.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Result describes what Write produced.
type Result struct {
	Format string
	Output string // empty for console output
	Images []output.Image
	Index  string
}

// Artifacts lists the written files for the artifact index.
func (r *Result) Artifacts() []output.Artifact {
	var out []output.Artifact
	if r.Output != "" {
		out = append(out, output.Artifact{Path: filepath.ToSlash(r.Output), Description: "Report document (" + r.Format + ")"})
	}
	for _, img := range r.Images {
		out = append(out, output.Artifact{Path: filepath.ToSlash(img.Path), Description: "Chart for section " + string(img.Section)})
	}
	return out
}

// Outputter handles output formatting
type Outputter struct {
	config *config.Config
	logger *zap.Logger
	stdout io.Writer
}

// NewOutputter creates a new Outputter
func NewOutputter(cfg *config.Config, logger *zap.Logger) *Outputter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Outputter{config: cfg, logger: logger, stdout: os.Stdout}
}

// WithStdout redirects console output.
func (o *Outputter) WithStdout(w io.Writer) *Outputter {
	o.stdout = w
	return o
}

// ResolveFormat returns format, or infers it from the output extension when
// format is empty. Console is used when there is no output path.
func ResolveFormat(format, path string) (string, error) {
	if format != "" {
		for _, f := range config.Formats {
			if f == format {
				return format, nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if path == "" {
		return "console", nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "pdf", nil
	case ".md", ".markdown":
		return "markdown", nil
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	}
	return "", fmt.Errorf("%w: cannot infer from %q", ErrUnsupportedFormat, path)
}

// Stamp returns the fixed document timestamp for the configured date, or
// the zero time when no date is set.
func Stamp(date string) time.Time {
	if date == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ExportImages writes the chart images when graph export is enabled.
func (o *Outputter) ExportImages(doc *report.Document) ([]output.Image, error) {
	if !o.config.Graphs.Enabled {
		return nil, nil
	}
	images, err := output.ExportImages(o.config.Graphs.Dir, doc)
	if err != nil {
		return nil, err
	}
	o.logger.Info("exported chart images", zap.String("dir", o.config.Graphs.Dir), zap.Int("count", len(images)))
	return images, nil
}

// Write renders doc in the configured format. File output is atomic: the
// document appears under its final name only once fully written.
func (o *Outputter) Write(doc *report.Document, images []output.Image) (*Result, error) {
	format, err := ResolveFormat(o.config.Format, o.config.Output)
	if err != nil {
		return nil, err
	}
	res := &Result{Format: format, Images: images}

	formatter, err := o.formatter(format, images)
	if err != nil {
		return nil, err
	}

	if format == "console" {
		return res, formatter.Format(o.stdout, doc)
	}

	if err := WriteFileAtomic(o.config.Output, func(w io.Writer) error {
		return formatter.Format(w, doc)
	}); err != nil {
		return nil, err
	}
	res.Output = o.config.Output
	o.logger.Info("wrote report", zap.String("path", res.Output), zap.String("format", format))
	return res, nil
}

// WriteIndex writes the artifact index when one is configured.
func (o *Outputter) WriteIndex(res *Result) error {
	if o.config.Index == "" {
		return nil
	}
	idx := output.NewIndexFormatter(o.config.Project)
	if err := WriteFileAtomic(o.config.Index, func(w io.Writer) error {
		return idx.Format(w, res.Artifacts())
	}); err != nil {
		return err
	}
	res.Index = o.config.Index
	o.logger.Info("wrote artifact index", zap.String("path", res.Index))
	return nil
}

func (o *Outputter) formatter(format string, images []output.Image) (output.Formatter, error) {
	switch format {
	case "pdf":
		return output.NewPDFFormatter(Stamp(o.config.Date)), nil
	case "markdown":
		return output.NewMarkdownFormatter(imageLinks(o.config.Output, images)), nil
	case "json":
		return output.NewJSONFormatter(true), nil
	case "yaml":
		return output.NewYAMLFormatter(), nil
	case "console":
		return output.NewConsoleFormatter(o.config.Verbose, isTerminal(o.stdout)), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// imageLinks maps sections to image paths relative to the document.
func imageLinks(docPath string, images []output.Image) map[report.SectionID]string {
	if len(images) == 0 {
		return nil
	}
	base := filepath.Dir(docPath)
	links := make(map[report.SectionID]string, len(images))
	for _, img := range images {
		rel, err := filepath.Rel(base, img.Path)
		if err != nil {
			rel = img.Path
		}
		links[img.Section] = filepath.ToSlash(rel)
	}
	return links
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// WriteFileAtomic writes through a temp file in the target directory and
// renames it into place. On failure the target is left untouched.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("error closing temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("error setting permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}
