package output

import (
	"fmt"
	"io"

	"github.com/dotcommander/qmreport/internal/report"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAMLFormatter
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

type yamlReport struct {
	Tool     string           `yaml:"tool"`
	Version  string           `yaml:"version"`
	Document *report.Document `yaml:"document"`
}

// Format writes the document as YAML
func (f *YAMLFormatter) Format(w io.Writer, doc *report.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlReport{Tool: Tool, Version: Version, Document: doc}); err != nil {
		return fmt.Errorf("error marshaling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error flushing YAML: %w", err)
	}
	return nil
}
