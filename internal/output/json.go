package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dotcommander/qmreport/internal/report"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	indent bool
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(indent bool) *JSONFormatter {
	return &JSONFormatter{indent: indent}
}

// JSONReport represents the complete JSON output
type JSONReport struct {
	Header   JSONHeader       `json:"header"`
	Document *report.Document `json:"document"`
}

// JSONHeader identifies the generator. It carries no timestamp so equal
// input yields equal bytes.
type JSONHeader struct {
	Tool     string   `json:"tool"`
	Version  string   `json:"version"`
	Sections []string `json:"sections"`
}

// Format writes the document as JSON
func (f *JSONFormatter) Format(w io.Writer, doc *report.Document) error {
	out := JSONReport{
		Header: JSONHeader{
			Tool:     Tool,
			Version:  Version,
			Sections: make([]string, 0, len(doc.Sections)),
		},
		Document: doc,
	}
	for _, id := range doc.IDs() {
		out.Header.Sections = append(out.Header.Sections, string(id))
	}

	enc := json.NewEncoder(w)
	if f.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	return nil
}
