// Package baseline records per-section narrative digests so a later run can
// prove it produced the same document.
package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dotcommander/qmreport/internal/report"
)

// Version of the baseline file format.
const Version = "1.0"

// Entry is the digest of one section.
type Entry struct {
	Section string `json:"section"`
	Digest  string `json:"digest"`
}

// Baseline represents a snapshot of a generated document
type Baseline struct {
	Version  string  `json:"version"`
	Sections []Entry `json:"sections"`
	index    map[string]string
}

// DriftKind classifies a difference between a document and a baseline.
type DriftKind string

// Drift kinds.
const (
	DriftChanged DriftKind = "changed"
	DriftAdded   DriftKind = "added"
	DriftRemoved DriftKind = "removed"
	DriftMoved   DriftKind = "moved"
)

// Drift is one difference found by Compare.
type Drift struct {
	Section string
	Kind    DriftKind
}

func (d Drift) String() string {
	return fmt.Sprintf("%s: %s", d.Section, d.Kind)
}

// CreateBaseline creates a new baseline from a document
func CreateBaseline(doc *report.Document) *Baseline {
	b := &Baseline{Version: Version, Sections: make([]Entry, 0, len(doc.Sections))}
	for _, s := range doc.Sections {
		b.Sections = append(b.Sections, Entry{Section: string(s.ID), Digest: fingerprint(s)})
	}
	b.buildIndex()
	return b
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}
	if b.Version != Version {
		return nil, fmt.Errorf("unsupported baseline version %q", b.Version)
	}

	b.buildIndex()
	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// Compare lists how doc differs from the baseline. An empty result means
// the document has the same sections, in the same order, with the same
// narratives.
func (b *Baseline) Compare(doc *report.Document) []Drift {
	var drift []Drift
	seen := make(map[string]bool, len(doc.Sections))

	for i, s := range doc.Sections {
		id := string(s.ID)
		seen[id] = true
		want, ok := b.index[id]
		switch {
		case !ok:
			drift = append(drift, Drift{Section: id, Kind: DriftAdded})
		case want != fingerprint(s):
			drift = append(drift, Drift{Section: id, Kind: DriftChanged})
		case i >= len(b.Sections) || b.Sections[i].Section != id:
			drift = append(drift, Drift{Section: id, Kind: DriftMoved})
		}
	}

	for _, e := range b.Sections {
		if !seen[e.Section] {
			drift = append(drift, Drift{Section: e.Section, Kind: DriftRemoved})
		}
	}
	return drift
}

// Digest returns the stored digest of a section.
func (b *Baseline) Digest(section string) (string, bool) {
	d, ok := b.index[section]
	return d, ok
}

func (b *Baseline) buildIndex() {
	b.index = make(map[string]string, len(b.Sections))
	for _, e := range b.Sections {
		b.index[e.Section] = e.Digest
	}
}

// fingerprint hashes the identity, title and narrative of a section.
func fingerprint(s report.Section) string {
	data := fmt.Sprintf("%s\x00%s\x00%s", s.ID, s.Title, s.Narrative)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
