package baseline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dotcommander/qmreport/internal/report"
)

func testDoc() *report.Document {
	return &report.Document{
		Title: report.DocumentTitle,
		Sections: []report.Section{
			{ID: report.SectionTitle, Title: report.DocumentTitle, Narrative: "Automated analysis of 3 entities."},
			{ID: report.SectionSummary, Title: "Summary table", Narrative: "3 entities total 71 LOC."},
			{ID: report.SectionConclusion, Title: "Conclusion", Narrative: "Largest entity: B."},
		},
	}
}

func TestCreateBaseline(t *testing.T) {
	b := CreateBaseline(testDoc())

	if b.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, b.Version)
	}
	if len(b.Sections) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(b.Sections))
	}
	if b.Sections[0].Section != "title" || b.Sections[2].Section != "conclusion" {
		t.Errorf("entries not in document order: %+v", b.Sections)
	}
	for _, e := range b.Sections {
		if len(e.Digest) != 64 {
			t.Errorf("digest of %s has length %d, want 64", e.Section, len(e.Digest))
		}
	}
	if _, ok := b.Digest("summary"); !ok {
		t.Error("Expected summary digest in index")
	}
}

func TestCreateBaselineIsDeterministic(t *testing.T) {
	first := CreateBaseline(testDoc())
	second := CreateBaseline(testDoc())
	for i := range first.Sections {
		if first.Sections[i] != second.Sections[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first.Sections[i], second.Sections[i])
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *report.Document)
		want   []Drift
	}{
		{
			name:   "identical",
			mutate: func(d *report.Document) {},
		},
		{
			name:   "narrative changed",
			mutate: func(d *report.Document) { d.Sections[1].Narrative += " More." },
			want:   []Drift{{Section: "summary", Kind: DriftChanged}},
		},
		{
			name: "section added",
			mutate: func(d *report.Document) {
				d.Sections = append(d.Sections, report.Section{ID: report.SectionComparison, Title: "Comparison"})
			},
			want: []Drift{{Section: "comparison", Kind: DriftAdded}},
		},
		{
			name:   "section removed",
			mutate: func(d *report.Document) { d.Sections = d.Sections[:2] },
			want:   []Drift{{Section: "conclusion", Kind: DriftRemoved}},
		},
		{
			name: "sections swapped",
			mutate: func(d *report.Document) {
				d.Sections[1], d.Sections[2] = d.Sections[2], d.Sections[1]
			},
			want: []Drift{{Section: "conclusion", Kind: DriftMoved}, {Section: "summary", Kind: DriftMoved}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := CreateBaseline(testDoc())
			doc := testDoc()
			tt.mutate(doc)

			got := b.Compare(doc)
			if len(got) != len(tt.want) {
				t.Fatalf("Compare() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Compare()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSaveAndLoadBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".qmreport-baseline.json")

	b := CreateBaseline(testDoc())
	if err := b.SaveBaseline(path); err != nil {
		t.Fatalf("Failed to save baseline: %v", err)
	}

	loaded, err := LoadBaseline(path)
	if err != nil {
		t.Fatalf("Failed to load baseline: %v", err)
	}
	if drift := loaded.Compare(testDoc()); len(drift) != 0 {
		t.Errorf("Expected no drift after round trip, got %v", drift)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "created") {
		t.Error("baseline must not carry a timestamp")
	}
}

func TestLoadBaselineErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadBaseline(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte("{not json"), 0644)
	if _, err := LoadBaseline(bad); err == nil {
		t.Error("Expected error for malformed file")
	}

	old := filepath.Join(dir, "old.json")
	_ = os.WriteFile(old, []byte(`{"version":"0.1","sections":[]}`), 0644)
	if _, err := LoadBaseline(old); err == nil {
		t.Error("Expected error for unsupported version")
	}
}

func TestDriftString(t *testing.T) {
	if got := (Drift{Section: "summary", Kind: DriftChanged}).String(); got != "summary: changed" {
		t.Errorf("String() = %q", got)
	}
}
