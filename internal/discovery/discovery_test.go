package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dotcommander/qmreport/internal/report"
	"github.com/dotcommander/qmreport/internal/scoring"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func resolved(t *testing.T, path string) string {
	t.Helper()
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatal(err)
	}
	return real
}

// TestResolveInput_File tests that a file path is returned as-is
func TestResolveInput_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.csv")
	writeFile(t, path, "Nom_Classe\n")

	got, err := ResolveInput(path)
	if err != nil {
		t.Fatalf("ResolveInput() error = %v", err)
	}
	if got != resolved(t, path) {
		t.Errorf("ResolveInput() = %q, want %q", got, path)
	}
}

// TestResolveInput_Directory tests export discovery inside a directory
func TestResolveInput_Directory(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"canonical name wins", []string{"a.csv", "generated/export_metrics.csv"}, "generated/export_metrics.csv"},
		{"any csv as fallback", []string{"notes.txt", "b/z.csv", "a/y.csv"}, "a/y.csv"},
		{"root export", []string{"export_metrics.csv"}, "export_metrics.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, filepath.Join(dir, f), "x\n")
			}
			got, err := ResolveInput(dir)
			if err != nil {
				t.Fatalf("ResolveInput() error = %v", err)
			}
			want := resolved(t, filepath.Join(dir, filepath.FromSlash(tt.want)))
			if got != want {
				t.Errorf("ResolveInput() = %q, want %q", got, want)
			}
		})
	}
}

func TestResolveInput_EmptyDirectory(t *testing.T) {
	_, err := ResolveInput(t.TempDir())
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("ResolveInput() error = %v, want ErrNoInput", err)
	}
}

func TestResolveInput_Missing(t *testing.T) {
	_, err := ResolveInput(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ResolveInput() error = %v, want not-exist", err)
	}
}

// TestValidateFilePath tests file validation edge cases
func TestValidateFilePath(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.csv")
	writeFile(t, empty, "")
	if _, err := ValidateFilePath(empty); err != nil {
		t.Errorf("empty file should pass validation, got %v", err)
	}

	binary := filepath.Join(dir, "binary.csv")
	writeFile(t, binary, "abc\x00def")
	if _, err := ValidateFilePath(binary); err == nil || !strings.Contains(err.Error(), "binary") {
		t.Errorf("expected binary error, got %v", err)
	}

	if _, err := ValidateFilePath(dir); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("expected directory error, got %v", err)
	}

	target := filepath.Join(dir, "target.csv")
	writeFile(t, target, "x\n")
	link := filepath.Join(dir, "link.csv")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	got, err := ValidateFilePath(link)
	if err != nil {
		t.Fatalf("ValidateFilePath(link) error = %v", err)
	}
	if got != resolved(t, target) {
		t.Errorf("ValidateFilePath(link) = %q, want %q", got, target)
	}
}

// TestSelectSections tests identifier and pattern expansion
func TestSelectSections(t *testing.T) {
	catalog := report.Catalog(scoring.NewClassifier(scoring.DefaultThresholds()))

	tests := []struct {
		name    string
		entries []string
		want    []report.SectionID
	}{
		{
			name:    "plain identifiers keep order",
			entries: []string{"summary", "title"},
			want:    []report.SectionID{report.SectionSummary, report.SectionTitle},
		},
		{
			name:    "metric glob in catalog order",
			entries: []string{"metric/*"},
			want: []report.SectionID{
				"metric/loc_per_method", "metric/wmc", "metric/cbo", "metric/lcom", "metric/dit",
			},
		},
		{
			name:    "size pages by pattern",
			entries: []string{"size/**"},
			want:    []report.SectionID{report.SectionSizeOverview, report.SectionSizeScatter},
		},
		{
			name:    "no duplicates across entries",
			entries: []string{"metric/wmc", "metric/{wmc,cbo}", " Summary "},
			want:    []report.SectionID{"metric/wmc", "metric/cbo", report.SectionSummary},
		},
		{
			name:    "blank entries ignored",
			entries: []string{"", "conclusion"},
			want:    []report.SectionID{report.SectionConclusion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectSections(tt.entries, catalog)
			if err != nil {
				t.Fatalf("SelectSections() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectSections() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectSections_Errors(t *testing.T) {
	catalog := report.Catalog(scoring.NewClassifier(scoring.DefaultThresholds()))

	if _, err := SelectSections([]string{"appendix"}, catalog); !errors.Is(err, report.ErrUnknownSection) {
		t.Errorf("unknown id: got %v", err)
	}
	if _, err := SelectSections([]string{"chart/*"}, catalog); !errors.Is(err, ErrNoMatch) {
		t.Errorf("empty pattern: got %v", err)
	}
	if _, err := SelectSections([]string{"metric/[a"}, catalog); err == nil {
		t.Error("bad pattern: expected error")
	}
}
