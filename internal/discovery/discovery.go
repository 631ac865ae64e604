package discovery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dotcommander/qmreport/internal/report"
)

var (
	// ErrNoInput is returned when a directory holds no metric export.
	ErrNoInput = errors.New("no metrics export found")
	// ErrNoMatch is returned when a section pattern selects nothing.
	ErrNoMatch = errors.New("pattern matches no section")
)

// InputPatterns are tried in order when the input path is a directory.
// Within a pattern, the lexically first match wins.
var InputPatterns = []string{
	"**/export_metrics.csv",
	"**/*.csv",
}

// ResolveInput returns the absolute path of the metrics export. A directory
// is searched with InputPatterns.
//
// Example:
//
//	path, err := ResolveInput("generated/")
//	if err != nil {
//	    return err
//	}
func ResolveInput(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s: %w", absPath, err)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s: %w", absPath, err)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.IsDir() {
		found, err := findInput(absPath)
		if err != nil {
			return "", err
		}
		absPath = found
	}

	return ValidateFilePath(absPath)
}

func findInput(dir string) (string, error) {
	fsys := os.DirFS(dir)
	for _, pattern := range InputPatterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return "", fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return filepath.Join(dir, filepath.FromSlash(matches[0])), nil
	}
	return "", fmt.Errorf("%w in %s (tried %s)", ErrNoInput, dir, strings.Join(InputPatterns, ", "))
}

// ValidateFilePath checks that path is a readable text file and returns its
// absolute, symlink-resolved form.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s: %w", absPath, err)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	// Read first 512 bytes for binary detection
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}

// SelectSections expands configured section entries against the catalog.
// An entry is either a section identifier or a doublestar pattern such as
// "metric/*". Patterns expand in catalog order; a section already selected
// is not repeated.
func SelectSections(entries []string, catalog []report.SectionID) ([]report.SectionID, error) {
	var out []report.SectionID
	seen := make(map[report.SectionID]bool)
	add := func(id report.SectionID) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}

		if !isPattern(entry) {
			id, err := report.ParseSectionID(entry)
			if err != nil {
				return nil, err
			}
			add(id)
			continue
		}

		if !doublestar.ValidatePattern(entry) {
			return nil, fmt.Errorf("invalid section pattern %q: %w", entry, doublestar.ErrBadPattern)
		}
		matched := false
		for _, id := range catalog {
			if ok, _ := doublestar.Match(entry, string(id)); ok {
				matched = true
				add(id)
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: %q", ErrNoMatch, entry)
		}
	}
	return out, nil
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
