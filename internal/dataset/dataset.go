// Package dataset loads per-class metric exports into a metrics.RecordSet.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dotcommander/qmreport/internal/metrics"
	"go.uber.org/zap"
)

// DefaultDelimiter separates fields in the metric export.
const DefaultDelimiter = ';'

// ErrInvalidDelimiter is returned for delimiters encoding/csv cannot use.
var ErrInvalidDelimiter = errors.New("invalid delimiter")

// SchemaError reports required columns absent from the header row.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

type field int

const (
	fieldName field = iota
	fieldMethods
	fieldAttributes
	fieldLines
	fieldWMC
	fieldDIT
	fieldCBO
	fieldLCOM
	fieldCount
)

// columns lists the canonical header first, then accepted aliases.
var columns = [fieldCount][]string{
	fieldName:       {"Nom_Classe", "name", "class", "entity"},
	fieldMethods:    {"Nb_Methodes", "method_count", "nom"},
	fieldAttributes: {"Nb_Attributs", "attribute_count", "noa"},
	fieldLines:      {"Lignes_de_Code", "line_count", "loc"},
	fieldWMC:        {"WMC", "weighted_method_complexity"},
	fieldDIT:        {"DIT", "inheritance_depth"},
	fieldCBO:        {"CBO", "coupling_count"},
	fieldLCOM:       {"LCOM", "cohesion_deficit"},
}

// Columns returns the canonical header of every required column in order.
func Columns() []string {
	out := make([]string, fieldCount)
	for i, names := range columns {
		out[i] = names[0]
	}
	return out
}

// Loader reads metric exports.
type Loader struct {
	logger    *zap.Logger
	delimiter rune
}

// Option configures a Loader.
type Option func(*Loader)

// WithDelimiter overrides the field delimiter.
func WithDelimiter(r rune) Option {
	return func(l *Loader) { l.delimiter = r }
}

// NewLoader creates a loader. A nil logger discards log output.
func NewLoader(logger *zap.Logger, opts ...Option) (*Loader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{logger: logger, delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(l)
	}
	if !validDelim(l.delimiter) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, l.delimiter)
	}
	return l, nil
}

func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// ParseDelimiter converts a configured delimiter string to a rune. "tab" and
// "\t" select a tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return DefaultDelimiter, nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || !validDelim(r) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r, nil
}

// LoadFile opens path and loads it.
func (l *Loader) LoadFile(path string) (*metrics.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening metrics file: %w", err)
	}
	defer f.Close()

	set, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.logger.Info("metrics loaded", zap.String("path", path), zap.Int("entities", set.Len()))
	return set, nil
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Load parses an export from r. Cells that are empty or not numeric count as
// zero, decimal values are truncated and negative values floor at zero.
// Rows without a name are skipped.
func (l *Loader) Load(r io.Reader) (*metrics.RecordSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading metrics: %w", err)
	}
	data = bytes.TrimPrefix(data, bom)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = l.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Missing: Columns()}
	}
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	index, err := resolveHeader(header)
	if err != nil {
		return nil, err
	}

	var records []metrics.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading metrics: %w", err)
		}
		if blank(row) {
			continue
		}
		// line where the record starts; quoted cells may span lines
		line, _ := cr.FieldPos(0)

		name := strings.TrimSpace(cell(row, index[fieldName]))
		if name == "" {
			l.logger.Warn("skipping row without entity name", zap.Int("line", line))
			continue
		}

		rec := metrics.Record{Name: name}
		for f := fieldMethods; f < fieldCount; f++ {
			v := l.coerce(cell(row, index[f]), line, columns[f][0])
			switch f {
			case fieldMethods:
				rec.MethodCount = v
			case fieldAttributes:
				rec.AttributeCount = v
			case fieldLines:
				rec.LineCount = v
			case fieldWMC:
				rec.WeightedMethodComplexity = v
			case fieldDIT:
				rec.InheritanceDepth = v
			case fieldCBO:
				rec.CouplingCount = v
			case fieldLCOM:
				rec.CohesionDeficit = v
			}
		}
		records = append(records, rec)
	}

	set, err := metrics.NewRecordSet(records)
	if err != nil {
		return nil, fmt.Errorf("error building record set: %w", err)
	}
	return set, nil
}

func resolveHeader(header []string) ([fieldCount]int, error) {
	var index [fieldCount]int
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := pos[key]; !seen {
			pos[key] = i
		}
	}

	var missing []string
	for f, names := range columns {
		index[f] = -1
		for _, n := range names {
			if i, ok := pos[strings.ToLower(n)]; ok {
				index[f] = i
				break
			}
		}
		if index[f] < 0 {
			missing = append(missing, names[0])
		}
	}
	if len(missing) > 0 {
		return index, &SchemaError{Missing: missing}
	}
	return index, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (l *Loader) coerce(raw string, line int, column string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			l.logger.Debug("non-numeric cell counted as zero",
				zap.Int("line", line), zap.String("column", column), zap.String("value", s))
			return 0
		}
		v = int(f)
	}
	if v < 0 {
		l.logger.Warn("negative value floored at zero",
			zap.Int("line", line), zap.String("column", column), zap.Int("value", v))
		return 0
	}
	return v
}
