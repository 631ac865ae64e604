package report

import (
	"errors"
	"fmt"

	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/types"
	"go.uber.org/zap"
)

var (
	// ErrNoSections is returned when the layout is empty.
	ErrNoSections = errors.New("no sections configured")
	// ErrDuplicateSection is returned when a layout lists a section twice.
	ErrDuplicateSection = errors.New("duplicate section")
)

// AssemblyError reports the section whose builder aborted the assembly.
type AssemblyError struct {
	Section SectionID
	Err     error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly aborted at section %q: %v", e.Section, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// Assembler runs section builders in a fixed order.
type Assembler struct {
	order    []SectionID
	builders map[SectionID]BuildFunc
	logger   *zap.Logger
}

// NewAssembler resolves a builder for every section in order and checks that
// every per-metric section has a threshold row in the classifier's table.
func NewAssembler(order []SectionID, c *scoring.Classifier, logger *zap.Logger) (*Assembler, error) {
	if len(order) == 0 {
		return nil, ErrNoSections
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &Assembler{
		order:    append([]SectionID(nil), order...),
		builders: make(map[SectionID]BuildFunc, len(order)),
		logger:   logger,
	}

	var kinds []types.Metric
	for _, id := range order {
		if _, dup := a.builders[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSection, id)
		}
		b, ok := builderFor(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, id)
		}
		a.builders[id] = b
		if m, ok := id.Metric(); ok {
			kinds = append(kinds, m)
		}
	}

	if err := c.Require(kinds...); err != nil {
		return nil, fmt.Errorf("section layout does not match threshold table: %w", err)
	}
	return a, nil
}

// WithBuilder replaces the builder of a section already in the layout.
func (a *Assembler) WithBuilder(id SectionID, fn BuildFunc) *Assembler {
	if _, ok := a.builders[id]; ok {
		a.builders[id] = fn
	}
	return a
}

// Order returns the section layout.
func (a *Assembler) Order() []SectionID {
	return append([]SectionID(nil), a.order...)
}

// Assemble builds every section in order. The first builder failure aborts
// the run and no document is returned.
func (a *Assembler) Assemble(in *Analysis) (*Document, error) {
	if in == nil || in.Table == nil || in.Classifier == nil {
		return nil, fmt.Errorf("%w: derived table and classifier are required", ErrMissingInput)
	}

	doc := &Document{
		Title:    DocumentTitle,
		Meta:     in.Meta,
		Sections: make([]Section, 0, len(a.order)),
	}
	for _, id := range a.order {
		a.logger.Debug("building section", zap.String("section", string(id)))
		section, err := a.builders[id](in)
		if err != nil {
			a.logger.Error("section builder failed", zap.String("section", string(id)), zap.Error(err))
			return nil, &AssemblyError{Section: id, Err: err}
		}
		section.ID = id
		doc.Sections = append(doc.Sections, section)
	}

	a.logger.Info("report assembled",
		zap.Int("sections", len(doc.Sections)),
		zap.Int("entities", in.Table.Len()),
	)
	return doc, nil
}
