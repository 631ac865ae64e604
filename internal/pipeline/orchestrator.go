// Package pipeline drives a report run through its stages and names the
// stage that failed.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dotcommander/qmreport/internal/baseline"
	"github.com/dotcommander/qmreport/internal/config"
	"github.com/dotcommander/qmreport/internal/cue"
	"github.com/dotcommander/qmreport/internal/dataset"
	"github.com/dotcommander/qmreport/internal/derived"
	"github.com/dotcommander/qmreport/internal/discovery"
	"github.com/dotcommander/qmreport/internal/narrative"
	"github.com/dotcommander/qmreport/internal/notable"
	"github.com/dotcommander/qmreport/internal/output"
	"github.com/dotcommander/qmreport/internal/outputters"
	"github.com/dotcommander/qmreport/internal/report"
	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/telemetry"
	"github.com/dotcommander/qmreport/internal/types"
	"go.uber.org/zap"
)

// Stage names a pipeline step.
type Stage string

// Stages in run order.
const (
	StageConfigure Stage = "configure"
	StageLoad      Stage = "load"
	StageAnalyse   Stage = "analyse"
	StageAssemble  Stage = "assemble"
	StageExport    Stage = "export"
	StageRender    Stage = "render"
	StageBaseline  Stage = "baseline"
	StageTelemetry Stage = "telemetry"
)

// ErrDrift is returned by Verify when the document no longer matches the
// baseline.
var ErrDrift = errors.New("document differs from baseline")

// ErrNoBaseline is returned by Verify when no baseline path is configured.
var ErrNoBaseline = errors.New("no baseline configured")

// StageError wraps the failure of one stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result holds the outcome of a run.
type Result struct {
	Document *report.Document
	Output   *outputters.Result
	Tiers    []output.MetricTiers
	Drift    []baseline.Drift
	Entities int
}

// Orchestrator coordinates a report run.
type Orchestrator struct {
	cfg      *config.Config
	logger   *zap.Logger
	stdout   io.Writer
	recorder *telemetry.Recorder
}

// NewOrchestrator creates a new pipeline orchestrator.
func NewOrchestrator(cfg *config.Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		cfg:      cfg,
		logger:   logger,
		stdout:   os.Stdout,
		recorder: telemetry.NewRecorder(),
	}
}

// WithStdout redirects console output.
func (o *Orchestrator) WithStdout(w io.Writer) *Orchestrator {
	o.stdout = w
	return o
}

// Recorder returns the telemetry recorder of this orchestrator.
func (o *Orchestrator) Recorder() *telemetry.Recorder {
	return o.recorder
}

// prepared holds what the configure stage builds.
type prepared struct {
	classifier *scoring.Classifier
	tracked    []types.Metric
	assembler  *report.Assembler
	loader     *dataset.Loader
}

// stage runs fn, records its duration and wraps its error.
func (o *Orchestrator) stage(s Stage, fn func() error) error {
	start := time.Now()
	err := fn()
	o.recorder.ObserveStage(string(s), time.Since(start))
	if err != nil {
		o.logger.Debug("stage failed", zap.String("stage", string(s)), zap.Error(err))
		return &StageError{Stage: s, Err: err}
	}
	o.logger.Debug("stage done", zap.String("stage", string(s)), zap.Duration("took", time.Since(start)))
	return nil
}

func (o *Orchestrator) configure() (*prepared, error) {
	p := &prepared{}
	err := o.stage(StageConfigure, func() error {
		v := cue.NewValidator()
		if err := v.LoadSchemas(); err != nil {
			return err
		}
		table, err := o.cfg.ThresholdTable(v)
		if err != nil {
			return err
		}
		p.classifier = scoring.NewClassifier(table)

		if p.tracked, err = o.cfg.TrackedMetrics(); err != nil {
			return err
		}

		order, err := o.sectionOrder(p.classifier)
		if err != nil {
			return err
		}
		if p.assembler, err = report.NewAssembler(order, p.classifier, o.logger); err != nil {
			return err
		}

		delim, err := dataset.ParseDelimiter(o.cfg.CSV.Delimiter)
		if err != nil {
			return err
		}
		p.loader, err = dataset.NewLoader(o.logger, dataset.WithDelimiter(delim))
		return err
	})
	return p, err
}

// sectionOrder returns the configured sections, or the preset layout.
func (o *Orchestrator) sectionOrder(c *scoring.Classifier) ([]report.SectionID, error) {
	if len(o.cfg.Sections) > 0 {
		return discovery.SelectSections(o.cfg.Sections, report.Catalog(c))
	}
	preset := o.cfg.Preset
	if preset == "" {
		preset = report.DefaultPreset
	}
	return report.Preset(preset)
}

// Analyse runs the configure, load and analyse stages.
func (o *Orchestrator) Analyse() (*report.Analysis, error) {
	a, _, err := o.analyse()
	return a, err
}

func (o *Orchestrator) analyse() (*report.Analysis, *prepared, error) {
	p, err := o.configure()
	if err != nil {
		return nil, nil, err
	}

	var table *derived.Table
	if err := o.stage(StageLoad, func() error {
		path, err := discovery.ResolveInput(o.cfg.Input)
		if err != nil {
			return err
		}
		set, err := p.loader.LoadFile(path)
		if err != nil {
			return err
		}
		table = derived.Compute(set)
		return nil
	}); err != nil {
		return nil, nil, err
	}

	var a *report.Analysis
	if err := o.stage(StageAnalyse, func() error {
		selected, err := notable.Select(table, p.tracked)
		if err != nil {
			return err
		}
		a = &report.Analysis{
			Table:      table,
			Classifier: p.classifier,
			Notable:    selected,
			Meta:       narrative.Meta{Project: o.cfg.Project, Date: o.cfg.Date},
		}
		o.logger.Debug("analysis ready",
			zap.Int("entities", table.Len()),
			zap.Strings("notable", selected.Names()))
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return a, p, nil
}

// Build runs every stage up to and including assembly.
func (o *Orchestrator) Build() (*report.Document, *report.Analysis, error) {
	a, p, err := o.analyse()
	if err != nil {
		return nil, nil, err
	}
	var doc *report.Document
	if err := o.stage(StageAssemble, func() error {
		doc, err = p.assembler.Assemble(a)
		return err
	}); err != nil {
		return nil, nil, err
	}
	return doc, a, nil
}

// Run executes the full report workflow.
func (o *Orchestrator) Run() (*Result, error) {
	doc, a, err := o.Build()
	if err != nil {
		return nil, err
	}
	res := &Result{Document: doc, Entities: a.Table.Len()}
	out := outputters.NewOutputter(o.cfg, o.logger).WithStdout(o.stdout)

	var images []output.Image
	if err := o.stage(StageExport, func() error {
		images, err = out.ExportImages(doc)
		return err
	}); err != nil {
		return nil, err
	}

	if err := o.stage(StageRender, func() error {
		if res.Output, err = out.Write(doc, images); err != nil {
			return err
		}
		return out.WriteIndex(res.Output)
	}); err != nil {
		return nil, err
	}

	if err := o.stage(StageBaseline, func() error {
		res.Drift, err = o.baseline(doc)
		return err
	}); err != nil {
		return nil, err
	}

	if err := o.stage(StageTelemetry, func() error {
		res.Tiers, err = output.CollectTiers(a.Table, a.Classifier)
		if err != nil {
			return err
		}
		return o.writeTelemetry(res, a)
	}); err != nil {
		return nil, err
	}

	return res, nil
}

// baseline saves or compares the baseline when one is configured. A
// missing baseline file is not an error on generate.
func (o *Orchestrator) baseline(doc *report.Document) ([]baseline.Drift, error) {
	path := o.cfg.Baseline
	if path == "" {
		return nil, nil
	}

	if o.cfg.UpdateBaseline {
		b := baseline.CreateBaseline(doc)
		if err := b.SaveBaseline(path); err != nil {
			return nil, err
		}
		o.logger.Info("baseline updated", zap.String("path", path), zap.Int("sections", len(b.Sections)))
		return nil, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	b, err := baseline.LoadBaseline(path)
	if err != nil {
		return nil, err
	}
	drift := b.Compare(doc)
	if len(drift) > 0 {
		o.logger.Warn("document differs from baseline", zap.String("path", path), zap.Int("sections", len(drift)))
	}
	return drift, nil
}

// Verify rebuilds the document and compares it with the baseline.
func (o *Orchestrator) Verify() ([]baseline.Drift, error) {
	if o.cfg.Baseline == "" {
		return nil, &StageError{Stage: StageBaseline, Err: ErrNoBaseline}
	}
	doc, _, err := o.Build()
	if err != nil {
		return nil, err
	}

	var drift []baseline.Drift
	if err := o.stage(StageBaseline, func() error {
		b, err := baseline.LoadBaseline(o.cfg.Baseline)
		if err != nil {
			return err
		}
		drift = b.Compare(doc)
		if len(drift) > 0 {
			parts := make([]string, len(drift))
			for i, d := range drift {
				parts[i] = d.String()
			}
			return fmt.Errorf("%w: %s", ErrDrift, strings.Join(parts, ", "))
		}
		return nil
	}); err != nil {
		return drift, err
	}
	return nil, nil
}

func (o *Orchestrator) writeTelemetry(res *Result, a *report.Analysis) error {
	if o.cfg.MetricsFile == "" {
		return nil
	}
	tiers := make(map[types.Metric]scoring.TierCounts, len(res.Tiers))
	for _, m := range res.Tiers {
		tiers[m.Metric] = m.Counts
	}
	o.recorder.Observe(telemetry.Snapshot{
		Entities: res.Entities,
		Notable:  a.Notable.Len(),
		Sections: len(res.Document.Sections),
		Tiers:    tiers,
	})
	if err := o.recorder.WriteTextfile(o.cfg.MetricsFile); err != nil {
		return err
	}
	o.logger.Info("wrote metrics file", zap.String("path", o.cfg.MetricsFile))
	return nil
}
