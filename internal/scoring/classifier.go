package scoring

import (
	"errors"
	"fmt"

	"github.com/dotcommander/qmreport/internal/types"
)

// ErrUnknownMetricKind is matched by every UnknownMetricKindError.
var ErrUnknownMetricKind = errors.New("unknown metric kind")

// UnknownMetricKindError reports a classification request for a metric
// without a threshold row.
type UnknownMetricKindError struct {
	Kind types.Metric
}

func (e *UnknownMetricKindError) Error() string {
	return fmt.Sprintf("unknown metric kind %q: no threshold defined", e.Kind)
}

// Is makes errors.Is(err, ErrUnknownMetricKind) succeed.
func (e *UnknownMetricKindError) Is(target error) bool {
	return target == ErrUnknownMetricKind
}

// Classifier maps metric values to tiers using a fixed threshold table.
type Classifier struct {
	table *ThresholdTable
}

// NewClassifier creates a classifier bound to table.
func NewClassifier(table *ThresholdTable) *Classifier {
	return &Classifier{table: table}
}

// Table returns the threshold table the classifier reads.
func (c *Classifier) Table() *ThresholdTable {
	return c.table
}

// Classify returns the tier of value for kind. Boundaries belong to the
// lower tier: a value equal to GreenMax is green.
func (c *Classifier) Classify(value float64, kind types.Metric) (types.Tier, error) {
	band, ok := c.table.Lookup(kind)
	if !ok {
		return "", &UnknownMetricKindError{Kind: kind}
	}
	return TierFromValue(value, band), nil
}

// ClassifyAll classifies every value for kind.
func (c *Classifier) ClassifyAll(values []float64, kind types.Metric) ([]types.Tier, error) {
	band, ok := c.table.Lookup(kind)
	if !ok {
		return nil, &UnknownMetricKindError{Kind: kind}
	}
	tiers := make([]types.Tier, len(values))
	for i, v := range values {
		tiers[i] = TierFromValue(v, band)
	}
	return tiers, nil
}

// Require fails if any of kinds has no threshold row. Run it at startup so
// a mismatch between configured sections and the table never reaches a
// classification call.
func (c *Classifier) Require(kinds ...types.Metric) error {
	var missing []error
	for _, k := range kinds {
		if _, ok := c.table.Lookup(k); !ok {
			missing = append(missing, &UnknownMetricKindError{Kind: k})
		}
	}
	return errors.Join(missing...)
}

// TierFromValue returns the tier for value within band.
func TierFromValue(value float64, band Band) types.Tier {
	switch {
	case value <= band.GreenMax:
		return types.TierGreen
	case value <= band.OrangeMax:
		return types.TierOrange
	default:
		return types.TierRed
	}
}
