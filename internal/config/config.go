package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dotcommander/qmreport/internal/cue"
	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/dotcommander/qmreport/internal/types"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultInput  = "export_metrics.csv"
	DefaultOutput = "rapport_metriques.pdf"
	DefaultGraphs = "graphs"
)

// Formats accepted for the report document. An empty format is inferred
// from the output file extension.
var Formats = []string{"pdf", "markdown", "json", "yaml", "console"}

// ErrInvalidThresholds is returned when threshold overrides fail validation.
var ErrInvalidThresholds = errors.New("invalid threshold overrides")

// Config represents the qmreport configuration
type Config struct {
	Input          string                  `mapstructure:"input" json:"input"`
	Output         string                  `mapstructure:"output" json:"output"`
	Format         string                  `mapstructure:"format" json:"format,omitempty"`
	Quiet          bool                    `mapstructure:"quiet" json:"quiet"`
	Verbose        bool                    `mapstructure:"verbose" json:"verbose"`
	Project        string                  `mapstructure:"project" json:"project,omitempty"`
	Preset         string                  `mapstructure:"preset" json:"preset"`
	Sections       []string                `mapstructure:"sections" json:"sections,omitempty"`
	Tracked        []string                `mapstructure:"tracked" json:"tracked"`
	Thresholds     map[string]scoring.Band `mapstructure:"thresholds" json:"thresholds,omitempty"`
	ThresholdsFile string                  `mapstructure:"thresholdsFile" json:"thresholdsFile,omitempty"`
	CSV            CSVConfig               `mapstructure:"csv" json:"csv"`
	Graphs         GraphsConfig            `mapstructure:"graphs" json:"graphs"`
	Baseline       string                  `mapstructure:"baseline" json:"baseline,omitempty"`
	UpdateBaseline bool                    `mapstructure:"updateBaseline" json:"updateBaseline"`
	MetricsFile    string                  `mapstructure:"metricsFile" json:"metricsFile,omitempty"`
	Index          string                  `mapstructure:"index" json:"index,omitempty"`

	// Date is the report date taken from SOURCE_DATE_EPOCH, empty when unset.
	Date string `mapstructure:"-" json:"-"`
}

// CSVConfig contains input parsing options
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" json:"delimiter"`
}

// GraphsConfig contains per-section image export options
type GraphsConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Dir     string `mapstructure:"dir" json:"dir"`
}

// LoadConfig loads configuration from various sources
func LoadConfig(inputPath string) (*Config, error) {
	viper.SetDefault("input", DefaultInput)
	viper.SetDefault("output", DefaultOutput)
	viper.SetDefault("format", "")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("project", "")
	viper.SetDefault("preset", "full")
	viper.SetDefault("sections", []string{})
	viper.SetDefault("tracked", []string{"wmc", "cbo", "loc", "lcom", "nom"})
	viper.SetDefault("thresholdsFile", "")
	viper.SetDefault("csv.delimiter", ";")
	viper.SetDefault("graphs.enabled", false)
	viper.SetDefault("graphs.dir", DefaultGraphs)
	viper.SetDefault("baseline", "")
	viper.SetDefault("updateBaseline", false)
	viper.SetDefault("metricsFile", "")
	viper.SetDefault("index", "")

	// Config file locations
	configPaths := []string{".qmreportrc.json", ".qmreportrc.yaml", ".qmreportrc.yml"}
	for _, path := range configPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		break
	}

	// Environment variables
	viper.SetEnvPrefix("QMREPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if inputPath != "" {
		config.Input = inputPath
	}

	date, err := sourceDate(os.Getenv("SOURCE_DATE_EPOCH"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	config.Date = date

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// sourceDate converts a reproducible-builds epoch to a report date.
func sourceDate(epoch string) (string, error) {
	if epoch == "" {
		return "", nil
	}
	secs, err := strconv.ParseInt(epoch, 10, 64)
	if err != nil || secs < 0 {
		return "", fmt.Errorf("SOURCE_DATE_EPOCH must be a non-negative integer, got %q", epoch)
	}
	return time.Unix(secs, 0).UTC().Format("2006-01-02"), nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Format != "" && !isFormat(config.Format) {
		return fmt.Errorf("invalid format: %s. Must be one of %s", config.Format, strings.Join(Formats, ", "))
	}

	if config.Input == "" {
		return fmt.Errorf("input file is required")
	}

	if config.Format != "console" && config.Output == "" {
		return fmt.Errorf("output file is required when format is not 'console'")
	}

	if config.Quiet && config.Verbose {
		return fmt.Errorf("quiet and verbose are mutually exclusive")
	}

	if config.UpdateBaseline && config.Baseline == "" {
		return fmt.Errorf("updateBaseline requires a baseline path")
	}

	if config.Graphs.Enabled && config.Graphs.Dir == "" {
		return fmt.Errorf("graphs.dir is required when graphs are enabled")
	}

	for _, name := range config.Tracked {
		if _, err := types.ParseMetric(name); err != nil {
			return fmt.Errorf("tracked: %w", err)
		}
	}

	return nil
}

func isFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// TrackedMetrics returns the metrics the notable selector follows.
func (c *Config) TrackedMetrics() ([]types.Metric, error) {
	out := make([]types.Metric, 0, len(c.Tracked))
	seen := make(map[types.Metric]bool, len(c.Tracked))
	for _, name := range c.Tracked {
		m, err := types.ParseMetric(name)
		if err != nil {
			return nil, err
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}

// ThresholdTable builds the effective threshold table: the defaults, then
// the thresholds file, then inline overrides. Every override layer is
// checked against the thresholds schema.
func (c *Config) ThresholdTable(v *cue.Validator) (*scoring.ThresholdTable, error) {
	table := scoring.DefaultThresholds()

	if c.ThresholdsFile != "" {
		bands, err := LoadThresholdsFile(c.ThresholdsFile)
		if err != nil {
			return nil, err
		}
		if table, err = mergeChecked(table, bands, v, c.ThresholdsFile); err != nil {
			return nil, err
		}
	}

	if len(c.Thresholds) > 0 {
		var err error
		if table, err = mergeChecked(table, c.Thresholds, v, "config"); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// LoadThresholdsFile reads a YAML document mapping metric names to bands.
func LoadThresholdsFile(path string) (map[string]scoring.Band, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading thresholds file: %w", err)
	}
	var bands map[string]scoring.Band
	if err := yaml.Unmarshal(data, &bands); err != nil {
		return nil, fmt.Errorf("error parsing thresholds file %s: %w", path, err)
	}
	return bands, nil
}

func mergeChecked(table *scoring.ThresholdTable, raw map[string]scoring.Band, v *cue.Validator, source string) (*scoring.ThresholdTable, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	data := make(map[string]any, len(raw))
	overrides := make(map[types.Metric]scoring.Band, len(raw))
	setBy := make(map[types.Metric]string, len(raw))
	for _, name := range names {
		b := raw[name]
		key := name
		if m, err := types.ParseMetric(name); err == nil {
			if prev, dup := setBy[m]; dup {
				return nil, fmt.Errorf("%w: %s: %q and %q both set %s", ErrInvalidThresholds, source, prev, name, m)
			}
			setBy[m] = name
			key = string(m)
			overrides[m] = b
		}
		data[key] = map[string]any{"green": b.GreenMax, "orange": b.OrangeMax}
	}

	if v != nil {
		problems, err := v.ValidateThresholds(data, source)
		if err != nil {
			return nil, fmt.Errorf("error validating thresholds: %w", err)
		}
		if len(problems) > 0 {
			msgs := make([]string, len(problems))
			for i, p := range problems {
				msgs[i] = p.String()
			}
			sort.Strings(msgs)
			return nil, fmt.Errorf("%w: %s", ErrInvalidThresholds, strings.Join(msgs, "; "))
		}
	}

	for _, name := range names {
		if _, err := types.ParseMetric(name); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidThresholds, source, err)
		}
	}

	merged, err := table.Merge(overrides)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidThresholds, source, err)
	}
	return merged, nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
