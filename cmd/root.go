package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/qmreport/internal/config"
	"github.com/dotcommander/qmreport/internal/output"
	"github.com/dotcommander/qmreport/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time.
var Version = "dev"

// exitFunc is replaced in tests.
var exitFunc = os.Exit

var (
	quiet          bool
	verbose        bool
	outputFormat   string
	project        string
	preset         string
	sections       []string
	tracked        []string
	thresholdsFile string
	delimiter      string
	graphs         bool
	graphsDir      string
	indexPath      string
	baselinePath   string
	updateBaseline bool
	metricsFile    string
)

var rootCmd = &cobra.Command{
	Use:   "qmreport [input] [output]",
	Short: "Quality metrics report generator",
	Long: `qmreport reads a per-class metrics export (LOC, NOM, NOA, WMC, DIT, CBO, LCOM),
classifies every value against green/orange/red thresholds, picks the notable
entities and writes an annotated report.

The input defaults to export_metrics.csv and the output to rapport_metriques.pdf.
The output format follows the file extension (.pdf, .md, .json, .yaml) unless
--format is given. A directory input is searched for an export.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGenerate(cmd.OutOrStdout(), cmd.ErrOrStderr(), args); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

// Execute runs the root command.
func Execute() {
	output.Version = Version
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	rootCmd.Version = Version

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and full console output")
	flags.StringVarP(&outputFormat, "format", "f", "", "Output format (pdf|markdown|json|yaml|console), inferred from the output file by default")
	flags.StringVar(&project, "project", "", "Project name shown on the title page")
	flags.StringVar(&preset, "preset", "full", "Section layout preset (full|charts)")
	flags.StringSliceVar(&sections, "section", nil, "Section IDs or patterns such as metric/*; overrides --preset")
	flags.StringSliceVar(&tracked, "tracked", []string{"wmc", "cbo", "loc", "lcom", "nom"}, "Metrics used to pick notable entities")
	flags.StringVar(&thresholdsFile, "thresholds-file", "", "YAML file with threshold overrides")
	flags.StringVar(&delimiter, "delimiter", ";", "CSV field delimiter (a single character or \"tab\")")
	flags.BoolVar(&graphs, "graphs", false, "Export one PNG chart per section")
	flags.StringVar(&graphsDir, "graphs-dir", config.DefaultGraphs, "Directory for exported charts")
	flags.StringVar(&indexPath, "index", "", "Write a Markdown index of generated artifacts to this path")
	flags.StringVar(&baselinePath, "baseline", "", "Baseline file of section digests")
	flags.BoolVar(&updateBaseline, "update-baseline", false, "Write the baseline from this run")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write run statistics in Prometheus text format to this path")

	bindings := map[string]string{
		"quiet":          "quiet",
		"verbose":        "verbose",
		"format":         "format",
		"project":        "project",
		"preset":         "preset",
		"sections":       "section",
		"tracked":        "tracked",
		"thresholdsFile": "thresholds-file",
		"csv.delimiter":  "delimiter",
		"graphs.enabled": "graphs",
		"graphs.dir":     "graphs-dir",
		"index":          "index",
		"baseline":       "baseline",
		"updateBaseline": "update-baseline",
		"metricsFile":    "metrics-file",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

// loadConfig loads the configuration with optional positional input and
// output overrides.
func loadConfig(args []string) (*config.Config, error) {
	var input string
	if len(args) > 0 {
		input = args[0]
	}
	cfg, err := config.LoadConfig(input)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}
	return cfg, nil
}

func runGenerate(stdout, stderr io.Writer, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cfg.Verbose, cfg.Quiet)
	defer func() { _ = logger.Sync() }()

	res, err := pipeline.NewOrchestrator(cfg, logger).WithStdout(stdout).Run()
	if err != nil {
		return err
	}

	for _, d := range res.Drift {
		fmt.Fprintf(stderr, "warning: baseline drift: %s\n", d)
	}
	if !cfg.Quiet && res.Output.Output != "" {
		fmt.Fprintf(stderr, "Report written: %s (%d sections, %d entities)\n",
			res.Output.Output, len(res.Document.Sections), res.Entities)
	}
	return nil
}
