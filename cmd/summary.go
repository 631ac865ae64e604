package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotcommander/qmreport/internal/output"
	"github.com/dotcommander/qmreport/internal/pipeline"
	"github.com/dotcommander/qmreport/internal/report"
	"github.com/dotcommander/qmreport/internal/textutil"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [input]",
	Short: "Show the tier distribution of every metric",
	Long: `Loads the export, classifies every metric and prints how many entities fall in
each tier, which entities are red, and which entities are notable. No report file
is written.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSummary(cmd.OutOrStdout(), cmd.ErrOrStderr(), args); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(stdout, stderr io.Writer, args []string) error {
	start := time.Now()
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cfg.Verbose, cfg.Quiet)
	defer func() { _ = logger.Sync() }()

	a, err := pipeline.NewOrchestrator(cfg, logger).Analyse()
	if err != nil {
		return err
	}
	tiers, err := output.CollectTiers(a.Table, a.Classifier)
	if err != nil {
		return err
	}

	printSummaryReport(stdout, a, cfg.Project)
	return output.NewCompactFormatter(stdout, cfg.Verbose, start).FormatAll(a.Table.Len(), tiers)
}

// printStyles holds all the styles used in the summary report.
type printStyles struct {
	header lipgloss.Style
	dim    lipgloss.Style
}

// newPrintStyles creates a new set of print styles.
func newPrintStyles() printStyles {
	return printStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func printSummaryReport(w io.Writer, a *report.Analysis, project string) {
	styles := newPrintStyles()

	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.header.Render("╔═══════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(w, styles.header.Render("║                METRICS TIER SUMMARY                       ║"))
	fmt.Fprintln(w, styles.header.Render("╚═══════════════════════════════════════════════════════════╝"))

	if project != "" {
		fmt.Fprintf(w, "  Project:  %s\n", project)
	}
	fmt.Fprintf(w, "  Entities: %d\n", a.Table.Len())
	fmt.Fprintf(w, "  Notable:  %s\n", styles.dim.Render(textutil.JoinNames(a.Notable.Names(), "none")))
}
