package cmd

import (
	"fmt"
	"io"

	"github.com/dotcommander/qmreport/internal/discovery"
	"github.com/dotcommander/qmreport/internal/report"
	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/spf13/cobra"
)

var listAll bool

var sectionsCmd = &cobra.Command{
	Use:   "sections [pattern...]",
	Short: "List report sections",
	Long: `Lists the sections the report would contain, in order. Arguments are section
IDs or patterns such as "metric/*" and are expanded the same way as --section.
Use --all to list every section the current thresholds allow.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSections(cmd.OutOrStdout(), args); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	sectionsCmd.Flags().BoolVar(&listAll, "all", false, "List every available section")
	rootCmd.AddCommand(sectionsCmd)
}

func runSections(w io.Writer, args []string) error {
	cfg, table, err := effectiveThresholds()
	if err != nil {
		return err
	}
	catalog := report.Catalog(scoring.NewClassifier(table))

	var ids []report.SectionID
	switch {
	case listAll:
		ids = catalog
	case len(args) > 0:
		ids, err = discovery.SelectSections(args, catalog)
	case len(cfg.Sections) > 0:
		ids, err = discovery.SelectSections(cfg.Sections, catalog)
	default:
		ids, err = report.Preset(cfg.Preset)
	}
	if err != nil {
		return err
	}

	for i, id := range ids {
		fmt.Fprintf(w, "%2d  %s\n", i, id)
	}
	return nil
}
