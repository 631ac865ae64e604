package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dotcommander/qmreport/internal/config"
	"github.com/dotcommander/qmreport/internal/cue"
	"github.com/dotcommander/qmreport/internal/scoring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Print the effective threshold table",
	Long: `Prints the green and orange bounds of every classified metric after applying
the thresholds file and inline overrides. With --format yaml the output can be
used as a thresholds file.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runThresholds(cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(thresholdsCmd)
}

// effectiveThresholds loads the configuration and its validated threshold
// table.
func effectiveThresholds() (*config.Config, *scoring.ThresholdTable, error) {
	cfg, err := loadConfig(nil)
	if err != nil {
		return nil, nil, err
	}
	v := cue.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, nil, err
	}
	table, err := cfg.ThresholdTable(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, table, nil
}

func runThresholds(w io.Writer) error {
	cfg, table, err := effectiveThresholds()
	if err != nil {
		return err
	}

	if cfg.Format == "yaml" {
		bands := make(map[string]scoring.Band, len(table.Kinds()))
		for m, b := range table.Bands() {
			bands[string(m)] = b
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(bands); err != nil {
			return fmt.Errorf("error encoding thresholds: %w", err)
		}
		return enc.Close()
	}

	tw := tablewriter.NewTable(w)
	tw.Header("Metric", "Key", "Green", "Orange", "Red")
	for _, m := range table.Kinds() {
		b, _ := table.Lookup(m)
		green := formatBound(b.GreenMax)
		orange := formatBound(b.OrangeMax)
		if err := tw.Append(m.Label(), string(m), "≤ "+green, "≤ "+orange, "> "+orange); err != nil {
			return err
		}
	}
	return tw.Render()
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
