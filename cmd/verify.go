package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/dotcommander/qmreport/internal/pipeline"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [input]",
	Short: "Check that the report still matches its baseline",
	Long: `Rebuilds the report document without writing it and compares the section
order and every section narrative with the digests stored by --update-baseline.
Exits non-zero when anything drifted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runVerify(cmd.OutOrStdout(), cmd.ErrOrStderr(), args); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(stdout, stderr io.Writer, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cfg.Verbose, cfg.Quiet)
	defer func() { _ = logger.Sync() }()

	drift, err := pipeline.NewOrchestrator(cfg, logger).Verify()
	if errors.Is(err, pipeline.ErrDrift) {
		for _, d := range drift {
			fmt.Fprintf(stderr, "  %s\n", d)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Report matches baseline %s\n", cfg.Baseline)
	return nil
}
