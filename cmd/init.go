package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/qmreport/internal/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to a config file",
	Long: `Writes the configuration that a report run would use, after defaults, config
files, environment variables and flags, as JSON. The path defaults to
.qmreportrc.json in the current directory. An existing file is kept unless
--force is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInit(cmd.OutOrStdout(), args); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

func runInit(w io.Writer, args []string) error {
	path := ".qmreportrc.json"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(w, "Configuration written to %s\n", path)
	return nil
}
