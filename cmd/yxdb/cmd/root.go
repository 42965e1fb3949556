package cmd

import (
	"github.com/brimdata/yxdb/cli"
	"github.com/brimdata/yxdb/cli/logflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cliFlags cli.Flags
	logFlags logflags.Flags
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "yxdb",
	Short: "read Alteryx yxdb files",
	Long: `yxdb decodes Alteryx database (.yxdb) files and writes their records
as JSON, CSV, an aligned table, an Arrow IPC stream or Parquet.

Input files may be gzip or zstd compressed.  Use "-" to read standard input.`,
	Version:       cli.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logFlags.Open()
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the command named by the program arguments.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cliFlags.SetFlags(rootCmd.PersistentFlags())
	logFlags.SetFlags(rootCmd.PersistentFlags())
}
