package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"massnet.org/shapipe/logging"
)

func init() {
	cobra.OnInitialize(initLogger)

	rootCmd.PersistentFlags().StringVar(&cfg.logDir, "log_dir", defaultLogDir, "directory for log files")
	rootCmd.PersistentFlags().StringVar(&cfg.logLevel, "log_level", defaultLogLevel, "level of logs (debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(sumCmd)
}

var rootCmd = &cobra.Command{
	Use:   filepath.Base(os.Args[0]),
	Short: "Compute SHA-256 digests with the shapipe engine.",
	Long:  "shasum256 reads one or more files, or stdin, and prints their SHA-256 digests.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.VPrint(logging.FATAL, "command failed", logging.LogFormat{"err": err})
		os.Exit(1)
	}
}
