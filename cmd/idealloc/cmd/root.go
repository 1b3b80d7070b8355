package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/idealloc/xlog"
)

var (
	verbose  bool
	logLevel string
)

// rootCmd is the base command; run and heuristic are its children.
var rootCmd = &cobra.Command{
	Use:   "idealloc",
	Short: "Assign byte offsets to jobs with known liveness intervals",
	Long: `idealloc computes a near-optimal static memory layout for a set of
jobs, each alive over an exclusive-exclusive (birth, death) interval and
requiring size bytes, by iteratively boxing jobs into same-height groups
and squeezing the result against a best-fit heuristic fallback.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLevel()
		if err != nil {
			return err
		}
		xlog.SetLevel(level)
		return nil
	},
}

// Execute runs the command tree, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides -v)")

	viper.SetEnvPrefix("idealloc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// resolveLevel picks the effective zerolog level: an explicit --log-level
// or IDEALLOC_LOG_LEVEL wins over -v/--verbose, which wins over the
// xlog default (info).
func resolveLevel() (zerolog.Level, error) {
	if lv := viper.GetString("log-level"); lv != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(lv))
		if err != nil {
			return 0, fmt.Errorf("idealloc: %w", err)
		}
		return parsed, nil
	}
	if verbose {
		return zerolog.DebugLevel, nil
	}
	return zerolog.InfoLevel, nil
}
