// Command traacapture is a small demo harness over the capture pipeline:
// enumerate sources, grab one frame to a PNG, or watch a source and log
// each delivered updated region.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opentraa/traa-sub001/internal/config"
	"github.com/opentraa/traa-sub001/internal/logging"
)

var (
	version = "0.1.0"
	cfgFile string
	opts    *config.Options
)

var log = logging.L("main")

var rootCmd = &cobra.Command{
	Use:   "traacapture",
	Short: "traacapture desktop capture demo CLI",
	Long:  `traacapture drives the capture pipeline from the command line: list sources, capture a single frame, or watch a source for damaged regions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		opts = loaded
		initLogging(opts)
		return nil
	},
}

// initLogging applies opts' log settings, tee-ing to a rotating log file
// alongside stdout when one is configured.
func initLogging(opts *config.Options) {
	output := os.Stdout
	if opts.LogFile != "" {
		rw, err := logging.NewRotatingWriter(opts.LogFile, opts.LogMaxSizeMB, opts.LogMaxBackups)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v (logging to stdout)\n", opts.LogFile, err)
			logging.Init(opts.LogFormat, opts.LogLevel, output)
			return
		}
		logging.Init(opts.LogFormat, opts.LogLevel, logging.TeeWriter(output, rw))
		return
	}
	logging.Init(opts.LogFormat, opts.LogLevel, output)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("traacapture v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: traacapture.yaml in the platform config directory, then in the current directory)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listSourcesCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
