package cli

import (
	"github.com/spf13/cobra"

	"github.com/captionflow/captionflow/internal/config"
	"github.com/captionflow/captionflow/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "captionflow",
	Short: "Caption editing engine for timed text",
	Long: `Captionflow edits timed captions: it converts between subtitle formats,
retimes and cleans caption text, reports reading-speed problems and overlaps,
computes audio waveforms for scrubbing and serves an HTTP editing API.

Supported formats: srt, vtt, ass, json, ttml (read/write), edl, fcpxml (write).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Debugw("Configuration loaded", "path", configPath, "addr", cfg.Server.Addr)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Config file path (default captionflow.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
