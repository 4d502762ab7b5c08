package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/captionflow/captionflow/internal/subtitle"
)

// errLintFailed makes the process exit non-zero without repeating the report
var errLintFailed = errors.New("lint found problems")

var lintCmd = &cobra.Command{
	Use:   "lint [subtitle_file]",
	Short: "Report reading-speed problems and overlapping captions",
	Long: `Check a subtitle file for captions that are too fast or too slow to read and
for captions whose time ranges overlap. Exits non-zero when anything is found.

Reading-speed limits come from the reading_speed section of the config file.

Examples:
  captionflow lint talk.srt
  captionflow lint talk.vtt --config strict.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	store, err := loadStore(inputPath)
	if err != nil {
		return err
	}

	warnings := store.AnalyzeReadingSpeed()
	conflicts := store.DetectConflicts()
	captions := store.Captions()

	out := cmd.OutOrStdout()
	for _, w := range warnings {
		fmt.Fprintf(out, "%s  %s\n", span(captions[w.Index]), w.Message)
	}
	for _, c := range conflicts {
		a, b := captions[c.First], captions[c.Second]
		fmt.Fprintf(out, "%s  Caption %d overlaps caption %d (%s)\n",
			span(a), c.First+1, c.Second+1, span(b))
	}

	logger.Infow("Lint finished",
		"file", inputPath,
		"captions", len(captions),
		"warnings", len(warnings),
		"conflicts", len(conflicts),
	)

	if len(warnings) == 0 && len(conflicts) == 0 {
		fmt.Fprintf(out, "%d captions, no problems found\n", len(captions))
		return nil
	}
	fmt.Fprintf(out, "%d captions, %d reading-speed warnings, %d overlaps\n",
		len(captions), len(warnings), len(conflicts))
	return errLintFailed
}

func span(c subtitle.Caption) string {
	return subtitle.FormatSRTTimestamp(c.StartMS) + " --> " + subtitle.FormatSRTTimestamp(c.EndMS)
}
