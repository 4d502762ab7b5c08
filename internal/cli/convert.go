package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/captionflow/captionflow/internal/subtitle"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert a subtitle file to another format",
	Long: `Convert a subtitle file between formats. The input format is detected from
its extension; the output format comes from --to or the output file extension.

Examples:
  captionflow convert talk.srt -o talk.vtt
  captionflow convert talk.srt --to ass
  captionflow convert talk.vtt -o timeline.fcpxml`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("to", "t", "", "Output format (srt, vtt, ass, json, ttml, edl, fcpxml)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	to, _ := cmd.Flags().GetString("to")

	if outputPath == "" && to == "" {
		return fmt.Errorf("either --output or --to is required")
	}

	format, err := targetFormat(outputPath, to)
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + subtitle.ExtensionForFormat(format)
	}
	if outputPath == inputPath {
		return fmt.Errorf("output would overwrite the input file: %s", inputPath)
	}

	logger.Infow("Converting captions", "input", inputPath, "output", outputPath, "format", format)

	store, err := loadStore(inputPath)
	if err != nil {
		return err
	}

	out, err := store.Export(format)
	if err != nil {
		return err
	}
	if err := writeText(outputPath, out); err != nil {
		return err
	}

	fmt.Printf("Converted %d captions to %s: %s\n", store.Len(), format, outputPath)
	return nil
}
