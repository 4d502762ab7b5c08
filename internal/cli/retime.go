package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var retimeCmd = &cobra.Command{
	Use:   "retime [subtitle_file]",
	Short: "Shift and stretch caption timings",
	Long: `Move every caption by a fixed offset and/or scale all timings by a factor.
Stretching is applied before shifting.

Examples:
  captionflow retime talk.srt --shift 1500
  captionflow retime talk.srt --shift -250 -o talk.synced.srt
  captionflow retime talk.srt --stretch 1.04271 # 23.976 -> 25 fps`,
	Args: cobra.ExactArgs(1),
	RunE: runRetime,
}

func init() {
	rootCmd.AddCommand(retimeCmd)

	retimeCmd.Flags().Int64P("shift", "s", 0, "Offset in milliseconds (negative moves earlier)")
	retimeCmd.Flags().Float64P("stretch", "x", 1, "Factor applied to every start and end time")
}

func runRetime(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	shift, _ := cmd.Flags().GetInt64("shift")
	stretch, _ := cmd.Flags().GetFloat64("stretch")

	if shift == 0 && stretch == 1 {
		return fmt.Errorf("nothing to do: pass --shift and/or --stretch")
	}

	store, err := loadStore(inputPath)
	if err != nil {
		return err
	}

	if stretch != 1 {
		if err := store.StretchAll(stretch); err != nil {
			return err
		}
	}
	if shift != 0 {
		store.ShiftAll(shift)
	}

	logger.Infow("Retimed captions", "shift_ms", shift, "stretch", stretch, "captions", store.Len())

	return saveStore(store, outputFor(inputPath, outputPath, "retimed"))
}
