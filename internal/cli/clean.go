package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [subtitle_file]",
	Short: "Clean up caption text",
	Long: `Apply text clean-ups to every caption: find/replace, profanity masking and
automatic punctuation. Steps run in that order.

Examples:
  captionflow clean talk.srt --punctuate
  captionflow clean talk.srt --find gonna --replace "going to"
  captionflow clean talk.srt --profanity --bleep -o talk.clean.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().Bool("punctuate", false, "Capitalize and terminate each caption")
	cleanCmd.Flags().String("find", "", "Text to search for")
	cleanCmd.Flags().String("replace", "", "Replacement text for --find")
	cleanCmd.Flags().Bool("case-sensitive", false, "Match --find case-sensitively")
	cleanCmd.Flags().Bool("profanity", false, "Mask profanity")
	cleanCmd.Flags().Bool("bleep", false, "Mask profanity with [bleep] instead of asterisks")
}

func runClean(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	punctuate, _ := cmd.Flags().GetBool("punctuate")
	find, _ := cmd.Flags().GetString("find")
	replace, _ := cmd.Flags().GetString("replace")
	caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
	profanity, _ := cmd.Flags().GetBool("profanity")
	bleep, _ := cmd.Flags().GetBool("bleep")

	if !punctuate && find == "" && !profanity {
		return fmt.Errorf("nothing to do: pass --punctuate, --find or --profanity")
	}

	store, err := loadStore(inputPath)
	if err != nil {
		return err
	}

	if find != "" {
		n, err := store.FindReplace(find, replace, caseSensitive)
		if err != nil {
			return err
		}
		fmt.Printf("Replaced %d occurrences of %q\n", n, find)
	}
	if profanity {
		store.ApplyProfanityFilter(bleep)
	}
	if punctuate {
		store.AutoPunctuate()
	}

	logger.Infow("Cleaned captions",
		"find", find,
		"profanity", profanity,
		"punctuate", punctuate,
		"captions", store.Len(),
	)

	return saveStore(store, outputFor(inputPath, outputPath, "clean"))
}
