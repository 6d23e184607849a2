package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rulescope/internal/chunker"
	"rulescope/internal/detector"
)

var chunkStrategy string

var chunkCmd = &cobra.Command{
	Use:   "chunk <file>",
	Short: "Plan LLM-sized chunks for a legacy file",
	Long: `Split a legacy source file into chunks sized for LLM processing,
respecting section and rule boundaries where the detected language
exposes them.

Examples:
  rulescope chunk policy.cbl
  rulescope chunk --strategy fixed_size policy.cbl
  rulescope chunk --format json policy.cbl > chunks.json`,
	Args:         cobra.ExactArgs(1),
	RunE:         runChunk,
	SilenceUsage: true,
}

func init() {
	chunkCmd.Flags().StringVar(&chunkStrategy, "strategy", "", "Force a strategy (section_aware, rule_boundary, smart_overlap, fixed_size)")
	RootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	filename, content, err := readSource(args[0])
	if err != nil {
		return err
	}

	store, err := loadProfiles()
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}

	spin := GetUI().StartSimpleSpinner(os.Stderr, "Planning chunks...")
	det := detector.New(store).Detect(filename, content)
	ch := chunker.New(store.Fallback(), chunker.NewContextCache(0))

	var res chunker.Result
	if chunkStrategy != "" {
		strategy, err := chunker.ParseStrategy(chunkStrategy)
		if err != nil {
			spin.Stop()
			return err
		}
		res = ch.ChunkWithStrategy(content, filename, det, strategy)
	} else {
		res = ch.Chunk(content, filename, det)
	}
	spin.Stop()

	if verbose {
		fmt.Fprintf(os.Stderr, "Detected %s (%.1f%% confidence)\n", det.Language, det.Confidence*100)
	}

	return newReporter().Chunking(res)
}
