package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rulescope/internal/chunker"
	"rulescope/internal/completeness"
	"rulescope/internal/detector"
)

var rulesFile string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Grade extraction completeness against a source file",
	Long: `Compare previously extracted rules against the rules the source file
itself suggests should exist, and report gaps by section and category.

The rules file is a JSON array as produced by 'rulescope extract
--format json'.

Examples:
  rulescope analyze --rules rules.json policy.cbl
  rulescope analyze --rules rules.json --format json policy.cbl`,
	Args:         cobra.ExactArgs(1),
	RunE:         runAnalyze,
	SilenceUsage: true,
}

func init() {
	analyzeCmd.Flags().StringVar(&rulesFile, "rules", "", "JSON file of extracted rules (required)")
	analyzeCmd.MarkFlagRequired("rules")
	RootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	filename, content, err := readSource(args[0])
	if err != nil {
		return err
	}

	rules, err := loadRules(rulesFile)
	if err != nil {
		return err
	}

	store, err := loadProfiles()
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}

	det := detector.New(store).Detect(filename, content)
	ch := chunker.New(store.Fallback(), nil)
	chunks := ch.Chunk(content, filename, det)

	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d rules, %d chunks planned\n", len(rules), chunks.ChunkCount)
	}

	report := completeness.NewAnalyzer().Analyze(content, rules, &chunks, filename)
	return newReporter().Completeness(report)
}

func loadRules(path string) ([]completeness.ExtractedRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var rules []completeness.ExtractedRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}
	return rules, nil
}
