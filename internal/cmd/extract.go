package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rulescope/internal/chunker"
	"rulescope/internal/completeness"
	"rulescope/internal/detector"
	"rulescope/internal/extract"
	"rulescope/internal/reporter"
	"rulescope/internal/ui"
)

var (
	extractAnalyze bool
	contextLines   int
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Run the full extraction pipeline on a legacy file",
	Long: `Detect the language, chunk the file, extract business rules through
the Anthropic API, and deduplicate the results. Requires the
ANTHROPIC_API_KEY environment variable.

Examples:
  rulescope extract policy.cbl
  rulescope extract --analyze policy.cbl
  rulescope extract --format json policy.cbl > rules.json`,
	Args:         cobra.ExactArgs(1),
	RunE:         runExtract,
	SilenceUsage: true,
}

func init() {
	extractCmd.Flags().BoolVar(&extractAnalyze, "analyze", false, "Follow extraction with a completeness analysis")
	extractCmd.Flags().IntVar(&contextLines, "context-lines", chunker.DefaultContextLines, "How far into the file to look for header context")
	RootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	filename, content, err := readSource(args[0])
	if err != nil {
		return err
	}

	extractor := extract.New()
	if extractor == nil {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	store, err := loadProfiles()
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}

	u := GetUI()
	progress := u.StartProgress()
	defer func() {
		if progress != nil {
			progress.Done(nil)
		}
	}()

	progress.SetStage(ui.StageDetect)
	det := detector.New(store).Detect(filename, content)

	progress.SetStage(ui.StageChunk)
	progress.SetOperation(det.Language)
	ch := chunker.New(store.Fallback(), chunker.NewContextCache(0))
	chunks := ch.Chunk(content, filename, det)
	fileContext := ch.FileContext(content, contextLines)

	if verbose {
		fmt.Fprintf(os.Stderr, "Detected %s, %d chunks via %s\n",
			det.Language, chunks.ChunkCount, chunks.StrategyName)
	}

	progress.SetStage(ui.StageExtract)
	progress.SetChunkCount(chunks.ChunkCount)

	monitor := newChunkMonitor(chunks)
	perChunk, err := extractor.ExtractAll(cmd.Context(), chunks, fileContext,
		func(index int, rules []completeness.ExtractedRule) {
			progress.ChunkDone(len(rules))
			for _, w := range monitor.record(rules) {
				if progress != nil {
					progress.Warn(w.Level, w.Message)
				} else {
					fmt.Fprintf(os.Stderr, "%s: %s\n", strings.ToUpper(w.Level), w.Message)
				}
			}
		})
	if err != nil {
		progress.Done(err)
		progress = nil
		return fmt.Errorf("extraction failed: %w", err)
	}

	var all []completeness.ExtractedRule
	for _, rules := range perChunk {
		all = append(all, rules...)
	}
	unique := extract.Deduplicate(all)

	var report *completeness.Report
	if extractAnalyze {
		progress.SetStage(ui.StageAnalyze)
		report = completeness.NewAnalyzer().Analyze(content, unique, &chunks, filename)
	}

	if progress != nil {
		progress.Done(nil)
		progress = nil
	}

	if verbose {
		final := monitor.snapshot()
		fmt.Fprintf(os.Stderr, "Extraction finished at %.1f%% of the estimate (%d/%d)\n",
			final.ProgressPercentage, final.CurrentExtracted, final.ExpectedTotal)
	}

	rep := newReporter()
	if err := rep.Rules(unique); err != nil {
		return err
	}
	if report != nil {
		fmt.Println()
		if err := rep.Completeness(report); err != nil {
			return err
		}
	}

	sum := reporter.ComputeSummary(det, chunks, report)
	if report == nil {
		sum.ExtractedRules = len(unique)
	}
	return rep.Summary(sum)
}

// chunkMonitor feeds finished chunks into the running completeness monitor
// and hands back each warning level the first time it fires, so the
// operator sees a shortfall while chunks are still being processed instead
// of only in the final report.
type chunkMonitor struct {
	meta     []chunker.ChunkMetadata
	expected int
	results  [][]completeness.ExtractedRule
	raised   map[string]bool
}

func newChunkMonitor(chunks chunker.Result) *chunkMonitor {
	return &chunkMonitor{
		meta:     chunks.Metadata,
		expected: chunks.EstimatedRules(),
		raised:   make(map[string]bool),
	}
}

// record registers one finished chunk's rules, in processing order.
func (m *chunkMonitor) record(rules []completeness.ExtractedRule) []completeness.ProgressWarning {
	m.results = append(m.results, rules)

	var fresh []completeness.ProgressWarning
	for _, w := range m.snapshot().Warnings {
		if m.raised[w.Level] {
			continue
		}
		m.raised[w.Level] = true
		fresh = append(fresh, w)
	}
	return fresh
}

// snapshot evaluates progress over everything recorded so far.
func (m *chunkMonitor) snapshot() completeness.Progress {
	return completeness.MonitorProgress(m.results, m.expected, m.meta)
}
