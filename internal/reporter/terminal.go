package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rulescope/internal/chunker"
	"rulescope/internal/completeness"
	"rulescope/internal/detector"
	"rulescope/internal/ui"
)

// TerminalReporter renders stage results for humans, styled when the
// output is a TTY.
type TerminalReporter struct {
	w      io.Writer
	styles *ui.Styles
}

// NewTerminalReporter creates a terminal reporter using the UI's styles.
func NewTerminalReporter(w io.Writer, u *ui.UI) *TerminalReporter {
	return &TerminalReporter{w: w, styles: u.Styles}
}

// Detection prints the detected language, score breakdown, and
// recommendations.
func (r *TerminalReporter) Detection(res detector.Result, validation *detector.Validation) error {
	s := r.styles

	fmt.Fprintln(r.w, s.Header.Render("Language Detection"))

	icon := s.IconSuccess
	style := s.Success
	if !res.IsConfident() {
		icon = s.IconWarning
		style = s.Warning
	}
	fmt.Fprintf(r.w, "  %s %s (%.1f%% confidence, %s)\n",
		style.Render(icon), res.Language, res.Confidence*100, res.Level())

	ev := res.Evidence
	fmt.Fprintf(r.w, "  %s extension %.0f, strong %.0f, supporting %.0f, rules %.0f\n",
		s.Label.Render("scores:"),
		ev.ExtensionScore, ev.StrongScore, ev.SupportingScore, ev.RuleScore)
	if ev.Reason != "" {
		fmt.Fprintf(r.w, "  %s %s\n", s.Label.Render("reason:"), ev.Reason)
	}

	for _, rec := range res.Recommendations {
		fmt.Fprintf(r.w, "  %s %s\n", s.Subheader.Render("-"), rec)
	}

	if validation != nil {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, s.Header.Render("Validation"))
		if validation.Valid {
			fmt.Fprintf(r.w, "  %s detection is plausible\n", s.Success.Render(s.IconSuccess))
		} else {
			fmt.Fprintf(r.w, "  %s %s\n", s.Warning.Render(s.IconWarning), validation.Reason)
		}
		if validation.ExpectedRange != "" {
			fmt.Fprintf(r.w, "  %s %.1f rules/100 lines (expected %s)\n",
				s.Label.Render("rule density:"), validation.RuleDensity, validation.ExpectedRange)
		}
		for _, sug := range validation.Suggestions {
			fmt.Fprintf(r.w, "  %s %s\n", s.Subheader.Render("-"), sug)
		}
	}

	return nil
}

// Chunking prints the chunking plan and per-chunk line ranges.
func (r *TerminalReporter) Chunking(res chunker.Result) error {
	s := r.styles

	fmt.Fprintln(r.w, s.Header.Render("Chunking Plan"))
	fmt.Fprintf(r.w, "  %s %s\n", s.Label.Render("strategy:"), res.StrategyName)
	fmt.Fprintf(r.w, "  %s %d chunks over %d lines (avg %.0f lines/chunk)\n",
		s.Label.Render("chunks:"), res.ChunkCount, res.TotalLines, res.AverageChunkSize())
	fmt.Fprintf(r.w, "  %s %.0f%% estimated rule coverage, ~%d rules\n",
		s.Label.Render("coverage:"), res.EstimatedCoverage*100, res.EstimatedRules())

	for _, meta := range res.Metadata {
		line := fmt.Sprintf("  %s lines %d-%d (%d lines, ~%d rules)",
			meta.ChunkID, meta.StartLine, meta.EndLine, meta.ContentLines, meta.RuleCountEstimate)
		if meta.SectionName != "" {
			line += fmt.Sprintf(" [%s]", meta.SectionName)
		}
		fmt.Fprintln(r.w, s.Subheader.Render(line))
	}

	return nil
}

// Rules prints deduplicated extracted rules.
func (r *TerminalReporter) Rules(rules []completeness.ExtractedRule) error {
	s := r.styles

	fmt.Fprintln(r.w, s.Header.Render(fmt.Sprintf("Extracted Rules (%d)", len(rules))))
	if len(rules) == 0 {
		fmt.Fprintf(r.w, "  %s no business rules found\n", s.Warning.Render(s.IconWarning))
		return nil
	}

	for _, rule := range rules {
		fmt.Fprintf(r.w, "\n  %s %s\n", s.Value.Render(rule.RuleID), rule.BusinessDescription)
		fmt.Fprintf(r.w, "    %s %s\n", s.Label.Render("when:"), rule.Conditions)
		fmt.Fprintf(r.w, "    %s %s\n", s.Label.Render("then:"), rule.Actions)
		if rule.SourceCodeLines != "" {
			fmt.Fprintf(r.w, "    %s %s\n", s.Label.Render("source:"), rule.SourceCodeLines)
		}
	}

	return nil
}

// Completeness prints the completeness grade, section breakdown, gaps, and
// recommendations.
func (r *TerminalReporter) Completeness(report *completeness.Report) error {
	s := r.styles

	fmt.Fprintln(r.w, s.Header.Render("Completeness Analysis"))

	style, icon := r.statusStyle(report.Status)
	fmt.Fprintf(r.w, "  %s %.1f%% complete (%d/%d rules, %s)\n",
		style.Render(icon), report.CompletenessPercentage,
		report.TotalExtractedRules, report.TotalExpectedRules, report.Status)

	if len(report.SectionAnalysis) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, s.Header.Render("Sections"))
		for _, name := range sectionNames(report) {
			sec := report.SectionAnalysis[name]
			fmt.Fprintf(r.w, "  %-24s %3d/%3d (%.0f%%, %s)\n",
				name, sec.Extracted, sec.Expected, sec.Completeness, sec.Status)
		}
	}

	if len(report.RuleGaps) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, s.Header.Render(fmt.Sprintf("Gaps (%d missing rules)", report.GapCount())))
		for _, gap := range report.RuleGaps {
			fmt.Fprintf(r.w, "  %s %s in %s: %d/%d (lines %d-%d)\n",
				s.Warning.Render(s.IconWarning), gap.Category, gap.SectionName,
				gap.ExtractedCount, gap.ExpectedCount, gap.LineRange[0], gap.LineRange[1])
			for _, rec := range gap.Recommendations {
				fmt.Fprintf(r.w, "      %s\n", s.Subheader.Render(rec))
			}
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, s.Separator.Render(strings.Repeat("─", 37)))
		for _, rec := range report.Recommendations {
			fmt.Fprintf(r.w, "  %s\n", rec)
		}
	}

	return nil
}

// Summary prints the closing run summary line.
func (r *TerminalReporter) Summary(sum Summary) error {
	s := r.styles

	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, s.Separator.Render(strings.Repeat("─", 37)))

	if sum.Status == "" {
		fmt.Fprintf(r.w, "  %s via %s: %d chunks, %d rules extracted\n",
			sum.Language, sum.Strategy, sum.ChunkCount, sum.ExtractedRules)
		return nil
	}

	icon := s.Success.Render(s.IconSuccess)
	if !sum.TargetAchieved {
		icon = s.Warning.Render(s.IconWarning)
	}
	fmt.Fprintf(r.w, "  %s %s via %s: %d chunks, %d/%d rules (%.1f%%, %s)\n",
		icon, sum.Language, sum.Strategy, sum.ChunkCount,
		sum.ExtractedRules, sum.ExpectedRules, sum.Completeness, sum.Status)
	return nil
}

func (r *TerminalReporter) statusStyle(status completeness.Status) (style lipgloss.Style, icon string) {
	s := r.styles
	switch status {
	case completeness.StatusExcellent:
		return s.Success, s.IconSuccess
	case completeness.StatusGood:
		return s.Good, s.IconSuccess
	case completeness.StatusWarning:
		return s.Warning, s.IconWarning
	case completeness.StatusPoor:
		return s.Error, s.IconError
	default:
		return s.Critical, s.IconCritical
	}
}

func sectionNames(report *completeness.Report) []string {
	names := make([]string, 0, len(report.SectionAnalysis))
	for name := range report.SectionAnalysis {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
