package completeness

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"rulescope/internal/chunker"
)

// Gap records a shortfall between expected and extracted rules for one
// category within one section.
type Gap struct {
	Category        Category `json:"category"`
	SectionName     string   `json:"section_name"`
	ExpectedCount   int      `json:"expected_count"`
	ExtractedCount  int      `json:"extracted_count"`
	Confidence      float64  `json:"confidence"`
	LineRange       [2]int   `json:"line_range"`
	Recommendations []string `json:"recommendations"`
}

// GapCount is the number of missing rules, never negative.
func (g Gap) GapCount() int {
	return max(0, g.ExpectedCount-g.ExtractedCount)
}

// CompletenessRatio is extracted over expected; 1.0 when nothing was
// expected.
func (g Gap) CompletenessRatio() float64 {
	if g.ExpectedCount == 0 {
		return 1.0
	}
	return float64(g.ExtractedCount) / float64(g.ExpectedCount)
}

// SectionSummary grades one source section.
type SectionSummary struct {
	Expected          int              `json:"expected"`
	Extracted         int              `json:"extracted"`
	Completeness      float64          `json:"completeness"`
	Status            string           `json:"status"`
	LineRange         [2]int           `json:"line_range"`
	CategoryBreakdown map[Category]int `json:"category_breakdown"`
}

// ChunkPerformance correlates one chunk with the gaps found inside its
// line range.
type ChunkPerformance struct {
	ChunkID        int      `json:"chunk_id"`
	StartLine      int      `json:"start_line"`
	EndLine        int      `json:"end_line"`
	ContentLines   int      `json:"content_lines"`
	EstimatedRules int      `json:"estimated_rules"`
	Confidence     float64  `json:"confidence"`
	Strategy       string   `json:"strategy"`
	SectionName    string   `json:"section_name"`
	IdentifiedGaps int      `json:"identified_gaps"`
	GapDetails     []string `json:"gap_details"`
}

// Report is the full completeness analysis for one extraction run.
type Report struct {
	TotalExpectedRules     int                       `json:"total_expected_rules"`
	TotalExtractedRules    int                       `json:"total_extracted_rules"`
	UnclassifiableRules    int                       `json:"unclassifiable_rules"`
	CompletenessPercentage float64                   `json:"completeness_percentage"`
	Status                 Status                    `json:"status"`
	RuleGaps               []Gap                     `json:"rule_gaps"`
	SectionAnalysis        map[string]SectionSummary `json:"section_analysis"`
	ChunkPerformance       []ChunkPerformance        `json:"chunk_performance"`
	Recommendations        []string                  `json:"recommendations"`
	ProcessingTimeMS       float64                   `json:"processing_time_ms"`
}

// TargetAchieved reports whether the 90% extraction target was met.
func (r *Report) TargetAchieved() bool {
	return r.CompletenessPercentage >= 90.0
}

// GapCount is the total number of missing rules across all gaps.
func (r *Report) GapCount() int {
	total := 0
	for _, gap := range r.RuleGaps {
		total += gap.GapCount()
	}
	return total
}

// expectedSection holds the per-category expected rule counts found in one
// section of the source. Line numbers are 1-based inclusive.
type expectedSection struct {
	name       string
	startLine  int
	endLine    int
	totalLines int
	categories map[Category]int
	total      int
}

// extractedCounts aggregates the extraction output by category and by
// guessed section.
type extractedCounts struct {
	total          int
	unclassifiable int
	byCategory     map[Category]int
	bySection      map[string]int
}

// Analyzer scores extraction completeness against the reference rule
// catalog. Safe for concurrent use; the last report is cached.
type Analyzer struct {
	mu   sync.Mutex
	last *Report
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// LastReport returns the most recent report, or nil before any analysis.
func (a *Analyzer) LastReport() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Analyze compares the rules extracted from content against the rules the
// reference catalog expects, producing gaps, per-section grades, chunk
// performance, and recommendations. chunks may be nil when the file was
// processed whole.
func (a *Analyzer) Analyze(content string, rules []ExtractedRule, chunks *chunker.Result, filename string) *Report {
	start := time.Now()

	language := detectLanguage(filename, chunks)
	patterns := rulePatternsByLanguage[language]

	expected := analyzeExpected(content, language, patterns)
	extracted := analyzeExtracted(rules)
	gaps := identifyGaps(expected, extracted)

	totalExpected := 0
	for _, sec := range expected {
		totalExpected += sec.total
	}
	totalExtracted := extracted.total

	percentage := 0.0
	if totalExpected > 0 {
		percentage = float64(totalExtracted) / float64(totalExpected) * 100
	}
	status := statusFor(percentage)

	sectionAnalysis := summarizeSections(expected, extracted)
	chunkPerformance := analyzeChunkPerformance(chunks, gaps)
	recommendations := buildRecommendations(gaps, status, sectionAnalysis)

	report := &Report{
		TotalExpectedRules:     totalExpected,
		TotalExtractedRules:    totalExtracted,
		UnclassifiableRules:    extracted.unclassifiable,
		CompletenessPercentage: percentage,
		Status:                 status,
		RuleGaps:               gaps,
		SectionAnalysis:        sectionAnalysis,
		ChunkPerformance:       chunkPerformance,
		Recommendations:        recommendations,
		ProcessingTimeMS:       float64(time.Since(start).Microseconds()) / 1000,
	}

	a.mu.Lock()
	a.last = report
	a.mu.Unlock()

	return report
}

// detectLanguage prefers the chunker's detected language, falling back to
// the filename extension.
func detectLanguage(filename string, chunks *chunker.Result) string {
	if chunks != nil && chunks.Language != "" && chunks.Language != "unknown" {
		return chunks.Language
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case "cbl", "cob", "cobol":
		return "cobol"
	case "java":
		return "java"
	case "pas", "pascal":
		return "pascal"
	case "cpp", "c", "cc":
		return "cpp"
	case "pli", "pl1":
		return "pli"
	default:
		return "unknown"
	}
}

// analyzeExpected counts the catalog rules present in the source, section
// by section for COBOL and whole-file otherwise. Each line is counted at
// most once per category.
func analyzeExpected(content, language string, patterns map[Category][]*regexp.Regexp) []expectedSection {
	lines := strings.Split(content, "\n")

	if language == "cobol" {
		sections := identifyCobolSections(lines)
		out := make([]expectedSection, 0, len(sections))
		for _, sec := range sections {
			out = append(out, countSection(sec.name, lines[sec.start:sec.end], sec.start+1, sec.end, patterns))
		}
		return out
	}

	return []expectedSection{countSection("entire_file", lines, 1, len(lines), patterns)}
}

func countSection(name string, lines []string, startLine, endLine int, patterns map[Category][]*regexp.Regexp) expectedSection {
	sec := expectedSection{
		name:       name,
		startLine:  startLine,
		endLine:    endLine,
		totalLines: len(lines),
		categories: make(map[Category]int),
	}
	for _, category := range categoryOrder {
		count := 0
		for _, line := range lines {
			for _, re := range patterns[category] {
				if re.MatchString(line) {
					count++
					break
				}
			}
		}
		sec.categories[category] = count
		sec.total += count
	}
	return sec
}

type cobolSection struct {
	name  string
	start int
	end   int
}

func identifyCobolSections(lines []string) []cobolSection {
	var sections []cobolSection
	for i, line := range lines {
		for _, sp := range cobolSectionPatterns {
			if sp.pattern.MatchString(line) {
				sections = append(sections, cobolSection{name: sp.name, start: i})
				break
			}
		}
	}
	for i := range sections {
		if i+1 < len(sections) {
			sections[i].end = sections[i+1].start
		} else {
			sections[i].end = len(lines)
		}
	}
	return sections
}

// analyzeExtracted buckets extracted rules by category and guessed section.
// Records with no conditions, actions, or description cannot be classified
// and are tallied separately, but still count toward the total so the
// running percentage matches what MonitorProgress reports.
func analyzeExtracted(rules []ExtractedRule) extractedCounts {
	counts := extractedCounts{
		total:      len(rules),
		byCategory: make(map[Category]int),
		bySection:  make(map[string]int),
	}
	for _, rule := range rules {
		if strings.TrimSpace(rule.Conditions) == "" &&
			strings.TrimSpace(rule.Actions) == "" &&
			strings.TrimSpace(rule.BusinessDescription) == "" {
			counts.unclassifiable++
			continue
		}
		counts.byCategory[Categorize(rule)]++
		counts.bySection[IdentifySection(rule)]++
	}
	return counts
}

// identifyGaps flags categories where the global extracted count falls
// short of a section's expectation. Sections that met their overall total
// produce no gaps.
func identifyGaps(expected []expectedSection, extracted extractedCounts) []Gap {
	var gaps []Gap
	for _, sec := range expected {
		if extracted.bySection[sec.name] >= sec.total {
			continue
		}
		for _, category := range categoryOrder {
			expectedCount := sec.categories[category]
			extractedCount := extracted.byCategory[category]
			if extractedCount < expectedCount {
				gaps = append(gaps, Gap{
					Category:        category,
					SectionName:     sec.name,
					ExpectedCount:   expectedCount,
					ExtractedCount:  extractedCount,
					Confidence:      0.8,
					LineRange:       [2]int{sec.startLine, sec.endLine},
					Recommendations: gapRecommendations(category, sec.name, expectedCount-extractedCount),
				})
			}
		}
	}
	return gaps
}

func summarizeSections(expected []expectedSection, extracted extractedCounts) map[string]SectionSummary {
	analysis := make(map[string]SectionSummary, len(expected))
	for _, sec := range expected {
		extractedCount := extracted.bySection[sec.name]
		completeness := 100.0
		if sec.total > 0 {
			completeness = float64(extractedCount) / float64(sec.total) * 100
		}

		status := "poor"
		switch {
		case completeness >= 90:
			status = "good"
		case completeness >= 80:
			status = "warning"
		}

		analysis[sec.name] = SectionSummary{
			Expected:          sec.total,
			Extracted:         extractedCount,
			Completeness:      completeness,
			Status:            status,
			LineRange:         [2]int{sec.startLine, sec.endLine},
			CategoryBreakdown: sec.categories,
		}
	}
	return analysis
}

// analyzeChunkPerformance attributes gaps to the chunks whose line ranges
// contain them.
func analyzeChunkPerformance(chunks *chunker.Result, gaps []Gap) []ChunkPerformance {
	if chunks == nil {
		return nil
	}

	performance := make([]ChunkPerformance, 0, len(chunks.Metadata))
	for i, meta := range chunks.Metadata {
		var details []string
		count := 0
		for _, gap := range gaps {
			if gap.LineRange[0] >= meta.StartLine && gap.LineRange[1] <= meta.EndLine {
				count++
				details = append(details, fmt.Sprintf("%s: %d", gap.Category, gap.GapCount()))
			}
		}
		performance = append(performance, ChunkPerformance{
			ChunkID:        i + 1,
			StartLine:      meta.StartLine,
			EndLine:        meta.EndLine,
			ContentLines:   meta.ContentLines,
			EstimatedRules: meta.RuleCountEstimate,
			Confidence:     meta.Confidence,
			Strategy:       meta.StrategyName,
			SectionName:    meta.SectionName,
			IdentifiedGaps: count,
			GapDetails:     details,
		})
	}
	return performance
}

func buildRecommendations(gaps []Gap, status Status, sections map[string]SectionSummary) []string {
	var recommendations []string

	switch status {
	case StatusCritical:
		recommendations = append(recommendations, "CRITICAL: Less than 70% rule extraction. Consider manual review and chunking strategy redesign.")
	case StatusPoor:
		recommendations = append(recommendations, "WARNING: Rule extraction below 80%. Review section boundaries and increase chunk overlap.")
	case StatusWarning:
		recommendations = append(recommendations, "CAUTION: Near 90% target. Minor adjustments to chunking may improve results.")
	case StatusGood, StatusExcellent:
		recommendations = append(recommendations, "SUCCESS: Rule extraction meeting or exceeding targets. Current strategy is effective.")
	}

	gapByCategory := make(map[Category]int)
	for _, gap := range gaps {
		gapByCategory[gap.Category] += gap.GapCount()
	}

	if gapByCategory[CategoryCalculation] > 2 {
		recommendations = append(recommendations, "Focus on CALCULATE-PREMIUM section: Multiple calculation rules missing.")
	}
	if gapByCategory[CategoryValidation] > 3 {
		recommendations = append(recommendations, "Improve validation rule detection: Consider expanding IF-THEN pattern recognition.")
	}
	if gapByCategory[CategoryDecision] > 2 {
		recommendations = append(recommendations, "Enhance decision logic extraction: Review nested IF and EVALUATE statements.")
	}

	var poor []string
	for _, sec := range sectionOrder(sections) {
		if sections[sec].Completeness < 90 {
			poor = append(poor, sec)
		}
	}
	if len(poor) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Target sections for improvement: %s", strings.Join(poor, ", ")))
	}

	return recommendations
}

func sectionOrder(sections map[string]SectionSummary) []string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func gapRecommendations(category Category, section string, gapCount int) []string {
	switch {
	case category == CategoryCalculation && section == "CALCULATE-PREMIUM":
		return []string{
			"Review COMPUTE statements and premium calculation logic",
			"Check for multi-line calculation statements that may be split",
		}
	case category == CategoryValidation:
		return []string{
			"Examine IF statements with comparison operators (<, >, =)",
			"Look for validation rules in comments (* Business Rule:)",
		}
	case category == CategoryDecision && gapCount > 2:
		return []string{
			"Review nested IF-THEN-ELSE structures",
			"Check for EVALUATE statements that may contain multiple rules",
		}
	}
	return nil
}
