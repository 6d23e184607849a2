package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"rulescope/internal/detector"
	"rulescope/internal/profile"
)

// ruleMarkerRegex matches explicit rule annotations left by legacy
// maintainers. When present these are the most accurate rule count signal.
var ruleMarkerRegex = regexp.MustCompile(`(?i)^\s*\*\s*Business Rule:`)

// Chunker splits file content into bounded, overlapping chunks while
// preserving section and rule boundaries. A Chunker is stateless apart from
// its optional context cache and may be shared across goroutines.
type Chunker struct {
	fallback *profile.Profile
	cache    *ContextCache
}

// New creates a chunker. fallback supplies chunking parameters and patterns
// when detection is not confident; nil selects the builtin generic profile.
// cache may be nil to disable context memoization.
func New(fallback *profile.Profile, cache *ContextCache) *Chunker {
	if fallback == nil {
		fallback = profile.Fallback()
	}
	return &Chunker{fallback: fallback, cache: cache}
}

// Chunk splits content using the best strategy for the detected language.
func (c *Chunker) Chunk(content, filename string, det detector.Result) Result {
	return c.chunk(content, det, Strategy(-1))
}

// ChunkWithStrategy forces a specific strategy. It still falls through the
// strategy order if the forced strategy yields no chunks.
func (c *Chunker) ChunkWithStrategy(content, filename string, det detector.Result, strategy Strategy) Result {
	return c.chunk(content, det, strategy)
}

func (c *Chunker) chunk(content string, det detector.Result, forced Strategy) Result {
	if strings.TrimSpace(content) == "" {
		return Result{Language: "unknown", Strategy: FixedSize, StrategyName: FixedSize.String()}
	}

	lines := strings.Split(content, "\n")

	prof := c.fallback
	language := "unknown"
	if det.IsConfident() && det.Profile != nil {
		prof = det.Profile
		language = det.Language
	}
	params := prof.Chunking
	if params.PreferredSize == 0 {
		params = profile.DefaultChunking
	}

	if len(lines) <= params.PreferredSize {
		return c.singleChunk(content, lines, language, prof)
	}

	strategy := forced
	if strategy < SectionAware || strategy > FixedSize {
		sections := countSectionMarkers(lines, prof)
		rules := countRulePatterns(lines, prof)
		strategy = selectStrategy(sections, rules, prof)
	}

	// A strategy that finds nothing to split on falls through to the next
	// one; FixedSize always produces chunks for non-empty content.
	for {
		res, ok := c.run(strategy, lines, language, prof, params)
		if ok {
			return res
		}
		strategy = strategy.next()
	}
}

func (c *Chunker) run(strategy Strategy, lines []string, language string, prof *profile.Profile, params profile.ChunkingParams) (Result, bool) {
	switch strategy {
	case SectionAware:
		return c.chunkBySections(lines, language, prof, params)
	case RuleBoundary:
		return c.chunkByRules(lines, language, prof, params)
	case SmartOverlap:
		return c.chunkSmartOverlap(lines, language, prof, params)
	default:
		return c.chunkFixedSize(lines, language, prof, params)
	}
}

func (c *Chunker) singleChunk(content string, lines []string, language string, prof *profile.Profile) Result {
	meta := ChunkMetadata{
		ChunkID:           "single_chunk",
		StartLine:         1,
		EndLine:           len(lines),
		ContentLines:      len(lines),
		Strategy:          SectionAware,
		StrategyName:      SectionAware.String(),
		RuleCountEstimate: estimateRuleCount(lines, prof),
		Confidence:        1.0,
	}
	return Result{
		Chunks:            []string{content},
		Metadata:          []ChunkMetadata{meta},
		Language:          language,
		Strategy:          SectionAware,
		StrategyName:      SectionAware.String(),
		TotalLines:        len(lines),
		ChunkCount:        1,
		EstimatedCoverage: 1.0,
	}
}

// chunkBySections closes a chunk whenever appending the next section would
// overflow the preferred size, carrying overlap lines across the boundary.
func (c *Chunker) chunkBySections(lines []string, language string, prof *profile.Profile, params profile.ChunkingParams) (Result, bool) {
	sections := sectionBoundaries(lines, prof)
	if len(sections) == 0 {
		return Result{}, false
	}

	b := newBuilder(SectionAware, language, prof, len(lines))
	currentStart := 0

	for _, sec := range sections {
		sectionSize := sec.end - sec.start
		currentSize := sec.start - currentStart

		if currentSize+sectionSize > params.PreferredSize && currentSize >= params.MinSize {
			chunkEnd := min(sec.start+params.OverlapSize, len(lines))
			b.add(lines, currentStart, chunkEnd, sec.name)
			currentStart = max(0, sec.start-params.OverlapSize)
		}
	}

	// The tail always becomes a chunk so that coverage has no gaps; the
	// last chunk of a file is allowed to be shorter than the minimum.
	if currentStart < len(lines) {
		b.add(lines, currentStart, len(lines), "")
	}

	return b.result(), len(b.chunks) > 0
}

// chunkByRules closes a chunk when appending the next rule span would
// exceed the maximum size, so no rule straddles a boundary.
func (c *Chunker) chunkByRules(lines []string, language string, prof *profile.Profile, params profile.ChunkingParams) (Result, bool) {
	spans := ruleBoundaries(lines, prof)
	if len(spans) == 0 {
		return Result{}, false
	}

	b := newBuilder(RuleBoundary, language, prof, len(lines))
	currentStart := 0

	for _, span := range spans {
		potential := span.end - currentStart
		if potential > params.MaxSize && span.start-currentStart >= params.MinSize {
			chunkEnd := min(span.start+params.OverlapSize, len(lines))
			b.add(lines, currentStart, chunkEnd, "")
			currentStart = max(0, span.start-params.OverlapSize)
		}
	}

	if currentStart < len(lines) {
		b.add(lines, currentStart, len(lines), "")
	}

	return b.result(), len(b.chunks) > 0
}

// chunkSmartOverlap grows the overlap with measured rule density, capped at
// one third of the chunk's own size.
func (c *Chunker) chunkSmartOverlap(lines []string, language string, prof *profile.Profile, params profile.ChunkingParams) (Result, bool) {
	b := newBuilder(SmartOverlap, language, prof, len(lines))

	pos := 0
	for pos < len(lines) {
		preferredEnd := min(pos+params.PreferredSize, len(lines))
		boundaryEnd := findNaturalBoundary(lines, preferredEnd, min(pos+params.MaxSize, len(lines)))

		chunkLines := lines[pos:boundaryEnd]
		b.add(lines, pos, boundaryEnd, "")

		if boundaryEnd >= len(lines) {
			break
		}

		density := float64(estimateRuleCount(chunkLines, prof)) / float64(len(chunkLines))
		overlap := max(params.OverlapSize, int(float64(params.OverlapSize)*(1+density)))
		overlap = min(overlap, len(chunkLines)/3)

		next := max(pos+params.MinSize, boundaryEnd-overlap)
		if next <= pos {
			next = boundaryEnd
		}
		pos = next
	}

	return b.result(), len(b.chunks) > 0
}

// chunkFixedSize splits strictly every preferred-minus-overlap lines.
func (c *Chunker) chunkFixedSize(lines []string, language string, prof *profile.Profile, params profile.ChunkingParams) (Result, bool) {
	b := newBuilder(FixedSize, language, prof, len(lines))

	step := params.PreferredSize - params.OverlapSize
	if step <= 0 {
		step = params.PreferredSize
	}

	for pos := 0; pos < len(lines); pos += step {
		end := min(pos+params.PreferredSize, len(lines))
		b.add(lines, pos, end, "")
		if end == len(lines) {
			break
		}
	}

	return b.result(), len(b.chunks) > 0
}

// builder accumulates chunks for one strategy run.
type builder struct {
	strategy Strategy
	language string
	prof     *profile.Profile
	total    int
	chunks   []string
	metadata []ChunkMetadata
}

func newBuilder(strategy Strategy, language string, prof *profile.Profile, total int) *builder {
	return &builder{strategy: strategy, language: language, prof: prof, total: total}
}

// add emits the half-open index range [start, end) as a chunk with 1-based
// inclusive line metadata.
func (b *builder) add(lines []string, start, end int, sectionName string) {
	chunkLines := lines[start:end]
	b.chunks = append(b.chunks, strings.Join(chunkLines, "\n"))
	b.metadata = append(b.metadata, ChunkMetadata{
		ChunkID:           fmt.Sprintf("%s_%d", b.strategy.idPrefix(), len(b.chunks)),
		StartLine:         start + 1,
		EndLine:           end,
		ContentLines:      len(chunkLines),
		Strategy:          b.strategy,
		StrategyName:      b.strategy.String(),
		SectionName:       sectionName,
		RuleCountEstimate: estimateRuleCount(chunkLines, b.prof),
		Confidence:        b.strategy.confidence(),
	})
}

func (b *builder) result() Result {
	return Result{
		Chunks:            b.chunks,
		Metadata:          b.metadata,
		Language:          b.language,
		Strategy:          b.strategy,
		StrategyName:      b.strategy.String(),
		TotalLines:        b.total,
		ChunkCount:        len(b.chunks),
		EstimatedCoverage: estimateCoverage(b.metadata),
	}
}

// estimateCoverage is the rule-count-weighted average of per-chunk
// confidence scores.
func estimateCoverage(metadata []ChunkMetadata) float64 {
	totalConfidence := 0.0
	totalRules := 0
	for _, m := range metadata {
		totalConfidence += m.Confidence * float64(m.RuleCountEstimate)
		totalRules += m.RuleCountEstimate
	}
	if totalRules == 0 {
		return 0
	}
	coverage := totalConfidence / float64(totalRules)
	if coverage > 1 {
		coverage = 1
	}
	return coverage
}

// estimateRuleCount guesses how many business rules a block of lines holds.
// Explicit rule-marker comments win when present. Otherwise only the
// profile's narrower estimate patterns count; RulePatterns would inflate
// the estimate on statement-dense code. The pattern count is floored by a
// size-based estimate.
func estimateRuleCount(lines []string, prof *profile.Profile) int {
	markers := 0
	for _, line := range lines {
		if ruleMarkerRegex.MatchString(line) {
			markers++
		}
	}
	if markers > 0 {
		return markers
	}

	count := 0
	for _, line := range lines {
		for _, re := range prof.EstimateRegex() {
			if re.MatchString(line) {
				count++
				break
			}
		}
	}

	if prof.BlockStructured {
		fromSize := max(1, len(lines)/12)
		return max(count, min(fromSize, len(lines)/8))
	}
	return max(count, len(lines)/15)
}

// findNaturalBoundary searches for a blank or comment line between the
// preferred and maximum chunk end, preferring it over a hard cut.
func findNaturalBoundary(lines []string, preferredEnd, maxEnd int) int {
	for end := preferredEnd; end < maxEnd; end++ {
		if end >= len(lines) {
			return len(lines)
		}
		trimmed := strings.TrimSpace(lines[end])
		if trimmed == "" || strings.HasPrefix(trimmed, "*") ||
			strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, ";") {
			return end + 1
		}
	}
	return preferredEnd
}

func countSectionMarkers(lines []string, prof *profile.Profile) int {
	count := 0
	for _, line := range lines {
		for _, re := range prof.SectionRegex() {
			if re.MatchString(line) {
				count++
				break
			}
		}
	}
	return count
}

func countRulePatterns(lines []string, prof *profile.Profile) int {
	count := 0
	for _, line := range lines {
		for _, re := range prof.RuleRegex() {
			count += len(re.FindAllStringIndex(line, -1))
		}
	}
	return count
}
