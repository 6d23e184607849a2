package chunker

import "math"

// ChunkMetadata describes one emitted chunk. Line numbers are 1-based and
// EndLine is inclusive of the last content line.
type ChunkMetadata struct {
	ChunkID           string   `json:"chunk_id"`
	StartLine         int      `json:"start_line"`
	EndLine           int      `json:"end_line"`
	ContentLines      int      `json:"content_lines"`
	Strategy          Strategy `json:"-"`
	StrategyName      string   `json:"strategy"`
	SectionName       string   `json:"section_name,omitempty"`
	RuleCountEstimate int      `json:"rule_count_estimate"`
	Confidence        float64  `json:"confidence_score"`
}

// SizeEfficiency scores the chunk size against the ~200 line sweet spot.
func (m ChunkMetadata) SizeEfficiency() float64 {
	if m.ContentLines == 0 {
		return 0
	}
	eff := float64(m.ContentLines) / 200.0
	if eff > 1 {
		eff = 1
	}
	return eff
}

// Result is the output of one chunking call. Chunks and Metadata are
// parallel slices in processing order; the order defines how the external
// extractor consumes them.
type Result struct {
	Chunks            []string        `json:"-"`
	Metadata          []ChunkMetadata `json:"metadata"`
	Language          string          `json:"language"`
	Strategy          Strategy        `json:"-"`
	StrategyName      string          `json:"strategy"`
	TotalLines        int             `json:"total_lines"`
	ChunkCount        int             `json:"chunk_count"`
	EstimatedCoverage float64         `json:"estimated_rule_coverage"`
}

// AverageChunkSize is the mean content line count across chunks.
func (r Result) AverageChunkSize() float64 {
	if len(r.Metadata) == 0 {
		return 0
	}
	total := 0
	for _, m := range r.Metadata {
		total += m.ContentLines
	}
	return float64(total) / float64(len(r.Metadata))
}

// SizeVariance is the population standard deviation of chunk sizes
// normalized by the mean. Zero means uniform chunks.
func (r Result) SizeVariance() float64 {
	if len(r.Metadata) < 2 {
		return 0
	}
	avg := r.AverageChunkSize()
	if avg == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range r.Metadata {
		d := float64(m.ContentLines) - avg
		sum += d * d
	}
	return math.Sqrt(sum/float64(len(r.Metadata))) / avg
}

// EstimatedRules sums the per-chunk rule estimates.
func (r Result) EstimatedRules() int {
	total := 0
	for _, m := range r.Metadata {
		total += m.RuleCountEstimate
	}
	return total
}
