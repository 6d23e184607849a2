package completeness

import (
	"fmt"

	"rulescope/internal/chunker"
)

// ProgressWarning is an actionable alert raised partway through an
// extraction run.
type ProgressWarning struct {
	Level          string `json:"level"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// ChunkEfficiency compares one chunk's extracted rule count against its
// estimate.
type ChunkEfficiency struct {
	ChunkID    int     `json:"chunk_id"`
	Extracted  int     `json:"extracted"`
	Expected   int     `json:"expected"`
	Efficiency float64 `json:"efficiency"`
	Status     string  `json:"status"`
}

// Progress is a point-in-time snapshot of a chunked extraction run.
type Progress struct {
	CurrentExtracted   int               `json:"current_extracted"`
	ExpectedTotal      int               `json:"expected_total"`
	ProgressPercentage float64           `json:"progress_percentage"`
	ChunksProcessed    int               `json:"chunks_processed"`
	TotalChunks        int               `json:"total_chunks"`
	Warnings           []ProgressWarning `json:"warnings"`
	ChunkEfficiency    []ChunkEfficiency `json:"chunk_efficiency"`
	TargetAchieved     bool              `json:"target_achieved"`
	EstimatedFinal     int               `json:"estimated_final"`
}

// MonitorProgress evaluates a partially completed run. chunkResults holds
// the rules extracted from each processed chunk, in order. metadata covers
// ALL planned chunks, so warning thresholds key off the fraction of chunks
// already processed: below 90% of target with 70% of chunks done raises a
// warning, below 70% with half the chunks done is critical.
func MonitorProgress(chunkResults [][]ExtractedRule, expectedTotal int, metadata []chunker.ChunkMetadata) Progress {
	current := 0
	for _, rules := range chunkResults {
		current += len(rules)
	}

	percentage := 0.0
	if expectedTotal > 0 {
		percentage = float64(current) / float64(expectedTotal) * 100
	}

	processed := len(chunkResults)
	totalChunks := len(metadata)
	if totalChunks == 0 {
		totalChunks = processed
	}

	doneFraction := 0.0
	if totalChunks > 0 {
		doneFraction = float64(processed) / float64(totalChunks)
	}

	var warnings []ProgressWarning
	if percentage < 90 && doneFraction >= 0.7 {
		warnings = append(warnings, ProgressWarning{
			Level:          "warning",
			Message:        fmt.Sprintf("Extraction below 90%% target: %.1f%% (%d/%d)", percentage, current, expectedTotal),
			Recommendation: "Consider increasing chunk overlap or refining section boundaries",
		})
	}
	if percentage < 70 && doneFraction >= 0.5 {
		warnings = append(warnings, ProgressWarning{
			Level:          "critical",
			Message:        fmt.Sprintf("Critical extraction gap: %.1f%% - significant rules may be missing", percentage),
			Recommendation: "Review chunking strategy and consider manual section identification",
		})
	}

	var efficiency []ChunkEfficiency
	for i, rules := range chunkResults {
		if len(rules) == 0 || i >= len(metadata) {
			continue
		}
		estimated := metadata[i].RuleCountEstimate
		ratio := float64(len(rules)) / float64(max(estimated, 1))
		status := "poor"
		if ratio >= 0.8 {
			status = "good"
		}
		efficiency = append(efficiency, ChunkEfficiency{
			ChunkID:    i + 1,
			Extracted:  len(rules),
			Expected:   estimated,
			Efficiency: ratio,
			Status:     status,
		})
	}

	estimatedFinal := 0
	if processed > 0 {
		estimatedFinal = current * totalChunks / processed
	}

	return Progress{
		CurrentExtracted:   current,
		ExpectedTotal:      expectedTotal,
		ProgressPercentage: percentage,
		ChunksProcessed:    processed,
		TotalChunks:        totalChunks,
		Warnings:           warnings,
		ChunkEfficiency:    efficiency,
		TargetAchieved:     percentage >= 90.0,
		EstimatedFinal:     estimatedFinal,
	}
}
