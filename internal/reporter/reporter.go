package reporter

import (
	"rulescope/internal/chunker"
	"rulescope/internal/completeness"
	"rulescope/internal/detector"
)

// Reporter renders the output of each pipeline stage.
type Reporter interface {
	// Detection reports a language detection result.
	Detection(res detector.Result, validation *detector.Validation) error
	// Chunking reports a chunking plan.
	Chunking(res chunker.Result) error
	// Rules reports deduplicated extracted rules.
	Rules(rules []completeness.ExtractedRule) error
	// Completeness reports a completeness analysis.
	Completeness(report *completeness.Report) error
	// Summary reports the closing one-line summary of a pipeline run.
	Summary(sum Summary) error
}

// Summary condenses a full pipeline run for the end of a report.
type Summary struct {
	Language        string  `json:"language"`
	Confidence      float64 `json:"confidence"`
	Strategy        string  `json:"strategy"`
	ChunkCount      int     `json:"chunk_count"`
	ExtractedRules  int     `json:"extracted_rules"`
	ExpectedRules   int     `json:"expected_rules"`
	Completeness    float64 `json:"completeness"`
	Status          string  `json:"status"`
	TargetAchieved  bool    `json:"target_achieved"`
}

// ComputeSummary builds a run summary from stage results. Any argument may
// be nil or zero when that stage did not run.
func ComputeSummary(det detector.Result, chunks chunker.Result, report *completeness.Report) Summary {
	s := Summary{
		Language:   det.Language,
		Confidence: det.Confidence,
		Strategy:   chunks.StrategyName,
		ChunkCount: chunks.ChunkCount,
	}
	if report != nil {
		s.ExtractedRules = report.TotalExtractedRules
		s.ExpectedRules = report.TotalExpectedRules
		s.Completeness = report.CompletenessPercentage
		s.Status = string(report.Status)
		s.TargetAchieved = report.TargetAchieved()
	}
	return s
}
