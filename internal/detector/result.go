package detector

import (
	"fmt"

	"rulescope/internal/profile"
)

// ConfidenceLevel buckets a raw confidence score into a human-readable band.
type ConfidenceLevel float64

const (
	VeryLow  ConfidenceLevel = 0.0
	Low      ConfidenceLevel = 0.3
	Medium   ConfidenceLevel = 0.6
	High     ConfidenceLevel = 0.8
	VeryHigh ConfidenceLevel = 0.95
)

func (l ConfidenceLevel) String() string {
	switch l {
	case VeryHigh:
		return "very_high"
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return "very_low"
	}
}

// PatternMatch itemizes how many times one pattern matched in the sample.
type PatternMatch struct {
	Pattern string `json:"pattern"`
	Matches int    `json:"matches"`
}

// Evidence breaks a detection score into its weighted components.
type Evidence struct {
	ExtensionScore  float64        `json:"extension_score"`
	StrongScore     float64        `json:"strong_pattern_score"`
	SupportingScore float64        `json:"supporting_pattern_score"`
	RuleScore       float64        `json:"rule_pattern_score"`
	Strong          []PatternMatch `json:"strong,omitempty"`
	Supporting      []PatternMatch `json:"supporting,omitempty"`
	Rules           []PatternMatch `json:"rules,omitempty"`
	TotalScore      float64        `json:"total_score"`
	Reason          string         `json:"reason,omitempty"`
}

// RuleMatchCount sums the itemized rule-pattern matches.
func (e Evidence) RuleMatchCount() int {
	total := 0
	for _, m := range e.Rules {
		total += m.Matches
	}
	return total
}

// Result is the outcome of one detection call.
type Result struct {
	Language        string           `json:"language"`
	Confidence      float64          `json:"confidence"`
	Profile         *profile.Profile `json:"-"`
	Evidence        Evidence         `json:"evidence"`
	Recommendations []string         `json:"recommendations"`
}

// IsConfident reports whether the detected confidence meets the matching
// profile's threshold. Callers should fall back to default chunking
// parameters when this is false.
func (r Result) IsConfident() bool {
	return r.Profile != nil && r.Confidence >= r.Profile.ConfidenceRequired
}

// Level returns the confidence band for the raw score.
func (r Result) Level() ConfidenceLevel {
	switch {
	case r.Confidence >= 0.95:
		return VeryHigh
	case r.Confidence >= 0.8:
		return High
	case r.Confidence >= 0.6:
		return Medium
	case r.Confidence >= 0.3:
		return Low
	default:
		return VeryLow
	}
}

// Validation is the outcome of a post-detection density check.
type Validation struct {
	Valid         bool     `json:"valid"`
	Reason        string   `json:"reason,omitempty"`
	Confidence    float64  `json:"confidence"`
	RuleDensity   float64  `json:"estimated_rule_density"`
	ExpectedRange string   `json:"expected_range,omitempty"`
	Suggestions   []string `json:"suggestions"`
}

// Validate cross-checks a detection result against the content's measured
// rule density and suggests chunk sizing adjustments.
func Validate(r Result, totalLines int) Validation {
	if r.Profile == nil {
		return Validation{
			Reason:      "no_profile_available",
			Suggestions: []string{"Use fallback chunking strategy"},
		}
	}

	if !r.IsConfident() {
		return Validation{
			Reason:     "confidence_too_low",
			Confidence: r.Confidence,
			Suggestions: []string{
				"Consider manual language specification",
				"Use fallback chunking strategy",
				"Verify file type and content",
			},
		}
	}

	density := 0.0
	if totalLines > 0 {
		density = float64(r.Evidence.RuleMatchCount()) / float64(totalLines) * 100
	}

	min := r.Profile.RuleDensity.ExpectedMin
	max := r.Profile.RuleDensity.ExpectedMax
	if min == 0 && max == 0 {
		min, max = 5, 20
	}

	v := Validation{
		Valid:         true,
		Confidence:    r.Confidence,
		RuleDensity:   density,
		ExpectedRange: fmt.Sprintf("%d-%d", min, max),
	}

	switch {
	case density < float64(min):
		v.Suggestions = append(v.Suggestions, "Low rule density - consider larger chunk sizes")
	case density > float64(max):
		v.Suggestions = append(v.Suggestions, "High rule density - consider smaller chunk sizes for better context")
	default:
		v.Suggestions = append(v.Suggestions, "Rule density within expected range - use standard chunking")
	}

	return v
}
