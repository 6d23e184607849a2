package chunker

import (
	"fmt"

	"rulescope/internal/profile"
)

// Strategy identifies one of the four chunking algorithms, in order of
// preference. Selection is a pure score comparison and execution is a switch
// over this type; there is no open-ended dispatch.
type Strategy int

const (
	// SectionAware splits at language section boundaries
	SectionAware Strategy = iota
	// RuleBoundary splits between detected business rule spans
	RuleBoundary
	// SmartOverlap splits with density-adaptive overlap
	SmartOverlap
	// FixedSize splits every preferred-minus-overlap lines
	FixedSize
)

func (s Strategy) String() string {
	switch s {
	case SectionAware:
		return "section_aware"
	case RuleBoundary:
		return "rule_boundary"
	case SmartOverlap:
		return "smart_overlap"
	case FixedSize:
		return "fixed_size"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a strategy name back to its Strategy value.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "section_aware":
		return SectionAware, nil
	case "rule_boundary":
		return RuleBoundary, nil
	case "smart_overlap":
		return SmartOverlap, nil
	case "fixed_size":
		return FixedSize, nil
	default:
		return 0, fmt.Errorf("unknown chunking strategy %q", name)
	}
}

// confidence is the reliability score attached to chunks this strategy
// produces.
func (s Strategy) confidence() float64 {
	switch s {
	case SectionAware:
		return 0.9
	case RuleBoundary:
		return 0.8
	case SmartOverlap:
		return 0.7
	default:
		return 0.5
	}
}

// idPrefix names chunk identifiers produced by this strategy.
func (s Strategy) idPrefix() string {
	switch s {
	case SectionAware:
		return "section"
	case RuleBoundary:
		return "rule"
	case SmartOverlap:
		return "smart"
	default:
		return "fixed"
	}
}

// next returns the fallback strategy to try when this one produces no
// chunks. FixedSize has no fallback.
func (s Strategy) next() Strategy {
	switch s {
	case SectionAware:
		return RuleBoundary
	case RuleBoundary:
		return SmartOverlap
	default:
		return FixedSize
	}
}

// selectStrategy scores the four candidate strategies from the content's
// section-marker and rule-pattern counts and returns the highest scorer.
// Earlier strategies win ties.
func selectStrategy(sectionMarkers, rulePatterns int, prof *profile.Profile) Strategy {
	scores := [4]float64{}

	if sectionMarkers >= 3 && prof != nil && prof.BlockStructured {
		scores[SectionAware] = float64(sectionMarkers) * 0.3
	} else {
		scores[SectionAware] = 0.1
	}

	if rulePatterns >= 5 && sectionMarkers < 3 {
		scores[RuleBoundary] = float64(rulePatterns) * 0.2
	} else {
		scores[RuleBoundary] = float64(rulePatterns) * 0.1
	}

	scores[SmartOverlap] = 0.6
	scores[FixedSize] = 0.4

	best := SectionAware
	for s := RuleBoundary; s <= FixedSize; s++ {
		if scores[s] > scores[best] {
			best = s
		}
	}
	return best
}
