package detector

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"rulescope/internal/profile"
)

// Options control detection scoring. Zero values are replaced by the
// defaults below, which are tuned so that a raw score of 100 maps to full
// confidence.
type Options struct {
	// SampleLines bounds how much of the file is scored
	SampleLines int

	// Component weights
	ExtensionWeight  float64
	StrongWeight     float64
	SupportingWeight float64
	RuleWeight       float64

	// Per-class score caps
	StrongCap     float64
	SupportingCap float64
	RuleCap       float64

	// BoostThreshold is the strong-match count at which the strong score
	// gets the Boost multiplier
	BoostThreshold int
	Boost          float64
}

// DefaultOptions returns the standard scoring configuration.
func DefaultOptions() Options {
	return Options{
		SampleLines:      100,
		ExtensionWeight:  15.0,
		StrongWeight:     10.0,
		SupportingWeight: 3.0,
		RuleWeight:       5.0,
		StrongCap:        50.0,
		SupportingCap:    30.0,
		RuleCap:          25.0,
		BoostThreshold:   5,
		Boost:            1.2,
	}
}

// Detector scores file content against every profile in a store.
type Detector struct {
	store *profile.Store
	opts  Options
}

// New creates a detector over the given profile store.
func New(store *profile.Store) *Detector {
	return NewWithOptions(store, DefaultOptions())
}

// NewWithOptions creates a detector with custom scoring options.
func NewWithOptions(store *profile.Store, opts Options) *Detector {
	def := DefaultOptions()
	if opts.SampleLines == 0 {
		opts.SampleLines = def.SampleLines
	}
	if opts.ExtensionWeight == 0 {
		opts.ExtensionWeight = def.ExtensionWeight
	}
	if opts.StrongWeight == 0 {
		opts.StrongWeight = def.StrongWeight
	}
	if opts.SupportingWeight == 0 {
		opts.SupportingWeight = def.SupportingWeight
	}
	if opts.RuleWeight == 0 {
		opts.RuleWeight = def.RuleWeight
	}
	if opts.StrongCap == 0 {
		opts.StrongCap = def.StrongCap
	}
	if opts.SupportingCap == 0 {
		opts.SupportingCap = def.SupportingCap
	}
	if opts.RuleCap == 0 {
		opts.RuleCap = def.RuleCap
	}
	if opts.BoostThreshold == 0 {
		opts.BoostThreshold = def.BoostThreshold
	}
	if opts.Boost == 0 {
		opts.Boost = def.Boost
	}
	return &Detector{store: store, opts: opts}
}

// Store returns the detector's profile store.
func (d *Detector) Store() *profile.Store { return d.store }

// Detect scores content against every loaded profile and returns the best
// match. Detection never fails: with no profiles loaded the result carries
// no profile and is not confident, and callers fall back to default chunking
// parameters.
func (d *Detector) Detect(filename, content string) Result {
	if d.store.Len() == 0 {
		return Result{
			Language: "unknown",
			Evidence: Evidence{Reason: "no_profiles_loaded"},
			Recommendations: []string{
				"Load language profiles configuration",
			},
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	sample := sampleLines(content, d.opts.SampleLines)

	var (
		bestName     string
		bestEvidence Evidence
		bestProfile  *profile.Profile
	)

	// First profile wins ties, so only a strictly better score replaces
	// the current best.
	for _, name := range d.store.Names() {
		p := d.store.Get(name)
		ev := d.score(p, ext, sample)
		if bestProfile == nil || ev.TotalScore > bestEvidence.TotalScore {
			bestName = name
			bestEvidence = ev
			bestProfile = p
		}
	}

	confidence := bestEvidence.TotalScore

	return Result{
		Language:        bestName,
		Confidence:      confidence,
		Profile:         bestProfile,
		Evidence:        bestEvidence,
		Recommendations: d.recommendations(confidence, bestEvidence, bestProfile),
	}
}

// score computes the weighted evidence for one profile over the sample.
func (d *Detector) score(p *profile.Profile, ext string, sample []string) Evidence {
	ev := Evidence{}

	if ext != "" && p.HasExtension(ext) {
		ev.ExtensionScore = d.opts.ExtensionWeight
	}

	strongTotal := 0
	for i, re := range p.StrongRegex() {
		n := countMatches(re, sample)
		if n > 0 {
			strongTotal += n
			ev.Strong = append(ev.Strong, PatternMatch{Pattern: p.StrongPatterns[i], Matches: n})
		}
	}
	if strongTotal > 0 {
		boost := 1.0
		if strongTotal >= d.opts.BoostThreshold {
			boost = d.opts.Boost
		}
		score := float64(strongTotal) * d.opts.StrongWeight
		if score > d.opts.StrongCap {
			score = d.opts.StrongCap
		}
		ev.StrongScore = score * boost
	}

	supportingTotal := 0
	for i, re := range p.SupportingRegex() {
		n := countMatches(re, sample)
		if n > 0 {
			supportingTotal += n
			ev.Supporting = append(ev.Supporting, PatternMatch{Pattern: p.SupportingPatterns[i], Matches: n})
		}
	}
	if supportingTotal > 0 {
		score := float64(supportingTotal) * d.opts.SupportingWeight
		if score > d.opts.SupportingCap {
			score = d.opts.SupportingCap
		}
		ev.SupportingScore = score
	}

	ruleTotal := 0
	for i, re := range p.RuleRegex() {
		n := countMatches(re, sample)
		if n > 0 {
			ruleTotal += n
			ev.Rules = append(ev.Rules, PatternMatch{Pattern: p.RulePatterns[i], Matches: n})
		}
	}
	if ruleTotal > 0 {
		score := float64(ruleTotal) * d.opts.RuleWeight
		if score > d.opts.RuleCap {
			score = d.opts.RuleCap
		}
		ev.RuleScore = score
	}

	raw := ev.ExtensionScore + ev.StrongScore + ev.SupportingScore + ev.RuleScore
	ev.TotalScore = raw / 100.0
	if ev.TotalScore > 1.0 {
		ev.TotalScore = 1.0
	}

	return ev
}

func (d *Detector) recommendations(confidence float64, ev Evidence, p *profile.Profile) []string {
	var recs []string

	if confidence < p.ConfidenceRequired {
		recs = append(recs, fmt.Sprintf(
			"Low confidence (%.1f%%) - consider manual verification", confidence*100))
		if ev.ExtensionScore == 0 {
			recs = append(recs, fmt.Sprintf(
				"File extension not recognized for %s - verify file type", p.Name))
		}
		if ev.StrongScore < 10 {
			recs = append(recs, fmt.Sprintf(
				"Few %s language patterns found - file may be atypical", p.Name))
		}
	} else if confidence >= float64(High) {
		recs = append(recs, fmt.Sprintf("High confidence %s detection", p.Name))

		ruleCount := ev.RuleMatchCount()
		expectedMin := p.RuleDensity.ExpectedMin
		if expectedMin == 0 {
			expectedMin = 5
		}
		if ruleCount >= expectedMin {
			recs = append(recs, fmt.Sprintf(
				"Good rule density detected (%d business logic patterns)", ruleCount))
		} else {
			recs = append(recs, fmt.Sprintf(
				"Low rule density (%d patterns) - file may be data-focused", ruleCount))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, fmt.Sprintf("Medium confidence %s detection", p.Name))
	}

	return recs
}

// sampleLines returns at most max lines from the head of content.
func sampleLines(content string, max int) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > max {
		lines = lines[:max]
	}
	return lines
}

func countMatches(re *regexp.Regexp, lines []string) int {
	total := 0
	for _, line := range lines {
		total += len(re.FindAllStringIndex(line, -1))
	}
	return total
}
