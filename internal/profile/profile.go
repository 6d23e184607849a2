package profile

import "regexp"

// Profile describes how to recognize and chunk one language or dialect.
// Profiles are loaded once at startup and are read-only afterwards, so a
// single Profile may be shared across concurrent pipeline invocations.
type Profile struct {
	// Name is the identifier for this language (e.g., "cobol", "java")
	Name string `yaml:"name"`

	// Description is a human-readable summary of the profile
	Description string `yaml:"description"`

	// ConfidenceRequired is the minimum detection confidence for this
	// profile's match to be considered trustworthy
	ConfidenceRequired float64 `yaml:"confidence_required"`

	// FileExtensions are extension hints including the leading dot
	FileExtensions []string `yaml:"file_extensions"`

	// StrongPatterns are highly discriminative language signals
	StrongPatterns []string `yaml:"strong_patterns"`

	// SupportingPatterns are weaker corroborating signals
	SupportingPatterns []string `yaml:"supporting_patterns"`

	// RulePatterns indicate lines that open a business rule
	RulePatterns []string `yaml:"rule_patterns"`

	// RuleTerminators indicate lines that close a business rule
	RuleTerminators []string `yaml:"rule_terminators"`

	// EstimatePatterns are the narrower decision-making signals used to
	// estimate rule counts when no explicit rule markers are present.
	// RulePatterns over-count here since they match routine statements.
	EstimatePatterns []string `yaml:"estimate_patterns"`

	// SectionMarkers match lines that begin a major structural section
	SectionMarkers []string `yaml:"section_markers"`

	// BlockStructured marks languages whose sections form clear blocks,
	// making them eligible for section-aware chunking
	BlockStructured bool `yaml:"block_structured"`

	// MarkdownSections selects heading-based section detection instead of
	// line patterns (documentation dialects)
	MarkdownSections bool `yaml:"markdown_sections"`

	// Chunking holds the size parameters for this language
	Chunking ChunkingParams `yaml:"chunking"`

	// RuleDensity bounds the expected rules per 100 lines
	RuleDensity DensityRange `yaml:"rule_density"`

	strongRegex     []*regexp.Regexp
	supportingRegex []*regexp.Regexp
	ruleRegex       []*regexp.Regexp
	terminatorRegex []*regexp.Regexp
	estimateRegex   []*regexp.Regexp
	sectionRegex    []*regexp.Regexp
}

// ChunkingParams are the per-language chunk sizing defaults, in lines.
type ChunkingParams struct {
	PreferredSize int `yaml:"preferred_size"`
	MinSize       int `yaml:"min_size"`
	MaxSize       int `yaml:"max_size"`
	OverlapSize   int `yaml:"overlap_size"`
}

// DensityRange bounds the expected rule density in rules per 100 lines.
type DensityRange struct {
	ExpectedMin int `yaml:"expected_min"`
	ExpectedMax int `yaml:"expected_max"`
}

// DefaultChunking is applied when a profile omits chunking parameters and
// when no profile matches at all.
var DefaultChunking = ChunkingParams{
	PreferredSize: 175,
	MinSize:       87,
	MaxSize:       262,
	OverlapSize:   25,
}

// Compile compiles all pattern lists. Patterns that fail to compile are
// dropped rather than failing the whole profile; a profile whose every
// pattern is invalid still loads but scores zero.
func (p *Profile) Compile() {
	p.strongRegex = compileAll(p.StrongPatterns)
	p.supportingRegex = compileAll(p.SupportingPatterns)
	p.ruleRegex = compileAll(p.RulePatterns)
	p.terminatorRegex = compileAll(p.RuleTerminators)
	p.estimateRegex = compileAll(p.EstimatePatterns)
	p.sectionRegex = compileAll(p.SectionMarkers)

	if p.Chunking.PreferredSize == 0 {
		p.Chunking = DefaultChunking
	}
}

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// StrongRegex returns the compiled strong patterns.
func (p *Profile) StrongRegex() []*regexp.Regexp { return p.strongRegex }

// SupportingRegex returns the compiled supporting patterns.
func (p *Profile) SupportingRegex() []*regexp.Regexp { return p.supportingRegex }

// RuleRegex returns the compiled rule-indicating patterns.
func (p *Profile) RuleRegex() []*regexp.Regexp { return p.ruleRegex }

// TerminatorRegex returns the compiled rule-terminator patterns.
func (p *Profile) TerminatorRegex() []*regexp.Regexp { return p.terminatorRegex }

// EstimateRegex returns the compiled rule-estimation patterns.
func (p *Profile) EstimateRegex() []*regexp.Regexp { return p.estimateRegex }

// SectionRegex returns the compiled section-marker patterns.
func (p *Profile) SectionRegex() []*regexp.Regexp { return p.sectionRegex }

// HasExtension reports whether ext (with leading dot, lower case) is one of
// the profile's extension hints.
func (p *Profile) HasExtension(ext string) bool {
	for _, e := range p.FileExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
