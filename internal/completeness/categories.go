package completeness

import "regexp"

// Category classifies a business rule by the kind of logic it encodes.
type Category string

const (
	CategoryValidation         Category = "validation"
	CategoryCalculation        Category = "calculation"
	CategoryDecision           Category = "decision"
	CategoryWorkflow           Category = "workflow"
	CategoryDataTransformation Category = "data_transform"
	CategoryConditional        Category = "conditional"
)

// Status grades how complete an extraction run was.
type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusWarning   Status = "warning"
	StatusPoor      Status = "poor"
	StatusCritical  Status = "critical"
)

// statusFor maps a completeness percentage to a status grade. Boundaries
// are inclusive: 95 is excellent, 90 is good, 80 is warning, 70 is poor.
func statusFor(percentage float64) Status {
	switch {
	case percentage >= 95:
		return StatusExcellent
	case percentage >= 90:
		return StatusGood
	case percentage >= 80:
		return StatusWarning
	case percentage >= 70:
		return StatusPoor
	default:
		return StatusCritical
	}
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile("(?i)"+p))
	}
	return out
}

// cobolRulePatterns is the reference catalog of business-rule statements in
// the insurance policy programs this analyzer was calibrated against. Each
// source line is counted once per category it matches.
var cobolRulePatterns = map[Category][]*regexp.Regexp{
	CategoryValidation: compileAll([]string{
		`^\s*IF\s+APPLICANT-AGE\s*<\s*MIN-AGE`,
		`^\s*IF\s+AUTO-POLICY\s+AND\s+APPLICANT-AGE\s*>\s*MAX-AGE-AUTO`,
		`^\s*IF\s+LIFE-POLICY\s+AND\s+APPLICANT-AGE\s*>\s*MAX-AGE-LIFE`,
		`^\s*IF\s+CREDIT-SCORE\s*<\s*MIN-CREDIT-SCORE`,
		`^\s*IF\s+EMPLOYMENT-STATUS\s*=\s*['"]UNEMPLOYED['"]`,
		`^\s*IF\s+APPLICANT-STATE\s*=.*(?:FL|LA).*OR`,
		`^\s*IF\s+COVERAGE-AMOUNT\s*>\s*500000`,
		`^\s*IF\s+DRIVING-YEARS\s*<\s*MIN-DRIVING-YEARS`,
		`^\s*IF\s+ACCIDENT-COUNT\s*>\s*MAX-CLAIMS-ALLOWED`,
		`^\s*IF\s+HAS-DUI\s*$`,
		`^\s*IF\s+VIOLATION-COUNT\s*>\s*3`,
		`^\s*IF\s+BENEFICIARY-COUNT\s*=\s*0`,
	}),
	CategoryCalculation: compileAll([]string{
		`^\s*COMPUTE\s+CALCULATED-PREMIUM\s*=\s*CALCULATED-PREMIUM\s*\*\s*1\.50`,
		`^\s*COMPUTE\s+CALCULATED-PREMIUM\s*=\s*CALCULATED-PREMIUM\s*\*\s*0\.90`,
		`^\s*COMPUTE\s+CALCULATED-PREMIUM\s*=\s*CALCULATED-PREMIUM\s*\*\s*1\.15`,
		`^\s*COMPUTE\s+CALCULATED-PREMIUM\s*=\s*CALCULATED-PREMIUM\s*\*.*SMOKER-SURCHARGE`,
		`^\s*MOVE\s+MAX-PREMIUM-AUTO\s+TO\s+CALCULATED-PREMIUM`,
		`^\s*MOVE\s+MAX-PREMIUM-LIFE\s+TO\s+CALCULATED-PREMIUM`,
	}),
	CategoryDecision: compileAll([]string{
		`^\s*IF\s+VEHICLE-TYPE\s*=.*(?:SPORTS|LUXURY).*OR`,
		`^\s*IF\s+VEHICLE-AGE\s*>\s*15`,
		`^\s*IF\s+IS-SMOKER\s*$`,
		`^\s*IF\s+COVERAGE-AMOUNT\s*>\s*1000000`,
		`^\s*IF\s+HEALTH-CONDITIONS\s+NOT\s*=\s*SPACES`,
		`^\s*IF\s+AUTO-POLICY\s+AND\s+APPLICANT-AGE\s*<\s*YOUNG-DRIVER-AGE`,
		`^\s*IF\s+AUTO-POLICY\s+AND\s+APPLICANT-AGE\s*>\s*SENIOR-DRIVER-AGE`,
		`^\s*IF\s+LIFE-POLICY\s+AND\s+IS-SMOKER`,
		`^\s*IF\s+MULTI-POLICY\s*$`,
		`^\s*IF\s+AUTO-POLICY\s+AND\s+CALCULATED-PREMIUM\s*>\s*MAX-PREMIUM-AUTO`,
		`^\s*IF\s+LIFE-POLICY\s+AND\s+CALCULATED-PREMIUM\s*>\s*MAX-PREMIUM-LIFE`,
	}),
	CategoryWorkflow: compileAll([]string{
		`^\s*IF\s+AUTO-POLICY\s*$`,
		`^\s*IF\s+LIFE-POLICY\s*$`,
	}),
	CategoryDataTransformation: compileAll([]string{
		`^\s*MOVE\s+['"]APPROVED['"].*TO\s+POLICY-STATUS`,
		`^\s*MOVE\s+REQUESTED-PREMIUM\s+TO\s+CALCULATED-PREMIUM`,
	}),
	CategoryConditional: compileAll([]string{
		`^\s*IF\s+APPLICANT-STATE\s*=.*(?:FL|CA).*OR`,
	}),
}

// rulePatternsByLanguage maps a detected language to its reference rule
// catalog. Languages without a catalog get whole-file generic analysis.
var rulePatternsByLanguage = map[string]map[Category][]*regexp.Regexp{
	"cobol": cobolRulePatterns,
}

// categoryOrder fixes iteration order for deterministic reports.
var categoryOrder = []Category{
	CategoryValidation,
	CategoryCalculation,
	CategoryDecision,
	CategoryWorkflow,
	CategoryDataTransformation,
	CategoryConditional,
}

// cobolSectionPatterns locate paragraph boundaries in the reference
// programs.
var cobolSectionPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"VALIDATE-APPLICATION", regexp.MustCompile(`(?i)^\s*VALIDATE-APPLICATION\.`)},
	{"AUTO-VALIDATION", regexp.MustCompile(`(?i)^\s*AUTO-VALIDATION\.`)},
	{"LIFE-VALIDATION", regexp.MustCompile(`(?i)^\s*LIFE-VALIDATION\.`)},
	{"CALCULATE-PREMIUM", regexp.MustCompile(`(?i)^\s*CALCULATE-PREMIUM\.`)},
	{"DISPLAY-RESULTS", regexp.MustCompile(`(?i)^\s*DISPLAY-RESULTS\.`)},
}
