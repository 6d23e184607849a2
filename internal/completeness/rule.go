package completeness

import "strings"

// ExtractedRule is one business rule produced by the extraction stage.
// All fields are plain text as returned by the model.
type ExtractedRule struct {
	RuleID              string `json:"rule_id"`
	Conditions          string `json:"conditions"`
	Actions             string `json:"actions"`
	BusinessDescription string `json:"business_description"`
	SourceCodeLines     string `json:"source_code_lines"`
}

// Categorize classifies a rule by keywords in its description, conditions,
// and actions. The first matching category wins; rules matching nothing
// default to decision logic.
func Categorize(rule ExtractedRule) Category {
	text := strings.ToLower(rule.BusinessDescription + " " + rule.Conditions + " " + rule.Actions)

	switch {
	case containsAny(text, "calculate", "compute", "premium", "multiply", "discount", "surcharge"):
		return CategoryCalculation
	case containsAny(text, "valid", "check", "verify", "minimum", "maximum", "required"):
		return CategoryValidation
	case containsAny(text, "if", "then", "when", "condition", "evaluate"):
		return CategoryDecision
	case containsAny(text, "perform", "process", "workflow", "step"):
		return CategoryWorkflow
	case containsAny(text, "move", "assign", "set", "status", "transform"):
		return CategoryDataTransformation
	case containsAny(text, "and", "or", "complex", "nested", "multiple"):
		return CategoryConditional
	default:
		return CategoryDecision
	}
}

// IdentifySection guesses which source section a rule came from, based on
// domain vocabulary in its description. Returns "UNKNOWN" when nothing
// matches.
func IdentifySection(rule ExtractedRule) string {
	desc := strings.ToLower(rule.BusinessDescription)

	switch {
	case containsAny(desc, "auto", "driving", "vehicle", "accident", "dui"):
		return "AUTO-VALIDATION"
	case containsAny(desc, "life", "smoker", "health", "beneficiary", "medical"):
		return "LIFE-VALIDATION"
	case containsAny(desc, "premium", "calculate", "surcharge", "discount"):
		return "CALCULATE-PREMIUM"
	case containsAny(desc, "age", "credit", "employment", "income", "validate"):
		return "VALIDATE-APPLICATION"
	default:
		return "UNKNOWN"
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
