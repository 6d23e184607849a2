package extract

import (
	"strings"

	"rulescope/internal/completeness"
)

const similarityThreshold = 0.8

// Deduplicate removes exact and near-duplicate rules from overlapping
// chunks. Near-duplicates are detected by Jaccard word similarity over
// conditions and actions; when two rules collide the one carrying more
// text survives.
func Deduplicate(rules []completeness.ExtractedRule) []completeness.ExtractedRule {
	if len(rules) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var unique []completeness.ExtractedRule

	for _, rule := range rules {
		key := ruleKey(rule)
		if _, ok := seen[key]; ok {
			continue
		}

		duplicate := false
		for i, existing := range unique {
			if ruleSimilarity(rule, existing) > similarityThreshold {
				duplicate = true
				if ruleDetail(rule) > ruleDetail(existing) {
					unique[i] = rule
				}
				break
			}
		}

		if !duplicate {
			seen[key] = struct{}{}
			unique = append(unique, rule)
		}
	}

	return unique
}

// ValidateQuality checks a rule's fields for presence and reasonable
// length, returning any issues found.
func ValidateQuality(rule completeness.ExtractedRule) (bool, []string) {
	var issues []string

	if rule.RuleID == "" {
		issues = append(issues, "Missing or empty required field: rule_id")
	}
	if rule.Conditions == "" {
		issues = append(issues, "Missing or empty required field: conditions")
	}
	if rule.Actions == "" {
		issues = append(issues, "Missing or empty required field: actions")
	}
	if rule.BusinessDescription == "" {
		issues = append(issues, "Missing or empty required field: business_description")
	}

	if desc := rule.BusinessDescription; desc != "" {
		if len(desc) < 10 {
			issues = append(issues, "Business description too short")
		} else if len(desc) > 500 {
			issues = append(issues, "Business description too long")
		}
	}
	if rule.Conditions != "" && len(rule.Conditions) < 5 {
		issues = append(issues, "Conditions too vague")
	}
	if rule.Actions != "" && len(rule.Actions) < 3 {
		issues = append(issues, "Actions too vague")
	}

	return len(issues) == 0, issues
}

func ruleKey(rule completeness.ExtractedRule) string {
	conditions := strings.Join(strings.Fields(strings.ToLower(rule.Conditions)), " ")
	actions := strings.Join(strings.Fields(strings.ToLower(rule.Actions)), " ")
	return conditions + "|" + actions
}

func ruleDetail(rule completeness.ExtractedRule) int {
	return len(rule.RuleID) + len(rule.Conditions) + len(rule.Actions) +
		len(rule.BusinessDescription) + len(rule.SourceCodeLines)
}

func ruleSimilarity(a, b completeness.ExtractedRule) float64 {
	conditions := jaccard(strings.ToLower(a.Conditions), strings.ToLower(b.Conditions))
	actions := jaccard(strings.ToLower(a.Actions), strings.ToLower(b.Actions))
	return (conditions + actions) / 2
}

func jaccard(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	wordsA := make(map[string]struct{})
	for _, w := range strings.Fields(a) {
		wordsA[w] = struct{}{}
	}
	wordsB := make(map[string]struct{})
	for _, w := range strings.Fields(b) {
		wordsB[w] = struct{}{}
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
