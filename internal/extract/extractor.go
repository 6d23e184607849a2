package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"rulescope/internal/chunker"
	"rulescope/internal/completeness"
)

// promptEnhancement steers the model toward the idioms of one source
// language.
type promptEnhancement struct {
	contextInfo   string
	patternHints  string
	businessFocus string
}

var enhancements = map[string]promptEnhancement{
	"cobol": {
		contextInfo:   "Legacy COBOL mainframe application with embedded business rules",
		patternHints:  "Look for PERFORM statements, conditional logic (IF-THEN-ELSE), and data validation routines",
		businessFocus: "Insurance, banking, and financial services business logic",
	},
	"java": {
		contextInfo:   "Enterprise Java application with object-oriented business logic",
		patternHints:  "Look for business logic in service classes, validation methods, and configuration",
		businessFocus: "Enterprise application business rules and workflows",
	},
	"pascal": {
		contextInfo:   "Legacy Pascal application with procedural business logic",
		patternHints:  "Look for procedure calls, case statements, and validation logic",
		businessFocus: "Scientific, educational, or legacy system business rules",
	},
}

var defaultEnhancement = promptEnhancement{
	contextInfo:   "Legacy application with embedded business rules",
	patternHints:  "Look for conditional logic, validation routines, and decision points",
	businessFocus: "General business logic and workflows",
}

func enhancementFor(language string) promptEnhancement {
	if e, ok := enhancements[strings.ToLower(language)]; ok {
		return e
	}
	return defaultEnhancement
}

// Extractor runs business-rule extraction against the Anthropic API, one
// chunk at a time.
type Extractor struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// New creates an extractor, or nil when ANTHROPIC_API_KEY is not set.
func New() *Extractor {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil
	}

	return &Extractor{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     anthropic.ModelClaude3_5Haiku20241022,
		maxTokens: 4096,
	}
}

// ExtractAll processes every chunk in order and returns the per-chunk
// rules. A chunk whose API call or parse fails contributes an empty slice
// rather than aborting the run. onChunk, when non-nil, is called after
// each chunk completes.
func (e *Extractor) ExtractAll(ctx context.Context, res chunker.Result, fileContext []string, onChunk func(index int, rules []completeness.ExtractedRule)) ([][]completeness.ExtractedRule, error) {
	if e == nil {
		return nil, fmt.Errorf("extractor not initialized (missing ANTHROPIC_API_KEY)")
	}

	results := make([][]completeness.ExtractedRule, len(res.Chunks))
	for i, chunk := range res.Chunks {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		rules, err := e.ExtractChunk(ctx, chunk, fileContext, res.Language)
		if err != nil {
			rules = nil
		}
		results[i] = rules

		if onChunk != nil {
			onChunk(i, rules)
		}
	}
	return results, nil
}

// ExtractChunk sends one chunk to the model and parses the returned rules.
func (e *Extractor) ExtractChunk(ctx context.Context, chunk string, fileContext []string, language string) ([]completeness.ExtractedRule, error) {
	if e == nil {
		return nil, fmt.Errorf("extractor not initialized (missing ANTHROPIC_API_KEY)")
	}

	enh := enhancementFor(language)
	system := buildSystemPrompt(enh)
	user := buildUserPrompt(chunk, fileContext, enh)

	resp, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction API error: %w", err)
	}

	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	return parseRules(responseText)
}

func buildSystemPrompt(enh promptEnhancement) string {
	var b strings.Builder
	b.WriteString(`You are an expert business rule extraction and translation agent. Your task is to analyze legacy code snippets, identify embedded business rules, separate them from technical implementation details, and translate any cryptic technical terminology into clear, business-friendly language.

Key objectives:
1. BUSINESS FOCUS: Extract only business logic, not technical implementation
2. CLARITY: Translate technical terms into business language
3. COMPLETENESS: Identify both explicit and implicit business rules
4. CATEGORIZATION: Classify rules by type (VALIDATION, CALCULATION, DECISION, WORKFLOW, CONDITIONAL, DATA_TRANSFORMATION)

Output format: JSON array with structured business rules containing:
- rule_id: Unique identifier
- conditions: Business conditions in plain language
- actions: Business actions taken
- business_description: Clear explanation for business users
- source_code_lines: The relevant lines from the source`)

	if enh.contextInfo != "" {
		fmt.Fprintf(&b, "\n\nContext: %s", enh.contextInfo)
	}
	if enh.patternHints != "" {
		fmt.Fprintf(&b, "\nPattern Recognition: %s", enh.patternHints)
	}
	if enh.businessFocus != "" {
		fmt.Fprintf(&b, "\nBusiness Focus: %s", enh.businessFocus)
	}
	return b.String()
}

func buildUserPrompt(chunk string, fileContext []string, enh promptEnhancement) string {
	var parts []string

	if len(fileContext) > 0 {
		parts = append(parts, "Consider the following context:")
		if enh.contextInfo != "" {
			parts = append(parts, enh.contextInfo)
		}
		parts = append(parts, strings.Join(fileContext, "\n"), "")
	}

	parts = append(parts,
		"Analyze the following legacy code snippet and extract all explicit and implicit business rules.",
		"For each rule, provide its conditions, actions, a clear business description, and the relevant lines from the source code.",
		"Translate any technical terms into business language. If no business rules are found, return an empty array.",
		"",
		"Code Snippet:",
		"```",
		chunk,
		"```",
		"",
		"Extract business rules as a JSON array following this format:",
		`[
  {
    "rule_id": "RULE_001",
    "conditions": "Customer age must be 18 or older",
    "actions": "Approve application for processing",
    "business_description": "Age verification rule: Only adult customers are eligible for applications",
    "source_code_lines": "lines 45-47"
  }
]`,
	)

	return strings.Join(parts, "\n")
}

// parseRules decodes a model response into rules, tolerating markdown
// fences and surrounding prose. Rules missing any required field are
// dropped.
func parseRules(responseText string) ([]completeness.ExtractedRule, error) {
	cleaned := cleanJSONResponse(responseText)
	if cleaned == "" {
		return nil, nil
	}

	var rules []completeness.ExtractedRule
	if err := json.Unmarshal([]byte(cleaned), &rules); err != nil {
		return nil, fmt.Errorf("parsing extraction response: %w", err)
	}

	valid := rules[:0]
	for _, rule := range rules {
		if rule.RuleID != "" && rule.Conditions != "" && rule.Actions != "" && rule.BusinessDescription != "" {
			valid = append(valid, rule)
		}
	}
	return valid, nil
}

// cleanJSONResponse strips markdown code fences and locates the JSON array
// within surrounding text.
func cleanJSONResponse(text string) string {
	if idx := strings.Index(text, "```json"); idx != -1 {
		text = text[idx+7:]
		if end := strings.Index(text, "```"); end != -1 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx != -1 {
		text = text[idx+3:]
		if end := strings.Index(text, "```"); end != -1 {
			text = text[:end]
		}
	}

	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		return text
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return text
}
