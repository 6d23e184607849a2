package completeness

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

// policyFixture is a condensed insurance policy program carrying 24 catalog
// rule lines across four paragraphs. The state check counts in both the
// validation and conditional categories, so 25 rules are expected in total.
const policyFixture = `       IDENTIFICATION DIVISION.
       PROGRAM-ID. POLICY-VALIDATOR.
       PROCEDURE DIVISION.
       VALIDATE-APPLICATION.
           IF APPLICANT-AGE < MIN-AGE
               MOVE 'REJECTED' TO POLICY-STATUS
           END-IF
           IF CREDIT-SCORE < MIN-CREDIT-SCORE
               MOVE 'REJECTED' TO POLICY-STATUS
           END-IF
           IF EMPLOYMENT-STATUS = 'UNEMPLOYED'
               MOVE 'REJECTED' TO POLICY-STATUS
           END-IF
           IF APPLICANT-STATE = 'FL' OR APPLICANT-STATE = 'LA'
               PERFORM HIGH-RISK-STATE
           END-IF
           IF COVERAGE-AMOUNT > 500000
               MOVE 'REJECTED' TO POLICY-STATUS
           END-IF
           IF AUTO-POLICY
               PERFORM AUTO-VALIDATION
           END-IF
           IF LIFE-POLICY
               PERFORM LIFE-VALIDATION
           END-IF
           MOVE 'APPROVED' TO POLICY-STATUS.
       AUTO-VALIDATION.
           IF DRIVING-YEARS < MIN-DRIVING-YEARS
               MOVE 'REJECTED' TO POLICY-STATUS
           END-IF
           IF ACCIDENT-COUNT > MAX-CLAIMS-ALLOWED
               MOVE 'REJECTED' TO POLICY-STATUS
           END-IF
           IF HAS-DUI
               MOVE 'REJECTED' TO POLICY-STATUS
           END-IF
           IF VIOLATION-COUNT > 3
               MOVE 'REJECTED' TO POLICY-STATUS
           END-IF
           IF VEHICLE-TYPE = 'SPORTS' OR VEHICLE-TYPE = 'LUXURY'
               PERFORM HIGH-RISK-VEHICLE
           END-IF
           IF VEHICLE-AGE > 15
               MOVE 'REJECTED' TO POLICY-STATUS
           END-IF.
       LIFE-VALIDATION.
           IF IS-SMOKER
               PERFORM SMOKER-RATING
           END-IF
           IF COVERAGE-AMOUNT > 1000000
               PERFORM UNDERWRITER-REVIEW
           END-IF
           IF HEALTH-CONDITIONS NOT = SPACES
               PERFORM UNDERWRITER-REVIEW
           END-IF
           IF BENEFICIARY-COUNT = 0
               MOVE 'REJECTED' TO POLICY-STATUS
           END-IF.
       CALCULATE-PREMIUM.
           MOVE REQUESTED-PREMIUM TO CALCULATED-PREMIUM
           COMPUTE CALCULATED-PREMIUM = CALCULATED-PREMIUM * 1.50
           COMPUTE CALCULATED-PREMIUM = CALCULATED-PREMIUM * 0.90
           COMPUTE CALCULATED-PREMIUM = CALCULATED-PREMIUM * WS-SMOKER-SURCHARGE
           MOVE MAX-PREMIUM-AUTO TO CALCULATED-PREMIUM
           MOVE MAX-PREMIUM-LIFE TO CALCULATED-PREMIUM.
       DISPLAY-RESULTS.
           DISPLAY 'POLICY STATUS: ' POLICY-STATUS
           DISPLAY 'PREMIUM: ' CALCULATED-PREMIUM
           STOP RUN.`

// makeRules builds n dummy extracted rules. Descriptions cycle through the
// paragraph vocabularies so the rules spread across sections.
func makeRules(n int) []ExtractedRule {
	descriptions := []string{
		"Validate applicant age and credit before approval",
		"Auto policy vehicle and driving history screening",
		"Life policy smoker and health condition review",
		"Calculate premium with surcharge adjustments",
	}
	rules := make([]ExtractedRule, n)
	for i := range rules {
		rules[i] = ExtractedRule{
			RuleID:              fmt.Sprintf("RULE-%03d", i+1),
			Conditions:          "IF field comparison holds",
			Actions:             "Reject or adjust the application",
			BusinessDescription: descriptions[i%len(descriptions)],
			SourceCodeLines:     "10-12",
		}
	}
	return rules
}

func TestAnalyzeGoodExtraction(t *testing.T) {
	report := NewAnalyzer().Analyze(policyFixture, makeRules(23), nil, "policy.cbl")

	if report.TotalExpectedRules != 25 {
		t.Fatalf("expected rules = %d, want 25", report.TotalExpectedRules)
	}
	if report.TotalExtractedRules != 23 {
		t.Errorf("extracted rules = %d, want 23", report.TotalExtractedRules)
	}
	if math.Abs(report.CompletenessPercentage-92.0) > 1e-9 {
		t.Errorf("completeness = %.1f, want 92.0", report.CompletenessPercentage)
	}
	if report.Status != StatusGood {
		t.Errorf("status = %s, want good", report.Status)
	}
	if !report.TargetAchieved() {
		t.Error("92% should achieve the 90% target")
	}

	if len(report.Recommendations) == 0 ||
		!strings.HasPrefix(report.Recommendations[0], "SUCCESS:") {
		t.Errorf("recommendations = %v, want SUCCESS lead", report.Recommendations)
	}
}

func TestAnalyzeCriticalExtraction(t *testing.T) {
	report := NewAnalyzer().Analyze(policyFixture, makeRules(14), nil, "policy.cbl")

	if math.Abs(report.CompletenessPercentage-56.0) > 1e-9 {
		t.Errorf("completeness = %.1f, want 56.0", report.CompletenessPercentage)
	}
	if report.Status != StatusCritical {
		t.Errorf("status = %s, want critical", report.Status)
	}
	if report.TargetAchieved() {
		t.Error("56% must not achieve the target")
	}
	if len(report.Recommendations) == 0 ||
		!strings.HasPrefix(report.Recommendations[0], "CRITICAL:") {
		t.Errorf("recommendations = %v, want CRITICAL lead", report.Recommendations)
	}
	if len(report.RuleGaps) == 0 {
		t.Error("critical run should report rule gaps")
	}
}

func TestAnalyzeCountsUnclassifiableRules(t *testing.T) {
	rules := makeRules(21)
	rules = append(rules,
		ExtractedRule{RuleID: "RULE-EMPTY-1"},
		ExtractedRule{RuleID: "RULE-EMPTY-2", Conditions: "   ", Actions: "\t"},
	)

	report := NewAnalyzer().Analyze(policyFixture, rules, nil, "policy.cbl")

	if report.TotalExtractedRules != 23 {
		t.Errorf("extracted rules = %d, want 23 (every input record counts)", report.TotalExtractedRules)
	}
	if report.UnclassifiableRules != 2 {
		t.Errorf("unclassifiable rules = %d, want 2", report.UnclassifiableRules)
	}
	if math.Abs(report.CompletenessPercentage-92.0) > 1e-9 {
		t.Errorf("completeness = %.1f, want 92.0", report.CompletenessPercentage)
	}

	// Empty records stay out of the classification buckets.
	classified := 0
	for _, sec := range report.SectionAnalysis {
		classified += sec.Extracted
	}
	if classified != 21 {
		t.Errorf("classified across sections = %d, want 21", classified)
	}

	progress := MonitorProgress([][]ExtractedRule{rules}, report.TotalExpectedRules, nil)
	if progress.CurrentExtracted != report.TotalExtractedRules {
		t.Errorf("monitor count %d != analysis count %d",
			progress.CurrentExtracted, report.TotalExtractedRules)
	}
}

func TestAnalyzeSectionBreakdown(t *testing.T) {
	report := NewAnalyzer().Analyze(policyFixture, nil, nil, "policy.cbl")

	wantExpected := map[string]int{
		"VALIDATE-APPLICATION": 9,
		"AUTO-VALIDATION":      6,
		"LIFE-VALIDATION":      4,
		"CALCULATE-PREMIUM":    6,
		"DISPLAY-RESULTS":      0,
	}
	for name, want := range wantExpected {
		sec, ok := report.SectionAnalysis[name]
		if !ok {
			t.Errorf("section %s missing from analysis", name)
			continue
		}
		if sec.Expected != want {
			t.Errorf("%s expected = %d, want %d", name, sec.Expected, want)
		}
	}

	// The state check line counts once as validation and once as conditional.
	va := report.SectionAnalysis["VALIDATE-APPLICATION"]
	if va.CategoryBreakdown[CategoryValidation] != 5 {
		t.Errorf("validation count = %d, want 5", va.CategoryBreakdown[CategoryValidation])
	}
	if va.CategoryBreakdown[CategoryConditional] != 1 {
		t.Errorf("conditional count = %d, want 1", va.CategoryBreakdown[CategoryConditional])
	}

	// A section with nothing expected grades as fully complete.
	if dr := report.SectionAnalysis["DISPLAY-RESULTS"]; dr.Status != "good" || dr.Completeness != 100.0 {
		t.Errorf("DISPLAY-RESULTS = %s %.1f, want good 100.0", dr.Status, dr.Completeness)
	}
}

func TestAnalyzeUnknownLanguageWholeFile(t *testing.T) {
	report := NewAnalyzer().Analyze("some text\nmore text", nil, nil, "notes.txt")

	if report.TotalExpectedRules != 0 {
		t.Errorf("expected rules = %d, want 0 without a catalog", report.TotalExpectedRules)
	}
	if _, ok := report.SectionAnalysis["entire_file"]; !ok {
		t.Errorf("sections = %v, want entire_file", report.SectionAnalysis)
	}
}

func TestLastReport(t *testing.T) {
	a := NewAnalyzer()
	if a.LastReport() != nil {
		t.Fatal("LastReport should be nil before any analysis")
	}
	report := a.Analyze(policyFixture, makeRules(23), nil, "policy.cbl")
	if a.LastReport() != report {
		t.Error("LastReport should return the latest report")
	}
}

func TestIdentifyGapsSkipsSatisfiedSections(t *testing.T) {
	expected := []expectedSection{
		{
			name: "AUTO-VALIDATION", startLine: 10, endLine: 20, total: 3,
			categories: map[Category]int{CategoryValidation: 2, CategoryDecision: 1},
		},
		{
			name: "CALCULATE-PREMIUM", startLine: 21, endLine: 30, total: 4,
			categories: map[Category]int{CategoryCalculation: 4},
		},
	}
	extracted := extractedCounts{
		total:      4,
		byCategory: map[Category]int{CategoryValidation: 2, CategoryDecision: 1, CategoryCalculation: 1},
		bySection:  map[string]int{"AUTO-VALIDATION": 3, "CALCULATE-PREMIUM": 1},
	}

	gaps := identifyGaps(expected, extracted)

	if len(gaps) != 1 {
		t.Fatalf("gaps = %d, want 1", len(gaps))
	}
	gap := gaps[0]
	if gap.SectionName != "CALCULATE-PREMIUM" || gap.Category != CategoryCalculation {
		t.Errorf("gap = %s/%s, want CALCULATE-PREMIUM/calculation", gap.SectionName, gap.Category)
	}
	if gap.GapCount() != 3 {
		t.Errorf("gap count = %d, want 3", gap.GapCount())
	}
	if gap.Confidence != 0.8 {
		t.Errorf("gap confidence = %v, want 0.8", gap.Confidence)
	}
	if gap.LineRange != [2]int{21, 30} {
		t.Errorf("gap line range = %v, want [21 30]", gap.LineRange)
	}
	if len(gap.Recommendations) == 0 {
		t.Error("calculation gap in CALCULATE-PREMIUM should carry recommendations")
	}
}

func TestGapDerivedValues(t *testing.T) {
	cases := []struct {
		name      string
		expected  int
		extracted int
		wantCount int
		wantRatio float64
	}{
		{"shortfall", 8, 5, 3, 0.625},
		{"fully met", 4, 4, 0, 1.0},
		{"overshoot clamps to zero", 3, 7, 0, 7.0 / 3.0},
		{"nothing expected", 0, 2, 0, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gap := Gap{ExpectedCount: tc.expected, ExtractedCount: tc.extracted}
			if got := gap.GapCount(); got != tc.wantCount {
				t.Errorf("GapCount() = %d, want %d", got, tc.wantCount)
			}
			if got := gap.CompletenessRatio(); math.Abs(got-tc.wantRatio) > 1e-9 {
				t.Errorf("CompletenessRatio() = %v, want %v", got, tc.wantRatio)
			}
		})
	}
}

func TestRecommendationsSectionCallouts(t *testing.T) {
	sections := map[string]SectionSummary{
		"VALIDATE-APPLICATION": {Expected: 9, Extracted: 8, Completeness: 800.0 / 9.0, Status: "warning"},
		"CALCULATE-PREMIUM":    {Expected: 6, Extracted: 6, Completeness: 100, Status: "good"},
	}

	recs := buildRecommendations(nil, StatusGood, sections)

	var callout string
	for _, rec := range recs {
		if strings.HasPrefix(rec, "Target sections for improvement:") {
			callout = rec
		}
	}
	if callout == "" {
		t.Fatalf("no section call-out in %v", recs)
	}
	if !strings.Contains(callout, "VALIDATE-APPLICATION") {
		t.Errorf("section below 90%% missing from call-out: %s", callout)
	}
	if strings.Contains(callout, "CALCULATE-PREMIUM") {
		t.Errorf("complete section should not be called out: %s", callout)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want Status
	}{
		{100, StatusExcellent},
		{95, StatusExcellent},
		{94.9, StatusGood},
		{90, StatusGood},
		{89.9, StatusWarning},
		{80, StatusWarning},
		{79.9, StatusPoor},
		{70, StatusPoor},
		{69.9, StatusCritical},
		{0, StatusCritical},
	}
	for _, tt := range tests {
		if got := statusFor(tt.pct); got != tt.want {
			t.Errorf("statusFor(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		rule ExtractedRule
		want Category
	}{
		{
			"premium keyword wins first",
			ExtractedRule{BusinessDescription: "Apply premium surcharge if smoker"},
			CategoryCalculation,
		},
		{
			"validation keywords",
			ExtractedRule{BusinessDescription: "Verify the applicant meets minimum age"},
			CategoryValidation,
		},
		{
			"decision keywords",
			ExtractedRule{Conditions: "WHEN the policy type matches"},
			CategoryDecision,
		},
		{
			"workflow keywords",
			ExtractedRule{Actions: "PERFORM the next step"},
			CategoryWorkflow,
		},
		{
			"data transform keywords",
			ExtractedRule{Actions: "MOVE approved to status"},
			CategoryDataTransformation,
		},
		{
			"empty rule defaults to decision",
			ExtractedRule{},
			CategoryDecision,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.rule); got != tt.want {
				t.Errorf("Categorize = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIdentifySection(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"Reject applicants with DUI history", "AUTO-VALIDATION"},
		{"Smoker status raises the life policy rate", "LIFE-VALIDATION"},
		{"Premium discount for multi-policy holders", "CALCULATE-PREMIUM"},
		{"Check employment before underwriting", "VALIDATE-APPLICATION"},
		{"Print the final report", "UNKNOWN"},
	}
	for _, tt := range tests {
		rule := ExtractedRule{BusinessDescription: tt.desc}
		if got := IdentifySection(rule); got != tt.want {
			t.Errorf("IdentifySection(%q) = %s, want %s", tt.desc, got, tt.want)
		}
	}
}
