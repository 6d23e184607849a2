package cmd

import (
	"testing"

	"rulescope/internal/chunker"
	"rulescope/internal/completeness"
)

func planOf(estimates ...int) chunker.Result {
	meta := make([]chunker.ChunkMetadata, len(estimates))
	for i, est := range estimates {
		meta[i] = chunker.ChunkMetadata{RuleCountEstimate: est}
	}
	return chunker.Result{Metadata: meta, ChunkCount: len(estimates)}
}

func rulesOf(n int) []completeness.ExtractedRule {
	rules := make([]completeness.ExtractedRule, n)
	for i := range rules {
		rules[i] = completeness.ExtractedRule{
			RuleID:     "RULE-001",
			Conditions: "IF balance below minimum",
			Actions:    "Reject the application",
		}
	}
	return rules
}

func TestChunkMonitorRaisesEachLevelOnce(t *testing.T) {
	monitor := newChunkMonitor(planOf(10, 10, 10, 10))

	if fresh := monitor.record(rulesOf(2)); len(fresh) != 0 {
		t.Errorf("quarter done: warnings %v, want none yet", fresh)
	}

	fresh := monitor.record(rulesOf(2))
	if len(fresh) != 1 || fresh[0].Level != "critical" {
		t.Fatalf("half done at 10%%: warnings %v, want one critical", fresh)
	}

	fresh = monitor.record(rulesOf(2))
	if len(fresh) != 1 || fresh[0].Level != "warning" {
		t.Fatalf("three quarters done: warnings %v, want the warning level alone", fresh)
	}

	if fresh := monitor.record(rulesOf(2)); len(fresh) != 0 {
		t.Errorf("raised levels must not repeat: %v", fresh)
	}
}

func TestChunkMonitorSnapshot(t *testing.T) {
	monitor := newChunkMonitor(planOf(10, 10))
	monitor.record(rulesOf(9))
	monitor.record(rulesOf(10))

	snap := monitor.snapshot()
	if snap.CurrentExtracted != 19 {
		t.Errorf("current extracted = %d, want 19", snap.CurrentExtracted)
	}
	if snap.ExpectedTotal != 20 {
		t.Errorf("expected total = %d, want 20", snap.ExpectedTotal)
	}
	if snap.ChunksProcessed != 2 || snap.TotalChunks != 2 {
		t.Errorf("chunks = %d/%d, want 2/2", snap.ChunksProcessed, snap.TotalChunks)
	}
	if !snap.TargetAchieved {
		t.Error("95% should achieve the target")
	}
	if len(snap.Warnings) != 0 {
		t.Errorf("healthy run raised %v", snap.Warnings)
	}
}
