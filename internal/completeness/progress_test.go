package completeness

import (
	"math"
	"testing"

	"rulescope/internal/chunker"
)

func chunkMeta(estimates ...int) []chunker.ChunkMetadata {
	meta := make([]chunker.ChunkMetadata, len(estimates))
	for i, est := range estimates {
		meta[i] = chunker.ChunkMetadata{RuleCountEstimate: est}
	}
	return meta
}

func resultsOf(sizes ...int) [][]ExtractedRule {
	out := make([][]ExtractedRule, len(sizes))
	for i, n := range sizes {
		out[i] = make([]ExtractedRule, n)
	}
	return out
}

func warningLevels(p Progress) []string {
	levels := make([]string, 0, len(p.Warnings))
	for _, w := range p.Warnings {
		levels = append(levels, w.Level)
	}
	return levels
}

func TestMonitorProgressThresholds(t *testing.T) {
	tests := []struct {
		name        string
		results     [][]ExtractedRule
		expected    int
		meta        []chunker.ChunkMetadata
		wantLevels  []string
		wantPercent float64
	}{
		{
			name:        "on track mid run",
			results:     resultsOf(10),
			expected:    25,
			meta:        chunkMeta(10, 10, 5),
			wantLevels:  nil,
			wantPercent: 40,
		},
		{
			name:        "behind early but too soon to warn",
			results:     resultsOf(2),
			expected:    25,
			meta:        chunkMeta(10, 10, 5),
			wantLevels:  nil,
			wantPercent: 8,
		},
		{
			name:        "warning past seventy percent of chunks",
			results:     resultsOf(10, 5, 5),
			expected:    25,
			meta:        chunkMeta(10, 10, 5, 5),
			wantLevels:  []string{"warning"},
			wantPercent: 80,
		},
		{
			name:        "critical at half the chunks",
			results:     resultsOf(5, 5),
			expected:    25,
			meta:        chunkMeta(10, 10, 5, 5),
			wantLevels:  []string{"critical"},
			wantPercent: 40,
		},
		{
			name:        "warning and critical together",
			results:     resultsOf(5, 5, 5),
			expected:    25,
			meta:        chunkMeta(10, 10, 5, 5),
			wantLevels:  []string{"warning", "critical"},
			wantPercent: 60,
		},
		{
			name:        "target met at the end",
			results:     resultsOf(10, 9, 5),
			expected:    25,
			meta:        chunkMeta(10, 10, 5),
			wantLevels:  nil,
			wantPercent: 96,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MonitorProgress(tt.results, tt.expected, tt.meta)

			if math.Abs(p.ProgressPercentage-tt.wantPercent) > 1e-9 {
				t.Errorf("percentage = %v, want %v", p.ProgressPercentage, tt.wantPercent)
			}
			got := warningLevels(p)
			if len(got) != len(tt.wantLevels) {
				t.Fatalf("warning levels = %v, want %v", got, tt.wantLevels)
			}
			for i := range got {
				if got[i] != tt.wantLevels[i] {
					t.Errorf("warning levels = %v, want %v", got, tt.wantLevels)
					break
				}
			}
		})
	}
}

func TestMonitorProgressEstimatedFinal(t *testing.T) {
	p := MonitorProgress(resultsOf(8, 6), 40, chunkMeta(10, 10, 10, 10))

	if p.ChunksProcessed != 2 || p.TotalChunks != 4 {
		t.Errorf("processed/total = %d/%d, want 2/4", p.ChunksProcessed, p.TotalChunks)
	}
	if p.EstimatedFinal != 28 {
		t.Errorf("estimated final = %d, want 14*4/2 = 28", p.EstimatedFinal)
	}
	if p.TargetAchieved {
		t.Error("35% progress must not report target achieved")
	}
}

func TestMonitorProgressChunkEfficiency(t *testing.T) {
	p := MonitorProgress(resultsOf(8, 3, 0), 30, chunkMeta(10, 10, 10))

	// Empty chunks are skipped.
	if len(p.ChunkEfficiency) != 2 {
		t.Fatalf("efficiency entries = %d, want 2", len(p.ChunkEfficiency))
	}

	first := p.ChunkEfficiency[0]
	if first.ChunkID != 1 || first.Efficiency != 0.8 || first.Status != "good" {
		t.Errorf("chunk 1 = %+v, want efficiency 0.8 good", first)
	}
	second := p.ChunkEfficiency[1]
	if second.Efficiency != 0.3 || second.Status != "poor" {
		t.Errorf("chunk 2 = %+v, want efficiency 0.3 poor", second)
	}
}

func TestMonitorProgressNoMetadata(t *testing.T) {
	p := MonitorProgress(resultsOf(5, 5), 10, nil)

	if p.TotalChunks != 2 {
		t.Errorf("total chunks = %d, want processed count fallback", p.TotalChunks)
	}
	if !p.TargetAchieved {
		t.Error("100% should report target achieved")
	}
}
