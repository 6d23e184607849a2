package chunker

import (
	"math"
	"testing"
)

func TestSizeEfficiency(t *testing.T) {
	cases := []struct {
		name  string
		lines int
		want  float64
	}{
		{"empty chunk", 0, 0},
		{"quarter of sweet spot", 50, 0.25},
		{"half of sweet spot", 100, 0.5},
		{"at sweet spot", 200, 1.0},
		{"oversize capped", 400, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := ChunkMetadata{ContentLines: tc.lines}
			if got := m.SizeEfficiency(); got != tc.want {
				t.Errorf("SizeEfficiency(%d lines) = %v, want %v", tc.lines, got, tc.want)
			}
		})
	}
}

func TestSizeVariance(t *testing.T) {
	metaOf := func(sizes ...int) []ChunkMetadata {
		meta := make([]ChunkMetadata, len(sizes))
		for i, size := range sizes {
			meta[i] = ChunkMetadata{ContentLines: size}
		}
		return meta
	}

	cases := []struct {
		name  string
		sizes []int
		want  float64
	}{
		{"single chunk", []int{175}, 0},
		{"uniform chunks", []int{120, 120, 120}, 0},
		{"all empty", []int{0, 0}, 0},
		{"spread chunks", []int{100, 200}, 1.0 / 3.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Result{Metadata: metaOf(tc.sizes...)}
			if got := res.SizeVariance(); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("SizeVariance(%v) = %v, want %v", tc.sizes, got, tc.want)
			}
		})
	}
}
