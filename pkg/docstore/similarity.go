package docstore

import (
	"fmt"
	"math"
)

// CosineSimilarity returns the cosine similarity of a and b in [-1, 1].
// A zero-magnitude operand yields 0. The vectors must have equal length;
// a mismatch means two different embedding spaces met, which is a
// programming error, so it panics rather than returning a bogus score.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("docstore: cosine similarity dimension mismatch: %d vs %d", len(a), len(b)))
	}

	var dot, magA, magB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}

	if magA == 0 || magB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
