package search

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/listingsearch/internal/domain"
)

// Cosine returns dot(a,b) / (|a| |b|), or 0 when either vector has zero magnitude.
// Vectors of different length are a scoring fault, not a zero score.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrVectorDimMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}
