package gesture

import (
	"math"
	"strings"

	"github.com/airsig/airsig-go/internal/core/domain"
)

// Signature generation parameters.
const (
	// SampleSize caps the number of points a signature is derived from.
	SampleSize = 16

	// DirectionBuckets is the quantization alphabet size.
	DirectionBuckets = 8
)

// bucketWidth is the angular width of one direction bucket.
const bucketWidth = math.Pi / 4

// Generate reduces a recorded path to its gesture signature: a string of
// direction digits over {0..7}, at most 15 characters.
//
// Paths shorter than domain.MinSignaturePoints yield the empty sentinel.
// The reduction is a pure function of the point sequence: same points in,
// same signature out.
func Generate(points domain.PathSample) string {
	if len(points) < domain.MinSignaturePoints {
		return ""
	}

	normalized := points.Normalize()
	sampled := subsample(normalized, SampleSize)

	var sb strings.Builder
	sb.Grow(len(sampled) - 1)
	for i := 1; i < len(sampled); i++ {
		angle := math.Atan2(sampled[i].Y-sampled[i-1].Y, sampled[i].X-sampled[i-1].X)
		bucket := int(math.Round((angle+math.Pi)/bucketWidth)) % DirectionBuckets
		sb.WriteByte(byte('0' + bucket))
	}
	return sb.String()
}

// subsample keeps every step-th point (step = len/max, at least 1) and
// truncates to max points. Paths shorter than max keep every point.
func subsample(points domain.PathSample, max int) domain.PathSample {
	step := len(points) / max
	if step < 1 {
		step = 1
	}

	out := make(domain.PathSample, 0, max)
	for i := 0; i < len(points) && len(out) < max; i += step {
		out = append(out, points[i])
	}
	return out
}
