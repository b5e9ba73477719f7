package gesture

import (
	"math"

	"github.com/airsig/airsig-go/internal/core/domain"
)

// Matching parameters.
const (
	// ResampleSize is the fixed point count both paths are resampled to
	// before comparison.
	ResampleSize = 32

	// MinSimilarity is the floor below which FindBestMatch reports no
	// match at all.
	MinSimilarity = 0.5

	// ActionableSimilarity is the stricter threshold callers apply before
	// treating a match as guidance feedback. The matcher itself only
	// enforces MinSimilarity.
	ActionableSimilarity = 0.7
)

// Match pairs a template with its similarity score.
type Match struct {
	Template   domain.GestureTemplate `json:"template"`
	Similarity float64                `json:"similarity"`
}

// Score rates how closely a recorded path traces the given template,
// in [0,1] with 1 a perfect trace.
//
// The input path is bounding-box normalized; template points are assumed
// pre-normalized. Both are resampled to ResampleSize points at constant
// arc-length and compared index-aligned, so the score assumes the user
// traces the template start-to-end in the same direction and orientation.
// Paths shorter than domain.MinScoringPoints score 0.
func Score(points domain.PathSample, template domain.GestureTemplate) float64 {
	if len(points) < domain.MinScoringPoints {
		return 0
	}

	user := Resample(points.Normalize(), ResampleSize)
	ref := Resample(template.Points, ResampleSize)
	if len(user) != ResampleSize || len(ref) != ResampleSize {
		return 0
	}

	var total float64
	for i := 0; i < ResampleSize; i++ {
		dx := user[i].X - ref[i].X
		dy := user[i].Y - ref[i].Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	mean := total / ResampleSize

	// Linear penalty: a mean offset of half the canvas scores zero.
	return math.Max(0, 1-2*mean)
}

// FindBestMatch scores the path against the whole catalog and returns the
// best-scoring template, or ok=false when nothing clears MinSimilarity.
func FindBestMatch(points domain.PathSample) (Match, bool) {
	return FindBestMatchIn(points, domain.Templates())
}

// FindBestMatchIn is FindBestMatch against an explicit catalog.
func FindBestMatchIn(points domain.PathSample, catalog []domain.GestureTemplate) (Match, bool) {
	if len(points) < domain.MinScoringPoints {
		return Match{}, false
	}

	var best Match
	found := false
	for _, t := range catalog {
		s := Score(points, t)
		if !found || s > best.Similarity {
			best = Match{Template: t, Similarity: s}
			found = true
		}
	}

	if !found || best.Similarity <= MinSimilarity {
		return Match{}, false
	}
	return best, true
}

// Resample redistributes a polyline into n points spaced at constant
// arc-length intervals. The first input point is kept; interpolated points
// are emitted whenever the walked distance reaches the target interval,
// and the walk continues from the emitted point. Floating-point drift on
// the last interval is padded with the final point.
func Resample(points domain.PathSample, n int) domain.PathSample {
	if len(points) == 0 || n <= 0 {
		return nil
	}
	if len(points) == 1 || pathLength(points) == 0 {
		out := make(domain.PathSample, n)
		for i := range out {
			out[i] = points[0]
		}
		return out
	}

	interval := pathLength(points) / float64(n-1)
	out := make(domain.PathSample, 0, n)
	out = append(out, points[0])

	prev := points[0]
	walked := 0.0
	for i := 1; i < len(points) && len(out) < n; {
		seg := distance(prev, points[i])
		if walked+seg >= interval && seg > 0 {
			t := (interval - walked) / seg
			mid := domain.Point{
				X: prev.X + t*(points[i].X-prev.X),
				Y: prev.Y + t*(points[i].Y-prev.Y),
			}
			out = append(out, mid)
			prev = mid
			walked = 0
		} else {
			walked += seg
			prev = points[i]
			i++
		}
	}

	last := points[len(points)-1]
	for len(out) < n {
		out = append(out, last)
	}
	return out
}

func pathLength(points domain.PathSample) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += distance(points[i-1], points[i])
	}
	return total
}

func distance(a, b domain.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}
