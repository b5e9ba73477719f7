package domain

// Point is a single fingertip sample in normalized canvas coordinates.
//
// X and Y are in [0,1]; Timestamp is the capture time in Unix milliseconds.
// Points are produced by the tracking collaborator and never mutated here.
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// PathSample is an ordered sequence of points from one recording pass.
// It is append-only while recording and cleared when recording stops.
type PathSample []Point

// MinSignaturePoints is the minimum path length required for a signature.
const MinSignaturePoints = 10

// MinScoringPoints is the minimum path length required for template scoring.
const MinScoringPoints = 5

// BoundingBox returns the axis-aligned bounds of the path.
// The second return value is false for an empty path.
func (p PathSample) BoundingBox() (minX, minY, maxX, maxY float64, ok bool) {
	if len(p) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, maxX = p[0].X, p[0].X
	minY, maxY = p[0].Y, p[0].Y
	for _, pt := range p[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	return minX, minY, maxX, maxY, true
}

// Normalize maps the path into [0,1]x[0,1] by its bounding box.
//
// A degenerate axis (zero width or height, e.g. a straight horizontal
// line) normalizes with range 1 so the division is always defined. The
// result is invariant to translation and uniform scale, but not to
// rotation, mirroring, or timing.
func (p PathSample) Normalize() PathSample {
	minX, minY, maxX, maxY, ok := p.BoundingBox()
	if !ok {
		return nil
	}

	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}

	out := make(PathSample, len(p))
	for i, pt := range p {
		out[i] = Point{
			X:         (pt.X - minX) / rangeX,
			Y:         (pt.Y - minY) / rangeY,
			Timestamp: pt.Timestamp,
		}
	}
	return out
}

// Clone returns a copy the caller may mutate freely.
func (p PathSample) Clone() PathSample {
	if p == nil {
		return nil
	}
	out := make(PathSample, len(p))
	copy(out, p)
	return out
}
