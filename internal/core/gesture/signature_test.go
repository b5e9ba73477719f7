package gesture

import (
	"testing"

	"github.com/airsig/airsig-go/internal/core/domain"
)

// wavePath returns n points tracing a horizontal wave.
func wavePath(n int) domain.PathSample {
	points := make(domain.PathSample, n)
	for i := range points {
		y := 0.0
		if i%2 == 1 {
			y = 50.0
		}
		points[i] = domain.Point{X: float64(i) * 10, Y: y, Timestamp: int64(1000 + i*30)}
	}
	return points
}

func TestGenerateDeterministic(t *testing.T) {
	path := wavePath(24)

	first := Generate(path)
	second := Generate(path)
	if first == "" {
		t.Fatal("signature is empty for a valid path")
	}
	if first != second {
		t.Fatalf("signatures differ: %q vs %q", first, second)
	}
}

func TestGenerateTranslationAndScaleInvariant(t *testing.T) {
	base := wavePath(24)

	shifted := make(domain.PathSample, len(base))
	for i, p := range base {
		shifted[i] = domain.Point{X: p.X*3 + 500, Y: p.Y*3 - 120, Timestamp: p.Timestamp}
	}

	if got, want := Generate(shifted), Generate(base); got != want {
		t.Fatalf("signature changed under translation+scale: %q vs %q", got, want)
	}
}

func TestGenerateShortPathSentinel(t *testing.T) {
	if got := Generate(wavePath(domain.MinSignaturePoints - 1)); got != "" {
		t.Fatalf("signature = %q, want empty sentinel", got)
	}
	if got := Generate(nil); got != "" {
		t.Fatalf("signature = %q, want empty sentinel for nil path", got)
	}
}

func TestGenerateAlphabetAndLength(t *testing.T) {
	sig := Generate(wavePath(200))

	if len(sig) > domain.MaxSignatureLength {
		t.Fatalf("signature length = %d, want at most %d", len(sig), domain.MaxSignatureLength)
	}
	for _, c := range sig {
		if c < '0' || c > '7' {
			t.Fatalf("signature %q contains %q outside 0..7", sig, c)
		}
	}
}

func TestGenerateDistinguishesDirections(t *testing.T) {
	horizontal := make(domain.PathSample, 12)
	vertical := make(domain.PathSample, 12)
	for i := range horizontal {
		horizontal[i] = domain.Point{X: float64(i) * 10, Y: 0}
		vertical[i] = domain.Point{X: 0, Y: float64(i) * 10}
	}

	if h, v := Generate(horizontal), Generate(vertical); h == v {
		t.Fatalf("orthogonal strokes share signature %q", h)
	}
}

func TestSubsampleCapsLongPaths(t *testing.T) {
	long := wavePath(500)

	out := subsample(long.Normalize(), SampleSize)
	if len(out) > SampleSize {
		t.Fatalf("subsample kept %d points, cap is %d", len(out), SampleSize)
	}

	short := wavePath(12)
	if got := subsample(short, SampleSize); len(got) != 12 {
		t.Fatalf("short path reduced to %d points, want all 12", len(got))
	}
}
