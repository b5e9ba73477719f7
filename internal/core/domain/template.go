package domain

import "math"

// Difficulty rates how hard a template is to trace accurately.
type Difficulty string

// Template difficulty tags.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// GestureTemplate is a reference shape users can trace for guidance.
// Points are pre-normalized to [0,1]x[0,1] and carry no timestamps.
// The catalog is closed and immutable for the process lifetime.
type GestureTemplate struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Icon       string     `json:"icon"`
	Points     PathSample `json:"points"`
	Difficulty Difficulty `json:"difficulty"`
}

// templates is the static reference catalog. Order is presentation order.
var templates = []GestureTemplate{
	{
		ID:         "star",
		Name:       "Star",
		Icon:       "⭐",
		Difficulty: DifficultyMedium,
		Points: PathSample{
			{X: 0.5, Y: 0},
			{X: 0.62, Y: 0.38},
			{X: 1, Y: 0.38},
			{X: 0.69, Y: 0.62},
			{X: 0.81, Y: 1},
			{X: 0.5, Y: 0.75},
			{X: 0.19, Y: 1},
			{X: 0.31, Y: 0.62},
			{X: 0, Y: 0.38},
			{X: 0.38, Y: 0.38},
			{X: 0.5, Y: 0},
		},
	},
	{
		ID:         "heart",
		Name:       "Heart",
		Icon:       "❤️",
		Difficulty: DifficultyMedium,
		Points:     heartPoints(),
	},
	{
		ID:         "circle",
		Name:       "Circle",
		Icon:       "⭕",
		Difficulty: DifficultyEasy,
		Points:     circlePoints(),
	},
	{
		ID:         "check",
		Name:       "Checkmark",
		Icon:       "✓",
		Difficulty: DifficultyEasy,
		Points: PathSample{
			{X: 0, Y: 0.5},
			{X: 0.35, Y: 1},
			{X: 1, Y: 0},
		},
	},
	{
		ID:         "triangle",
		Name:       "Triangle",
		Icon:       "△",
		Difficulty: DifficultyEasy,
		Points: PathSample{
			{X: 0.5, Y: 0},
			{X: 1, Y: 1},
			{X: 0, Y: 1},
			{X: 0.5, Y: 0},
		},
	},
	{
		ID:         "zigzag",
		Name:       "Zigzag",
		Icon:       "⚡",
		Difficulty: DifficultyHard,
		Points: PathSample{
			{X: 0.3, Y: 0},
			{X: 0.7, Y: 0.25},
			{X: 0.3, Y: 0.5},
			{X: 0.7, Y: 0.75},
			{X: 0.3, Y: 1},
		},
	},
}

// Templates returns the static template catalog.
// The returned slice is shared; callers must not mutate it.
func Templates() []GestureTemplate {
	return templates
}

// TemplateByID looks up a template by its identifier.
func TemplateByID(id string) (GestureTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return GestureTemplate{}, false
}

// circlePoints traces a circle of radius 0.4 around the canvas center,
// starting at twelve o'clock.
func circlePoints() PathSample {
	const steps = 32
	pts := make(PathSample, 0, steps+1)
	for i := 0; i <= steps; i++ {
		angle := (float64(i)/steps)*2*math.Pi - math.Pi/2
		pts = append(pts, Point{
			X: 0.5 + 0.4*math.Cos(angle),
			Y: 0.5 + 0.4*math.Sin(angle),
		})
	}
	return pts
}

// heartPoints traces the classic parametric heart curve, normalized to the
// unit canvas with y pointing down.
func heartPoints() PathSample {
	const steps = 40
	pts := make(PathSample, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := (float64(i) / steps) * 2 * math.Pi
		x := 16 * math.Pow(math.Sin(t), 3)
		y := 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
		pts = append(pts, Point{
			X: (x + 16) / 32,
			Y: 1 - (y+17)/34,
		})
	}
	return pts
}
