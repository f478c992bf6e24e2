package course

import (
	"math"
	"math/rand"
	"strings"
	"sync"
)

// Defaults is the documented neutral-value policy for fields the LMS omits.
// These are presentation placeholders, not measured facts; the source of
// randomness is owned here so tests can pin the seed and stay deterministic.
type Defaults struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDefaults(seed int64) *Defaults {
	return &Defaults{rnd: rand.New(rand.NewSource(seed))}
}

// Rating is a plausible rating in [4.0, 5.0), one decimal place.
func (d *Defaults) Rating() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ratingFrom(d.rnd.Float64())
}

// ratingFrom maps a fraction in [0, 1) to a one-decimal rating in [4.0, 5.0).
// Flooring keeps the top of the range open; rounding would let fractions
// above 0.95 spill over to 5.0.
func ratingFrom(f float64) float64 {
	return math.Floor((4.0+f)*10) / 10
}

// Progress is the neutral progress for courses that report none.
func (d *Defaults) Progress() float64 { return 0 }

// Attendance is the fail-soft attendance percentage in [75, 95) used when a
// course's enrollment data cannot be fetched.
func (d *Defaults) Attendance() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return 75 + d.rnd.Intn(20)
}

// inferType guesses the delivery format from course text. Self-paced is the
// neutral answer.
func inferType(texts ...string) Type {
	blob := strings.ToLower(strings.Join(texts, " "))
	switch {
	case strings.Contains(blob, "virtual"), strings.Contains(blob, "vilt"), strings.Contains(blob, "webinar"):
		return TypeVILT
	case strings.Contains(blob, "classroom"), strings.Contains(blob, "workshop"), strings.Contains(blob, "ilt"):
		return TypeILT
	default:
		return TypeSelfPaced
	}
}

// inferLevel guesses a difficulty level from course text; "" when no signal.
func inferLevel(texts ...string) string {
	blob := strings.ToLower(strings.Join(texts, " "))
	switch {
	case strings.Contains(blob, "advanced"), strings.Contains(blob, "expert"):
		return "Advanced"
	case strings.Contains(blob, "intermediate"):
		return "Intermediate"
	case strings.Contains(blob, "beginner"), strings.Contains(blob, "introduction"), strings.Contains(blob, "basics"):
		return "Beginner"
	default:
		return ""
	}
}
