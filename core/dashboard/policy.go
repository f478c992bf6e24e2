package dashboard

import "time"

// Band is an inclusive display range. Several dashboard figures are clamped
// into fixed bands purely for chart legibility; that is a presentation
// smoothing decision, not a measurement fact, which is why the bands live
// here as configuration instead of inline constants.
type Band struct {
	Min int
	Max int
}

func (b Band) Clamp(v int) int {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Policy gathers every tunable constant of the derived-metrics layer.
type Policy struct {
	// EngagementBand bounds the monthly engagement score.
	EngagementBand Band
	// MonthlyBias applies fixed per-bucket adjustments to the engagement
	// series (bucket 0 is the oldest of the 6 trailing months).
	MonthlyBias map[int]int
	// EngagementMonths is the length of the trailing engagement series.
	EngagementMonths int

	// Attendance tiers: >= ExcellentAt is "Excellent", >= GoodAt is "Good",
	// anything below is "Needs Attention".
	ExcellentAt int
	GoodAt      int
	// PresenceWindow is how recently a user must have been seen to count as
	// present/active for attendance and overview stats.
	PresenceWindow time.Duration

	// Competency distribution classification.
	CompletedAt            float64       // completion % at or above which a user counts as Completed
	InProgressAt           float64       // completion % at or above which a user counts as In Progress
	CompletedActiveWindow  time.Duration // activity window required for Completed
	InProgressActiveWindow time.Duration // activity window required for In Progress
	CompletedBand          Band
	InProgressBand         Band
	NotStartedBand         Band

	// Leaderboard scoring.
	PointsPerCourse int
	RecencyBonusCap int // bonus = max(0, cap - daysSinceLastAccess)

	// Radar scoring.
	RadarBand          Band
	RadarCompletedGain float64 // contribution of a completed course
	RadarProgressRate  float64 // multiplier applied to in-progress course progress
}

func DefaultPolicy() Policy {
	return Policy{
		EngagementBand:   Band{Min: 70, Max: 95},
		MonthlyBias:      map[int]int{0: -5, 2: 5, 5: -3},
		EngagementMonths: 6,

		ExcellentAt:    90,
		GoodAt:         75,
		PresenceWindow: 7 * 24 * time.Hour,

		CompletedAt:            80,
		InProgressAt:           20,
		CompletedActiveWindow:  30 * 24 * time.Hour,
		InProgressActiveWindow: 90 * 24 * time.Hour,
		CompletedBand:          Band{Min: 10, Max: 80},
		InProgressBand:         Band{Min: 15, Max: 50},
		NotStartedBand:         Band{Min: 10, Max: 40},

		PointsPerCourse: 100,
		RecencyBonusCap: 50,

		RadarBand:          Band{Min: 20, Max: 100},
		RadarCompletedGain: 20,
		RadarProgressRate:  0.2,
	}
}

// Attendance tier names.
const (
	TierExcellent      = "Excellent"
	TierGood           = "Good"
	TierNeedsAttention = "Needs Attention"
)

func (p Policy) attendanceTier(pct int) string {
	switch {
	case pct >= p.ExcellentAt:
		return TierExcellent
	case pct >= p.GoodAt:
		return TierGood
	default:
		return TierNeedsAttention
	}
}
