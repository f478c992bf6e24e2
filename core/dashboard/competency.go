package dashboard

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/somahub/portal/core/course"
	"github.com/somahub/portal/core/user"
)

// CompetencyDistribution classifies every user by average course completion
// and recency of activity, then converts the counts to display percentages
// clamped into the configured bands.
func (svc *Service) CompetencyDistribution(ctx context.Context) Distribution {
	users := svc.users.All(ctx)
	progress := make([]float64, len(users))

	tasks := make([]task, 0, len(users))
	for i, u := range users {
		i, u := i, u
		tasks = append(tasks, task{"distribution", func(ctx context.Context) error {
			progress[i] = averageProgress(svc.courses.CoursesOf(ctx, u.ID))
			return nil
		}})
	}
	svc.gather(ctx, tasks...)

	now := svc.NowFunc()
	var completed, inProgress int
	for i, u := range users {
		switch {
		case progress[i] >= svc.policy.CompletedAt && activeWithin(u, now, svc.policy.CompletedActiveWindow):
			completed++
		case progress[i] >= svc.policy.InProgressAt && progress[i] < svc.policy.CompletedAt &&
			activeWithin(u, now, svc.policy.InProgressActiveWindow):
			inProgress++
		}
	}

	pct := func(n int) int {
		if len(users) == 0 {
			return 0
		}
		return int(math.Round(float64(n) / float64(len(users)) * 100))
	}
	notStarted := len(users) - completed - inProgress

	return Distribution{
		Completed:  svc.policy.CompletedBand.Clamp(pct(completed)),
		InProgress: svc.policy.InProgressBand.Clamp(pct(inProgress)),
		NotStarted: svc.policy.NotStartedBand.Clamp(pct(notStarted)),
	}
}

func averageProgress(courses []course.Course) float64 {
	if len(courses) == 0 {
		return 0
	}
	var sum float64
	for _, c := range courses {
		sum += c.Progress
	}
	return sum / float64(len(courses))
}

func activeWithin(u user.User, now time.Time, window time.Duration) bool {
	return u.LastAccess.Valid && u.LastAccess.Int64 >= now.Add(-window).Unix()
}

// Radar categories, in chart order.
var radarCategories = []string{"Pedagogy", "Assessment", "Technology", "Management", "Content"}

// categoryKeywords classifies a course title by case-insensitive substring
// match; Content is the fallback bucket.
var categoryKeywords = map[string][]string{
	"Pedagogy":   {"pedagogy", "teaching", "instruction", "didactic", "learning design"},
	"Assessment": {"assessment", "evaluation", "grading", "exam", "testing"},
	"Technology": {"technology", "digital", "ict", "computer", "online", "e-learning"},
	"Management": {"management", "leadership", "classroom", "administration", "planning"},
	"Content":    {"content", "curriculum", "subject"},
}

func classifyCategory(title string) string {
	t := strings.ToLower(title)
	for _, cat := range radarCategories {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(t, kw) {
				return cat
			}
		}
	}
	return "Content"
}

// CompetencyRadar scores a user's courses into the five fixed categories:
// a completed course contributes the configured gain, an in-progress course
// contributes progress scaled by the configured rate. Values are clamped
// into the radar band so the chart never collapses to the origin.
func (svc *Service) CompetencyRadar(ctx context.Context, userID int) []RadarPoint {
	return radarPoints(svc.courses.CoursesOf(ctx, userID), svc.policy)
}

func radarPoints(courses []course.Course, p Policy) []RadarPoint {
	scores := make(map[string]float64, len(radarCategories))
	for _, c := range courses {
		cat := classifyCategory(c.FullName)
		if c.Progress >= 100 {
			scores[cat] += p.RadarCompletedGain
		} else {
			scores[cat] += c.Progress * p.RadarProgressRate
		}
	}

	points := make([]RadarPoint, 0, len(radarCategories))
	for _, cat := range radarCategories {
		points = append(points, RadarPoint{
			Category: cat,
			Value:    p.RadarBand.Clamp(int(math.Round(scores[cat]))),
		})
	}
	return points
}
