package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/somahub/portal/core/user"
)

// MonthlyEngagement computes the trailing engagement series, oldest bucket
// first. Score = round(activeUsers/totalUsers*100) where a user is active in
// a bucket when their last access falls at or after the bucket's month
// start; then the configured per-bucket bias is applied and the result is
// clamped into the engagement band.
func (svc *Service) MonthlyEngagement(ctx context.Context) []MonthEngagement {
	return engagementSeries(svc.users.All(ctx), svc.NowFunc(), svc.policy)
}

func engagementSeries(users []user.User, now time.Time, p Policy) []MonthEngagement {
	series := make([]MonthEngagement, 0, p.EngagementMonths)

	for i := 0; i < p.EngagementMonths; i++ {
		monthsBack := p.EngagementMonths - 1 - i
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
			AddDate(0, -monthsBack, 0)

		var active int
		for _, u := range users {
			if u.LastAccess.Valid && u.LastAccess.Int64 >= monthStart.Unix() {
				active++
			}
		}

		var score int
		if len(users) > 0 {
			score = int(math.Round(float64(active) / float64(len(users)) * 100))
		}
		score += p.MonthlyBias[i]

		series = append(series, MonthEngagement{
			Month: monthStart.Format("Jan"),
			Score: p.EngagementBand.Clamp(score),
		})
	}
	return series
}
