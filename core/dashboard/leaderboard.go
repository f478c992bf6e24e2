package dashboard

import (
	"context"
	"sort"
	"time"
)

// Leaderboard ranks every user by totalPoints = completedCourses * 100 plus
// a recency bonus of max(0, 50 - daysSinceLastAccess). The sort is stable
// and descending, so ties keep their original iteration order; rank is the
// post-sort index + 1.
func (svc *Service) Leaderboard(ctx context.Context) []LeaderboardEntry {
	users := svc.users.All(ctx)

	var companies map[int]string
	completed := make([]int, len(users))

	tasks := make([]task, 0, len(users)+1)
	tasks = append(tasks, task{"leaderboard.companies", func(ctx context.Context) error {
		companies = make(map[int]string)
		for _, c := range svc.users.Companies(ctx) {
			companies[c.ID] = c.Name
		}
		return nil
	}})
	for i, u := range users {
		i, u := i, u
		tasks = append(tasks, task{"leaderboard.courses", func(ctx context.Context) error {
			for _, c := range svc.courses.CoursesOf(ctx, u.ID) {
				if c.Progress >= 100 {
					completed[i]++
				}
			}
			return nil
		}})
	}
	svc.gather(ctx, tasks...)

	now := svc.NowFunc()
	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entry := LeaderboardEntry{
			ID:               u.ID,
			Name:             u.DisplayName(),
			ProfileImage:     u.ProfileImageURL,
			Role:             u.Role,
			CompletedCourses: completed[i],
			TotalPoints:      completed[i] * svc.policy.PointsPerCourse,
		}
		if u.CompanyID.Valid {
			entry.Department = companies[u.CompanyID.Int]
		}
		if u.LastAccess.Valid {
			entry.LastActivity = u.LastAccess.Int64
			entry.TotalPoints += recencyBonus(u.LastAccess.Int64, now, svc.policy.RecencyBonusCap)
		}
		entries = append(entries, entry)
	}

	return rankEntries(entries)
}

func recencyBonus(lastAccess int64, now time.Time, cap int) int {
	days := int(now.Sub(time.Unix(lastAccess, 0)).Hours() / 24)
	if days < 0 {
		days = 0
	}
	if bonus := cap - days; bonus > 0 {
		return bonus
	}
	return 0
}

// rankEntries stable-sorts descending by TotalPoints and assigns 1-based
// ranks by post-sort index.
func rankEntries(entries []LeaderboardEntry) []LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
