package dashboard

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/somahub/portal/core"
	"github.com/somahub/portal/core/competency"
	"github.com/somahub/portal/core/course"
	"github.com/somahub/portal/core/event"
	"github.com/somahub/portal/core/user"
)

// Service recomputes cross-entity dashboard statistics on every call; there
// is no backing store. Partial data beats no data: every fan-out settles
// per-item, substituting a documented fallback instead of failing the batch.
type Service struct {
	users        *user.Service
	courses      *course.Service
	competencies *competency.Service
	events       *event.Service
	logger       core.Logger
	policy       Policy
	defaults     *course.Defaults

	// NowFunc is mockable for deterministic time-window tests.
	NowFunc func() time.Time
}

func NewService(
	users *user.Service,
	courses *course.Service,
	competencies *competency.Service,
	events *event.Service,
	logger core.Logger,
	policy Policy,
	defaults *course.Defaults,
) *Service {
	return &Service{
		users:        users,
		courses:      courses,
		competencies: competencies,
		events:       events,
		logger:       logger,
		policy:       policy,
		defaults:     defaults,
		NowFunc:      time.Now,
	}
}

type task struct {
	name string
	run  func(context.Context) error
}

// gather runs tasks concurrently and waits for all of them. A failing task
// logs and leaves whatever fallback its closure prepared; the batch never
// short-circuits.
func (svc *Service) gather(ctx context.Context, tasks ...task) {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			if err := t.run(ctx); err != nil {
				svc.logger.Warn("dashboard."+t.name+": substituting fallback", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// GetOverview assembles the landing dashboard stats from one fan-out.
func (svc *Service) GetOverview(ctx context.Context) Overview {
	var (
		users   []user.User
		courses []course.Course
		events  []event.Event
	)

	svc.gather(ctx,
		task{"overview.users", func(ctx context.Context) error {
			users = svc.users.All(ctx)
			return nil
		}},
		task{"overview.courses", func(ctx context.Context) error {
			courses = svc.courses.Catalog(ctx)
			return nil
		}},
		task{"overview.events", func(ctx context.Context) error {
			events = svc.events.Upcoming(ctx)
			return nil
		}},
	)
	if events == nil {
		events = []event.Event{}
	}

	now := svc.NowFunc()
	activeSince := now.Add(-svc.policy.PresenceWindow).Unix()

	var active int
	for _, u := range users {
		if u.LastAccess.Valid && u.LastAccess.Int64 >= activeSince {
			active++
		}
	}

	return Overview{
		TotalUsers:     len(users),
		ActiveUsers:    active,
		TotalCourses:   len(courses),
		UpcomingEvents: events,
		RecentActivity: recentActivity(users, 5),
	}
}

// recentActivity returns the most recently seen users, newest first.
func recentActivity(users []user.User, limit int) []RecentActivity {
	seen := make([]user.User, 0, len(users))
	for _, u := range users {
		if u.LastAccess.Valid {
			seen = append(seen, u)
		}
	}
	sort.SliceStable(seen, func(i, j int) bool {
		return seen[i].LastAccess.Int64 > seen[j].LastAccess.Int64
	})
	if len(seen) > limit {
		seen = seen[:limit]
	}

	recent := make([]RecentActivity, 0, len(seen))
	for _, u := range seen {
		recent = append(recent, RecentActivity{
			UserID:     u.ID,
			Name:       u.DisplayName(),
			Role:       u.Role,
			LastAccess: u.LastAccess.Int64,
		})
	}
	return recent
}
