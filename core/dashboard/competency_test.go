package dashboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somahub/portal/core/course"
	"github.com/somahub/portal/core/lms"
)

func TestService_CompetencyDistribution(t *testing.T) {
	// 10 users, all seen yesterday: 2 completed (avg >= 80), 3 in progress
	// (20 <= avg < 80), 5 not started.
	progressByUser := map[int]string{
		1: `[{"id":1,"progress":100},{"id":2,"progress":80}]`, // avg 90
		2: `[{"id":3,"progress":85}]`,                         // avg 85
		3: `[{"id":4,"progress":50}]`,
		4: `[{"id":5,"progress":30},{"id":6,"progress":50}]`, // avg 40
		5: `[{"id":7,"progress":20}]`,                        // boundary, counts in progress
	}

	stub := &stubCaller{respond: func(ws string, params lms.Params) (string, error) {
		switch ws {
		case "core_user_get_users":
			users := make([]string, 0, 10)
			for i := 1; i <= 10; i++ {
				users = append(users, userJSON(i, fmt.Sprintf("u%d", i), daysAgo(1)))
			}
			return usersPayload(users...), nil
		case "local_intelliboard_get_users_roles":
			return `{"data":[]}`, nil
		case "core_enrol_get_users_courses":
			if courses, ok := progressByUser[params["userid"].(int)]; ok {
				return courses, nil
			}
			return `[]`, nil
		}
		return "", errors.Errorf("unexpected call: %s", ws)
	}}

	dist := newTestService(stub).CompetencyDistribution(context.Background())
	assert.Equal(t, 20, dist.Completed)
	assert.Equal(t, 30, dist.InProgress)
	assert.Equal(t, 40, dist.NotStarted) // raw 50, clamped to the band ceiling
}

func TestService_CompetencyDistribution_staleUsersDowngrade(t *testing.T) {
	// high progress but last seen 60 days ago: misses the 30-day completed
	// window, still inside the 90-day in-progress window.
	stub := &stubCaller{respond: func(ws string, params lms.Params) (string, error) {
		switch ws {
		case "core_user_get_users":
			return usersPayload(userJSON(1, "u1", daysAgo(60))), nil
		case "local_intelliboard_get_users_roles":
			return `{"data":[]}`, nil
		case "core_enrol_get_users_courses":
			return `[{"id":1,"progress":100}]`, nil
		}
		return "", errors.Errorf("unexpected call: %s", ws)
	}}

	dist := newTestService(stub).CompetencyDistribution(context.Background())
	p := DefaultPolicy()
	assert.Equal(t, p.CompletedBand.Min, dist.Completed)
	// progress 100 is not below CompletedAt, so the user is not in progress
	// either; they fall through to not started.
	assert.Equal(t, p.InProgressBand.Min, dist.InProgress)
	assert.Equal(t, p.NotStartedBand.Max, dist.NotStarted)
}

func TestService_CompetencyDistribution_noUsers(t *testing.T) {
	stub := &stubCaller{respond: func(ws string, params lms.Params) (string, error) {
		if ws == "core_user_get_users" {
			return `{"users":[]}`, nil
		}
		return "", errors.Errorf("unexpected call: %s", ws)
	}}

	dist := newTestService(stub).CompetencyDistribution(context.Background())
	p := DefaultPolicy()
	assert.Equal(t, p.CompletedBand.Min, dist.Completed)
	assert.Equal(t, p.InProgressBand.Min, dist.InProgress)
	assert.Equal(t, p.NotStartedBand.Min, dist.NotStarted)
}

func Test_classifyCategory(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Modern Pedagogy in Practice", "Pedagogy"},
		{"Instruction fundamentals", "Pedagogy"},
		{"Formative Assessment Techniques", "Assessment"},
		{"Grading at scale", "Assessment"},
		{"ICT for Educators", "Technology"},
		{"Online course design", "Technology"},
		{"Classroom Management 101", "Management"},
		{"School Leadership", "Management"},
		{"Curriculum Deep Dive", "Content"},
		{"Completely Unrelated", "Content"},
		{"", "Content"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyCategory(tt.title))
		})
	}
}

func Test_radarPoints(t *testing.T) {
	p := DefaultPolicy()

	t.Run("always five axes in chart order", func(t *testing.T) {
		points := radarPoints(nil, p)
		require.Len(t, points, 5)
		for i, cat := range radarCategories {
			assert.Equal(t, cat, points[i].Category)
			assert.Equal(t, p.RadarBand.Min, points[i].Value)
		}
	})

	t.Run("completed and in-progress scoring", func(t *testing.T) {
		courses := []course.Course{
			{FullName: "Pedagogy Basics", Progress: 100},      // +20
			{FullName: "Advanced Pedagogy", Progress: 100},    // +20
			{FullName: "Pedagogy Workshop", Progress: 50},     // +10
			{FullName: "Assessment Design", Progress: 100},    // +20
			{FullName: "Grading Practices", Progress: 25},     // +5
			{FullName: "Unrelated Course Title", Progress: 0}, // Content, +0
		}
		points := radarPoints(courses, p)
		byCat := make(map[string]int, len(points))
		for _, pt := range points {
			byCat[pt.Category] = pt.Value
		}

		assert.Equal(t, 50, byCat["Pedagogy"])
		assert.Equal(t, 25, byCat["Assessment"])
		assert.Equal(t, p.RadarBand.Min, byCat["Technology"])
		assert.Equal(t, p.RadarBand.Min, byCat["Content"])
	})

	t.Run("clamped at the ceiling", func(t *testing.T) {
		courses := make([]course.Course, 10)
		for i := range courses {
			courses[i] = course.Course{FullName: "Teaching Module", Progress: 100}
		}
		points := radarPoints(courses, p)
		byCat := make(map[string]int, len(points))
		for _, pt := range points {
			byCat[pt.Category] = pt.Value
		}
		assert.Equal(t, p.RadarBand.Max, byCat["Pedagogy"]) // raw 200
	})
}
