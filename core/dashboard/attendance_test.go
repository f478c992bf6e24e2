package dashboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somahub/portal/core/lms"
)

// enrolledPayload builds a roster of total users of which present were seen
// within the last day.
func enrolledPayload(total, present int) string {
	out := "["
	for i := 0; i < total; i++ {
		if i > 0 {
			out += ","
		}
		last := daysAgo(30) // outside the presence window
		if i < present {
			last = daysAgo(1)
		}
		out += fmt.Sprintf(`{"id":%d,"fullname":"User %d","lastaccess":%d}`, i+1, i+1, last)
	}
	return out + "]"
}

func TestService_AttendanceReport(t *testing.T) {
	rosters := map[int]string{
		1: enrolledPayload(20, 18), // 90% Excellent
		2: enrolledPayload(20, 15), // 75% Good
		3: enrolledPayload(20, 14), // 70% Needs Attention
	}

	stub := &stubCaller{respond: func(ws string, params lms.Params) (string, error) {
		switch ws {
		case "core_course_get_courses":
			return `[{"id":1,"fullname":"Course A"},{"id":2,"fullname":"Course B"},
				{"id":3,"fullname":"Course C"},{"id":4,"fullname":"Course D"}]`, nil
		case "core_enrol_get_enrolled_users":
			id := params["courseid"].(int)
			if roster, ok := rosters[id]; ok {
				return roster, nil
			}
			return "", errors.New("roster unavailable")
		}
		return "", errors.Errorf("unexpected call: %s", ws)
	}}

	report := newTestService(stub).AttendanceReport(context.Background())
	require.Len(t, report, 4) // one row per course, failures included

	byID := make(map[int]CourseAttendance, len(report))
	for _, row := range report {
		byID[row.CourseID] = row
	}

	assert.Equal(t, 90, byID[1].Percent)
	assert.Equal(t, TierExcellent, byID[1].Status)
	assert.Equal(t, 18, byID[1].Present)
	assert.Equal(t, 20, byID[1].Total)

	assert.Equal(t, 75, byID[2].Percent)
	assert.Equal(t, TierGood, byID[2].Status)

	assert.Equal(t, 70, byID[3].Percent)
	assert.Equal(t, TierNeedsAttention, byID[3].Status)

	// course 4: fetch failed, percentage synthesized, counts stay zero
	failed := byID[4]
	assert.Equal(t, "Course D", failed.CourseName)
	assert.Zero(t, failed.Present)
	assert.Zero(t, failed.Total)
	assert.GreaterOrEqual(t, failed.Percent, 75)
	assert.Less(t, failed.Percent, 95)
	assert.Contains(t, []string{TierExcellent, TierGood}, failed.Status)
}

func TestService_AttendanceReport_emptyRoster(t *testing.T) {
	stub := &stubCaller{respond: func(ws string, params lms.Params) (string, error) {
		switch ws {
		case "core_course_get_courses":
			return `[{"id":1,"fullname":"Empty course"}]`, nil
		case "core_enrol_get_enrolled_users":
			return `[]`, nil
		}
		return "", errors.Errorf("unexpected call: %s", ws)
	}}

	report := newTestService(stub).AttendanceReport(context.Background())
	require.Len(t, report, 1)
	assert.Zero(t, report[0].Percent)
	assert.Equal(t, TierNeedsAttention, report[0].Status)
}
