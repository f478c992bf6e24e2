package dashboard

import (
	"github.com/somahub/portal/core/event"
	"github.com/somahub/portal/core/user"
)

type (
	// Overview is the landing dashboard payload, assembled from one
	// concurrent fan-out.
	Overview struct {
		TotalUsers     int              `json:"totalusers"`
		ActiveUsers    int              `json:"activeusers"`
		TotalCourses   int              `json:"totalcourses"`
		UpcomingEvents []event.Event    `json:"upcomingevents"`
		RecentActivity []RecentActivity `json:"recentactivity"`
	}

	// RecentActivity is one row of the "recently seen" widget.
	RecentActivity struct {
		UserID     int       `json:"userid"`
		Name       string    `json:"name"`
		Role       user.Role `json:"role"`
		LastAccess int64     `json:"lastaccess"`
	}

	// MonthEngagement is one bucket of the trailing engagement series.
	MonthEngagement struct {
		Month string `json:"month"`
		Score int    `json:"score"`
	}

	// CourseAttendance is one course-session row of the attendance report.
	// When enrollment data cannot be fetched, Percent is synthesized by the
	// defaults policy and Present/Total stay zero.
	CourseAttendance struct {
		CourseID   int    `json:"courseid"`
		CourseName string `json:"coursename"`
		Present    int    `json:"present"`
		Total      int    `json:"total"`
		Percent    int    `json:"percent"`
		Status     string `json:"status"`
	}

	// Distribution is the competency distribution chart payload, in display
	// percentages (band-clamped).
	Distribution struct {
		Completed  int `json:"completed"`
		InProgress int `json:"inprogress"`
		NotStarted int `json:"notstarted"`
	}

	// RadarPoint is one axis of the per-user competency radar.
	RadarPoint struct {
		Category string `json:"category"`
		Value    int    `json:"value"`
	}

	// LeaderboardEntry is one ranked row. Rank is assigned after a stable
	// descending sort on TotalPoints, so ties keep their input order.
	LeaderboardEntry struct {
		ID               int       `json:"id"`
		Name             string    `json:"name"`
		ProfileImage     string    `json:"profileimage,omitempty"`
		Department       string    `json:"department,omitempty"`
		Role             user.Role `json:"role"`
		CompletedCourses int       `json:"completedcourses"`
		TotalPoints      int       `json:"totalpoints"`
		LastActivity     int64     `json:"lastactivity,omitempty"`
		Rank             int       `json:"rank"`
	}
)
