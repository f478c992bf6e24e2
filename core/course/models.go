package course

import "github.com/volatiletech/null/v8"

// Type is the delivery format of a course. The LMS does not carry this
// field; it is inferred from the course text (see inferType).
type Type string

const (
	TypeILT       Type = "ILT"
	TypeVILT      Type = "VILT"
	TypeSelfPaced Type = "Self-paced"
)

type (
	// Course is the portal shape of an LMS course. Rating and Progress are
	// plausible-by-policy: when the site does not report them they are
	// filled by the Defaults policy, never left zero-valued by accident.
	Course struct {
		ID              int        `json:"id"`
		FullName        string     `json:"fullname"`
		ShortName       string     `json:"shortname"`
		Summary         string     `json:"summary"`
		CategoryID      int        `json:"categoryid"`
		CourseImage     string     `json:"courseimage,omitempty"`
		Progress        float64    `json:"progress"`
		StartDate       null.Int64 `json:"startdate,omitempty"`
		EndDate         null.Int64 `json:"enddate,omitempty"`
		EnrollmentCount null.Int   `json:"enrollmentcount,omitempty"`
		Rating          float64    `json:"rating"`
		Type            Type       `json:"type"`
		Level           string     `json:"level,omitempty"`
	}

	// Section is one course section with its ordered modules.
	Section struct {
		ID      int      `json:"id"`
		Name    string   `json:"name"`
		Section int      `json:"section"`
		Summary string   `json:"summary"`
		Modules []Module `json:"modules"`
	}

	// Module is a single activity/resource inside a section. PageContent is
	// upstream HTML and must be sanitized before rendering.
	Module struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		ModName     string `json:"modname"`
		Description string `json:"description,omitempty"`
		PageContent string `json:"pagecontent,omitempty"`
		MainURL     string `json:"mainurl,omitempty"`
		FileName    string `json:"filename,omitempty"`
	}

	// Enrollment is a user enrolled in a specific course.
	Enrollment struct {
		ID              int        `json:"id"`
		FullName        string     `json:"fullname"`
		Email           string     `json:"email,omitempty"`
		Department      string     `json:"department,omitempty"`
		ProfileImageURL string     `json:"profileimageurl,omitempty"`
		LastAccess      null.Int64 `json:"lastaccess,omitempty"`
	}

	// HourSlot is one synthetic hour of the learning pathway.
	HourSlot struct {
		Hour      int      `json:"hour"`
		TimeRange string   `json:"timerange"`
		Modules   []Module `json:"modules"`
	}

	// DayData is one synthetic "day" of the learning pathway, derived from a
	// section. It does not reflect any real timing metadata from the LMS.
	DayData struct {
		DayNumber           int        `json:"daynumber"`
		DayName             string     `json:"dayname"`
		SectionID           int        `json:"sectionid"`
		SectionName         string     `json:"sectionname"`
		HourlyActivities    []HourSlot `json:"hourlyactivities"`
		TotalActivities     int        `json:"totalactivities"`
		CompletedActivities null.Int   `json:"completedactivities,omitempty"`
	}

	// ModuleStyle is presentation metadata for one activity type.
	ModuleStyle struct {
		Color string `json:"color"`
		Icon  string `json:"icon"`
		Label string `json:"label"`
	}

	// Assignment/Quiz/Forum are trimmed activity records backing the
	// resource library view.
	Assignment struct {
		ID       int    `json:"id"`
		CourseID int    `json:"courseid"`
		Name     string `json:"name"`
		DueDate  int64  `json:"duedate,omitempty"`
	}

	Quiz struct {
		ID        int    `json:"id"`
		CourseID  int    `json:"courseid"`
		Name      string `json:"name"`
		TimeClose int64  `json:"timeclose,omitempty"`
	}

	Forum struct {
		ID       int    `json:"id"`
		CourseID int    `json:"courseid"`
		Name     string `json:"name"`
		Intro    string `json:"intro,omitempty"`
	}
)
