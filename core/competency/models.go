package competency

import "github.com/volatiletech/null/v8"

// PlanStatus is the portal mapping of the LMS's numeric plan status codes.
type PlanStatus string

const (
	StatusDone       PlanStatus = "done"
	StatusInProgress PlanStatus = "inprogress"
	StatusPlanned    PlanStatus = "planned"
)

// mapStatus maps the upstream numeric code: 1=done, 2=inprogress, anything
// else is treated as planned.
func mapStatus(code int) PlanStatus {
	switch code {
	case 1:
		return StatusDone
	case 2:
		return StatusInProgress
	default:
		return StatusPlanned
	}
}

type (
	// Plan is a learning/competency plan attached to a user.
	Plan struct {
		ID           int          `json:"id"`
		Name         string       `json:"name"`
		Status       PlanStatus   `json:"status"`
		Competencies []Competency `json:"competencies,omitempty"`
	}

	// Competency is one competency inside a plan. Proficiency is absent
	// until the site has graded it.
	Competency struct {
		ID          int       `json:"id"`
		ShortName   string    `json:"shortname"`
		Description string    `json:"description,omitempty"`
		Proficiency null.Bool `json:"proficiency,omitempty"`
		Status      string    `json:"status,omitempty"`
	}
)
