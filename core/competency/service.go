package competency

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/somahub/portal/core"
	"github.com/somahub/portal/core/lms"
)

// Service fetches competency plans. Fail-open: failures degrade to empty
// slices so the certifications view renders with whatever arrived.
type Service struct {
	lms    lms.Caller
	logger core.Logger
}

func NewService(gateway lms.Caller, logger core.Logger) *Service {
	return &Service{lms: gateway, logger: logger}
}

// Plans lists a user's competency plans, statuses mapped from the numeric
// upstream codes.
func (svc *Service) Plans(ctx context.Context, userID int) []Plan {
	body, err := svc.lms.Call(ctx, "core_competency_list_plans", lms.Params{
		"userid": userID,
	})
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("competency.Plans(%d): falling back to empty set", userID), err)
		return []Plan{}
	}

	var raws []struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal(body, &raws); err != nil {
		svc.logger.Warn("competency.Plans: undecodable payload", err)
		return []Plan{}
	}

	plans := make([]Plan, 0, len(raws))
	for _, r := range raws {
		plans = append(plans, Plan{ID: r.ID, Name: r.Name, Status: mapStatus(r.Status)})
	}
	return plans
}

// PlanCompetencies lists the competencies of one plan.
func (svc *Service) PlanCompetencies(ctx context.Context, planID int) []Competency {
	body, err := svc.lms.Call(ctx, "core_competency_list_plan_competencies", lms.Params{
		"id": planID,
	})
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("competency.PlanCompetencies(%d): falling back to empty set", planID), err)
		return []Competency{}
	}

	var raws []struct {
		Competency struct {
			ID          int    `json:"id"`
			ShortName   string `json:"shortname"`
			Description string `json:"description"`
		} `json:"competency"`
		UserCompetency *struct {
			Proficiency *bool  `json:"proficiency"`
			Status      string `json:"statusname"`
		} `json:"usercompetency"`
		UserCompetencyPlan *struct {
			Proficiency *bool  `json:"proficiency"`
			Status      string `json:"statusname"`
		} `json:"usercompetencyplan"`
	}
	if err := json.Unmarshal(body, &raws); err != nil {
		svc.logger.Warn("competency.PlanCompetencies: undecodable payload", err)
		return []Competency{}
	}

	comps := make([]Competency, 0, len(raws))
	for _, r := range raws {
		c := Competency{
			ID:          r.Competency.ID,
			ShortName:   r.Competency.ShortName,
			Description: r.Competency.Description,
		}
		// completed plans report usercompetencyplan instead of usercompetency
		state := r.UserCompetency
		if state == nil {
			state = r.UserCompetencyPlan
		}
		if state != nil {
			c.Status = state.Status
			if state.Proficiency != nil {
				c.Proficiency = null.BoolFrom(*state.Proficiency)
			}
		}
		comps = append(comps, c)
	}
	return comps
}

// PlansWithCompetencies expands each plan with its competencies; per-plan
// failures leave that plan's list empty rather than dropping the plan.
func (svc *Service) PlansWithCompetencies(ctx context.Context, userID int) []Plan {
	plans := svc.Plans(ctx, userID)
	for i := range plans {
		plans[i].Competencies = svc.PlanCompetencies(ctx, plans[i].ID)
	}
	return plans
}
