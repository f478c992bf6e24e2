package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/somahub/portal/core"
	"github.com/somahub/portal/core/lms"
)

// Service fetches calendar events and notifications, fresh on every call.
// Fail-open like the other entity fetchers.
type Service struct {
	lms    lms.Caller
	logger core.Logger
}

func NewService(gateway lms.Caller, logger core.Logger) *Service {
	return &Service{lms: gateway, logger: logger}
}

// Upcoming lists the user's upcoming calendar events.
func (svc *Service) Upcoming(ctx context.Context) []Event {
	body, err := svc.lms.Call(ctx, "core_calendar_get_calendar_upcoming_view", nil)
	if err != nil {
		svc.logger.Warn("event.Upcoming: falling back to empty set", err)
		return []Event{}
	}

	var payload struct {
		Events []struct {
			ID        int    `json:"id"`
			Name      string `json:"name"`
			TimeStart int64  `json:"timestart"`
			EventType string `json:"eventtype"`
			Course    struct {
				ID int `json:"id"`
			} `json:"course"`
		} `json:"events"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		svc.logger.Warn("event.Upcoming: undecodable payload", err)
		return []Event{}
	}

	events := make([]Event, 0, len(payload.Events))
	for _, e := range payload.Events {
		events = append(events, Event{
			ID:        e.ID,
			Name:      e.Name,
			TimeStart: e.TimeStart,
			EventType: e.EventType,
			CourseID:  e.Course.ID,
		})
	}
	return events
}

// Notifications lists a user's popup notifications.
func (svc *Service) Notifications(ctx context.Context, userID int) []Notification {
	body, err := svc.lms.Call(ctx, "message_popup_get_popup_notifications", lms.Params{
		"useridto": userID,
	})
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("event.Notifications(%d): falling back to empty set", userID), err)
		return []Notification{}
	}

	var payload struct {
		Notifications []struct {
			ID          int    `json:"id"`
			Subject     string `json:"subject"`
			SmallText   string `json:"smallmessage"`
			TimeCreated int64  `json:"timecreated"`
			Read        bool   `json:"read"`
		} `json:"notifications"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		svc.logger.Warn("event.Notifications: undecodable payload", err)
		return []Notification{}
	}

	notifs := make([]Notification, 0, len(payload.Notifications))
	for _, n := range payload.Notifications {
		notifs = append(notifs, Notification{
			ID:          n.ID,
			Subject:     n.Subject,
			Text:        n.SmallText,
			TimeCreated: n.TimeCreated,
			Read:        n.Read,
		})
	}
	return notifs
}
