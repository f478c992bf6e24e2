package event

// Event is a trimmed LMS calendar event.
type Event struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	TimeStart int64  `json:"timestart"`
	CourseID  int    `json:"courseid,omitempty"`
	EventType string `json:"eventtype,omitempty"`
}

// Notification is a trimmed popup notification.
type Notification struct {
	ID          int    `json:"id"`
	Subject     string `json:"subject"`
	Text        string `json:"text,omitempty"`
	TimeCreated int64  `json:"timecreated"`
	Read        bool   `json:"read"`
}
