package course

import (
	"fmt"
	"strings"
)

// The learning pathway is a purely synthetic timetable: sections become
// consecutive "days" and each day's modules are spread over 8 fixed hour
// slots starting at 09:00. None of this reflects real timing metadata from
// the LMS; it exists so the pathway view has something legible to draw.
const (
	pathwayStartHour = 9
	pathwaySlots     = 8
)

// OrganizeByDay partitions course sections into the synthetic day/hour
// structure. Section i becomes Day i+1; slot h gets modules
// [h*perHour, (h+1)*perHour) where perHour = ceil(len(modules)/8).
// Empty slots are omitted, so every returned slot is non-empty and slot
// sizes always sum back to the section's module count.
func OrganizeByDay(sections []Section) []DayData {
	days := make([]DayData, 0, len(sections))
	for i, sec := range sections {
		day := DayData{
			DayNumber:       i + 1,
			DayName:         fmt.Sprintf("Day %d", i+1),
			SectionID:       sec.ID,
			SectionName:     sec.Name,
			TotalActivities: len(sec.Modules),
		}

		if n := len(sec.Modules); n > 0 {
			perHour := (n + pathwaySlots - 1) / pathwaySlots
			for h := 0; h < pathwaySlots; h++ {
				lo := h * perHour
				if lo >= n {
					break
				}
				hi := lo + perHour
				if hi > n {
					hi = n
				}
				hour := pathwayStartHour + h
				day.HourlyActivities = append(day.HourlyActivities, HourSlot{
					Hour:      hour,
					TimeRange: fmt.Sprintf("%02d:00 - %02d:00", hour, hour+1),
					Modules:   sec.Modules[lo:hi],
				})
			}
		}
		days = append(days, day)
	}
	return days
}

// moduleStyles maps modname to presentation metadata.
var moduleStyles = map[string]ModuleStyle{
	"assign":      {Color: "#f59e0b", Icon: "clipboard", Label: "Assignment"},
	"quiz":        {Color: "#8b5cf6", Icon: "help-circle", Label: "Quiz"},
	"forum":       {Color: "#3b82f6", Icon: "message-square", Label: "Discussion"},
	"resource":    {Color: "#10b981", Icon: "file-text", Label: "Resource"},
	"url":         {Color: "#06b6d4", Icon: "link", Label: "Link"},
	"book":        {Color: "#6366f1", Icon: "book-open", Label: "Book"},
	"workshop":    {Color: "#ec4899", Icon: "users", Label: "Workshop"},
	"page":        {Color: "#14b8a6", Icon: "layout", Label: "Page"},
	"lesson":      {Color: "#f97316", Icon: "bookmark", Label: "Lesson"},
	"scorm":       {Color: "#a855f7", Icon: "package", Label: "Interactive"},
	"label":       {Color: "#9ca3af", Icon: "tag", Label: "Label"},
	"folder":      {Color: "#eab308", Icon: "folder", Label: "Folder"},
	"glossary":    {Color: "#0ea5e9", Icon: "list", Label: "Glossary"},
	"choice":      {Color: "#22c55e", Icon: "check-square", Label: "Choice"},
	"feedback":    {Color: "#f43f5e", Icon: "star", Label: "Feedback"},
	"chat":        {Color: "#60a5fa", Icon: "message-circle", Label: "Chat"},
	"wiki":        {Color: "#94a3b8", Icon: "edit", Label: "Wiki"},
	"h5pactivity": {Color: "#d946ef", Icon: "play-circle", Label: "Interactive"},
	"lti":         {Color: "#64748b", Icon: "external-link", Label: "External Tool"},
	"data":        {Color: "#2dd4bf", Icon: "database", Label: "Database"},
	"survey":      {Color: "#fb923c", Icon: "bar-chart", Label: "Survey"},
}

var genericStyle = ModuleStyle{Color: "#6b7280", Icon: "circle", Label: "Activity"}

// titleHints assist classification when the modname is unrecognized.
var titleHints = []struct {
	substr string
	style  ModuleStyle
}{
	{"video", ModuleStyle{Color: "#ef4444", Icon: "video", Label: "Video"}},
	{"assessment", ModuleStyle{Color: "#8b5cf6", Icon: "help-circle", Label: "Quiz"}},
	{"test", ModuleStyle{Color: "#8b5cf6", Icon: "help-circle", Label: "Quiz"}},
	{"reading", ModuleStyle{Color: "#10b981", Icon: "file-text", Label: "Resource"}},
}

// ClassifyModule maps an activity type (and, failing that, its title) to a
// style tuple. Total over arbitrary strings; never panics.
func ClassifyModule(modname, title string) ModuleStyle {
	if style, ok := moduleStyles[strings.ToLower(strings.TrimSpace(modname))]; ok {
		return style
	}
	t := strings.ToLower(title)
	for _, hint := range titleHints {
		if strings.Contains(t, hint.substr) {
			return hint.style
		}
	}
	return genericStyle
}
