package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type CalendarEvent struct {
	Title           string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Location        string
	MeetingLink     string
}

// Calendar accumulates scheduled events for the lifetime of a session.
// Events are never mutated or removed once added.
type Calendar struct {
	events []CalendarEvent
	now    func() time.Time
}

func NewCalendar() *Calendar {
	return &Calendar{now: time.Now}
}

func (c *Calendar) Events() []CalendarEvent {
	return c.events
}

type eventDetails struct {
	Title           string `json:"title"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Location        string `json:"location"`
}

// Schedule creates a calendar event from the model-provided details and
// returns a confirmation string. An event with the same title and start time
// as an existing one is not stored again, but the confirmation is still
// produced. Any failure is reported in the returned string, never as an error.
func (c *Calendar) Schedule(_ context.Context, args json.RawMessage) string {
	details := eventDetails{
		Title:           "Untitled Event",
		DurationMinutes: 60,
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &details); err != nil {
			return fmt.Sprintf("Failed to schedule event: %v", err)
		}
	}

	var start time.Time
	if details.StartTime != "" {
		t, err := parseISOTime(details.StartTime)
		if err != nil {
			return fmt.Sprintf("Failed to schedule event: %v", err)
		}
		start = t
	} else {
		// One hour from now, rounded down to the top of the hour.
		t := c.now().Add(time.Hour)
		start = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	}

	end := start.Add(time.Duration(details.DurationMinutes) * time.Minute)

	location := details.Location
	meetingLink := ""
	if isVirtualLocation(location) {
		meetingID := randomDigits(9)
		meetingPassword := randomToken(6)
		meetingLink = fmt.Sprintf("https://meeting-link.example.com/j/%s?pwd=%s", meetingID, meetingPassword)
		if location == "" {
			location = "Virtual Meeting"
		}
	}

	duplicate := false
	for _, ev := range c.events {
		if ev.Title == details.Title && ev.StartTime.Equal(start) {
			duplicate = true
			break
		}
	}
	if !duplicate {
		c.events = append(c.events, CalendarEvent{
			Title:           details.Title,
			StartTime:       start,
			EndTime:         end,
			DurationMinutes: details.DurationMinutes,
			Location:        location,
			MeetingLink:     meetingLink,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scheduled: %s at %s", details.Title, start.Format("2006-01-02 15:04"))
	if location != "" {
		fmt.Fprintf(&b, "\nLocation: %s", location)
	}
	if meetingLink != "" {
		fmt.Fprintf(&b, "\nMeeting Link: %s", meetingLink)
	}
	return b.String()
}

func isVirtualLocation(location string) bool {
	if location == "" {
		return true
	}
	l := strings.ToLower(location)
	return strings.Contains(l, "online") ||
		strings.Contains(l, "virtual") ||
		strings.Contains(l, "remote")
}

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseISOTime(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start time %q", s)
}
