package tools

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var meetingLinkRe = regexp.MustCompile(`https://meeting-link\.example\.com/j/\d{9}\?pwd=[a-z0-9]{6}`)

func testCalendar(now time.Time) *Calendar {
	c := NewCalendar()
	c.now = func() time.Time { return now }
	return c
}

func TestScheduleDefaults(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 25, 42, 0, time.Local)
	c := testCalendar(now)

	out := c.Schedule(context.Background(), json.RawMessage(`{}`))

	require.Len(t, c.Events(), 1)
	ev := c.Events()[0]

	wantStart := time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local)
	assert.Equal(t, "Untitled Event", ev.Title)
	assert.True(t, ev.StartTime.Equal(wantStart), "start = %v, want %v", ev.StartTime, wantStart)
	assert.True(t, ev.EndTime.Equal(wantStart.Add(60*time.Minute)))
	assert.Equal(t, 60, ev.DurationMinutes)
	assert.Equal(t, "Virtual Meeting", ev.Location)
	assert.Regexp(t, meetingLinkRe, ev.MeetingLink)

	assert.Contains(t, out, "Scheduled: Untitled Event at 2026-08-30 15:00")
	assert.Contains(t, out, "Location: Virtual Meeting")
	assert.Contains(t, out, "Meeting Link: ")
}

func TestScheduleParsesStartTime(t *testing.T) {
	c := testCalendar(time.Now())

	out := c.Schedule(context.Background(), json.RawMessage(
		`{"title":"Standup","start_time":"2026-09-01T09:00:00","duration_minutes":15,"location":"Room 4"}`))

	require.Len(t, c.Events(), 1)
	ev := c.Events()[0]
	assert.Equal(t, "Standup", ev.Title)
	assert.True(t, ev.StartTime.Equal(time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)))
	assert.Equal(t, 15, ev.DurationMinutes)
	assert.Equal(t, "Room 4", ev.Location)
	assert.Empty(t, ev.MeetingLink, "physical location must not get a meeting link")

	assert.Contains(t, out, "Scheduled: Standup at 2026-09-01 09:00")
	assert.Contains(t, out, "Location: Room 4")
	assert.NotContains(t, out, "Meeting Link")
}

func TestScheduleVirtualKeywords(t *testing.T) {
	for _, location := range []string{"Online call", "VIRTUAL", "remote office hours"} {
		c := testCalendar(time.Now())
		c.Schedule(context.Background(), json.RawMessage(`{"title":"Sync","location":"`+location+`"}`))

		require.Len(t, c.Events(), 1)
		ev := c.Events()[0]
		assert.Equal(t, location, ev.Location, "explicit location must be preserved")
		assert.Regexp(t, meetingLinkRe, ev.MeetingLink)
	}
}

func TestScheduleDeduplicates(t *testing.T) {
	c := testCalendar(time.Now())
	args := json.RawMessage(`{"title":"Standup","start_time":"2026-09-01T09:00:00"}`)

	first := c.Schedule(context.Background(), args)
	second := c.Schedule(context.Background(), args)

	assert.Len(t, c.Events(), 1, "identical title and start time must store once")
	assert.Contains(t, first, "Scheduled: Standup")
	assert.Contains(t, second, "Scheduled: Standup", "confirmation is still produced on a duplicate")
}

func TestScheduleDistinctStartTimesBothStored(t *testing.T) {
	c := testCalendar(time.Now())

	c.Schedule(context.Background(), json.RawMessage(`{"title":"Standup","start_time":"2026-09-01T09:00:00"}`))
	c.Schedule(context.Background(), json.RawMessage(`{"title":"Standup","start_time":"2026-09-02T09:00:00"}`))

	assert.Len(t, c.Events(), 2)
}

func TestScheduleBadStartTime(t *testing.T) {
	c := testCalendar(time.Now())

	out := c.Schedule(context.Background(), json.RawMessage(`{"start_time":"next tuesday-ish"}`))

	assert.Contains(t, out, "Failed to schedule event:")
	assert.Empty(t, c.Events())
}
