package models

import (
	"strings"
	"time"
)

// DateOnly is the calendar date layout used across the cohort schedule
// tables. Session dates carry no time component.
const DateOnly = "2006-01-02"

// DayNames is the fixed weekday table used when a session's day column is
// recomputed after a move. Indexed by time.Weekday.
var DayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName returns the weekday name for a date.
func DayName(date time.Time) string {
	return DayNames[int(date.Weekday())]
}

// SessionRecord is one scheduled class instance inside a cohort timeline.
// Rows are normalized at ingestion: older cohort tables disagree on column
// names (time/start_time, subject/subject_name, teams_meeting_link/
// meeting_link/teams_link), so the repository resolves every variant into
// these canonical fields exactly once.
type SessionRecord struct {
	ID              int64     `json:"id"`
	WeekNumber      int       `json:"week_number"`
	SessionNumber   int       `json:"session_number"`
	Date            time.Time `json:"-"`
	Time            string    `json:"time"`
	Day             string    `json:"day"`
	SessionType     string    `json:"session_type,omitempty"`
	SubjectType     string    `json:"subject_type,omitempty"`
	Subject         string    `json:"subject_name,omitempty"`
	Topic           string    `json:"subject_topic,omitempty"`
	Material        string    `json:"session_material,omitempty"`
	Recording       string    `json:"session_recording,omitempty"`
	MeetingLink     string    `json:"teams_meeting_link,omitempty"`
	MentorID        int64     `json:"mentor_id"`
	SwappedMentorID *int64    `json:"swapped_mentor_id,omitempty"`
}

// DateString renders the session date as YYYY-MM-DD, empty when unset.
func (s SessionRecord) DateString() string {
	if s.Date.IsZero() {
		return ""
	}
	return s.Date.Format(DateOnly)
}

// HasRecording reports whether the session was actually delivered.
func (s SessionRecord) HasRecording() bool {
	return strings.TrimSpace(s.Recording) != ""
}

// Swapped reports whether another mentor delivered this session.
func (s SessionRecord) Swapped() bool {
	return s.SwappedMentorID != nil
}

// MaterialLinks splits the raw material column into individual links.
func (s SessionRecord) MaterialLinks() []string {
	if strings.TrimSpace(s.Material) == "" {
		return nil
	}
	raw := strings.FieldsFunc(s.Material, func(r rune) bool {
		return r == '\n' || r == ','
	})
	links := make([]string, 0, len(raw))
	for _, link := range raw {
		if trimmed := strings.TrimSpace(link); trimmed != "" {
			links = append(links, trimmed)
		}
	}
	return links
}

// Cohort identifies one cohort timeline. TableName is the opaque shard key
// handed out by the catalog; DisplayName is derived for presentation only.
type Cohort struct {
	TableName   string `json:"table_name"`
	DisplayName string `json:"display_name"`
}

// MoveDirection selects which way a session is being rescheduled.
type MoveDirection string

const (
	MovePostpone MoveDirection = "postpone"
	MovePrepone  MoveDirection = "prepone"
)

// Valid reports whether the direction is one of the supported values.
func (d MoveDirection) Valid() bool {
	return d == MovePostpone || d == MovePrepone
}
