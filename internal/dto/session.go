package dto

// SessionFeedItem is one upcoming session in a mentor's cross-cohort feed.
type SessionFeedItem struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Day         string `json:"day"`
	Time        string `json:"time"`
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	BatchName   string `json:"batchName"`
	TableName   string `json:"tableName"`
	MeetingLink string `json:"meetingLink,omitempty"`
	MentorID    int64  `json:"mentorId"`
}

// SessionFeedResponse groups a mentor's upcoming sessions by date and calls
// out today's first session for the dashboard hero card.
type SessionFeedResponse struct {
	Sessions       []SessionFeedItem            `json:"sessions"`
	SessionsByDate map[string][]SessionFeedItem `json:"sessionsByDate"`
	TodaySession   *SessionFeedItem             `json:"todaySession"`
	TodaySessions  []SessionFeedItem            `json:"todaySessions"`
	Dates          []string                     `json:"dates"`
}

// SessionDetailResponse is the full session view for the session page.
type SessionDetailResponse struct {
	ID            int64    `json:"id"`
	WeekNumber    int      `json:"week_number"`
	SessionNumber int      `json:"session_number"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Day           string   `json:"day"`
	SessionType   string   `json:"session_type"`
	SubjectType   string   `json:"subject_type"`
	SubjectName   string   `json:"subject_name"`
	SubjectTopic  string   `json:"subject_topic"`
	Recording     string   `json:"session_recording,omitempty"`
	MeetingLink   string   `json:"teams_meeting_link,omitempty"`
	MentorID      int64    `json:"mentor_id"`
	MaterialLinks []string `json:"materialLinks"`
}

// AddMaterialRequest appends material links to a session identified the way
// the session page addresses it: by cohort table, date and time.
type AddMaterialRequest struct {
	TableName string   `json:"tableName" validate:"required"`
	Date      string   `json:"date" validate:"required"`
	Time      string   `json:"time" validate:"required"`
	NewLinks  []string `json:"newLinks" validate:"required,min=1,dive,required"`

	// Set from the bearer token, never from the body.
	ActorMentorID int64 `json:"-"`
}
