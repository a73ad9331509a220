package dto

// UpdateCellRequest patches a single field of one schedule row. The field
// name is checked against a whitelist before it reaches the store.
type UpdateCellRequest struct {
	TableName string  `json:"tableName" validate:"required"`
	ID        int64   `json:"id" validate:"required,gt=0"`
	Field     string  `json:"field" validate:"required"`
	Value     *string `json:"value"`
}

// RescheduleOptionsResponse lists the legal target dates for a move plus the
// constraint on a same-date time change, e.g. "select time after 14:00".
// An empty date list is a valid outcome, not an error.
type RescheduleOptionsResponse struct {
	Direction      string   `json:"direction"`
	CurrentDate    string   `json:"current_date"`
	CurrentTime    string   `json:"current_time,omitempty"`
	AvailableDates []string `json:"available_dates"`
	TimeConstraint string   `json:"time_constraint,omitempty"`
}

// MoveSessionRequest commits a postpone/prepone. Empty newDate keeps the
// current date; empty newTime keeps the current time.
type MoveSessionRequest struct {
	TableName string `json:"tableName" validate:"required"`
	ID        int64  `json:"id" validate:"required,gt=0"`
	Direction string `json:"direction" validate:"required,oneof=postpone prepone"`
	NewDate   string `json:"newDate"`
	NewTime   string `json:"newTime"`
}

// AppliedMove echoes the field set written by a committed move. MeetingLink
// is always null afterwards; a new link has to be generated downstream.
type AppliedMove struct {
	Date        string  `json:"date"`
	Day         string  `json:"day"`
	Time        string  `json:"time"`
	MeetingLink *string `json:"meetingLink"`
}
