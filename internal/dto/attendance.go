package dto

// ComputeAttendanceRequest asks for one mentor's summary to be recomputed.
type ComputeAttendanceRequest struct {
	MentorID int64 `json:"mentorId" validate:"required,gt=0"`
}

// AttendanceData is the wire shape of a computed summary. Field names are
// fixed for compatibility with the dashboard frontend.
type AttendanceData struct {
	MentorID          int64   `json:"mentor_id"`
	Name              string  `json:"name"`
	Email             *string `json:"email"`
	TotalClasses      int     `json:"total_classes"`
	Present           int     `json:"present"`
	Absent            int     `json:"absent"`
	SpecialAttendance int     `json:"special_attendance"`
	AttendancePercent float64 `json:"attendance_percent"`
}
