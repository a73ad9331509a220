package models

import "time"

// SessionOutcome classifies one past assigned session for a mentor.
type SessionOutcome string

const (
	OutcomePresent SessionOutcome = "present"
	OutcomeAbsent  SessionOutcome = "absent"
)

// MentorAttendance is the per-mentor summary row persisted in the main
// database. It is recomputed in full on every aggregation run and upserted
// keyed by mentor_id; rows are never patched incrementally.
//
// Invariant: TotalClasses == Present + Absent. SpecialAttendance (classes
// covered for other mentors) is tracked separately and never enters the
// percentage denominator.
type MentorAttendance struct {
	MentorID          int64     `db:"mentor_id" json:"mentor_id"`
	Name              string    `db:"name" json:"name"`
	Email             *string   `db:"email" json:"email"`
	TotalClasses      int       `db:"total_classes" json:"total_classes"`
	Present           int       `db:"present" json:"present"`
	Absent            int       `db:"absent" json:"absent"`
	SpecialAttendance int       `db:"special_attendance" json:"special_attendance"`
	AttendancePercent float64   `db:"attendance_percent" json:"attendance_percent"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
