package models

// Mentor is the profile row from the mentor_details table in the cohort
// database.
type Mentor struct {
	MentorID int64   `db:"mentor_id" json:"mentor_id"`
	Name     string  `db:"name" json:"name"`
	Email    *string `db:"email" json:"email"`
}

// DisplayName returns the mentor name with the legacy fallback for rows
// that never had one filled in.
func (m Mentor) DisplayName() string {
	if m.Name == "" {
		return "Unknown"
	}
	return m.Name
}
