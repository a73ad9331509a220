package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mentorhub/mentor-dash-api/internal/models"
)

// AttendanceRepository persists mentor attendance summaries in the main
// database. Rows are keyed by mentor_id with last-write-wins upsert
// semantics; concurrent recomputes for the same mentor are not coordinated
// beyond that.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert writes the full summary row, replacing any previous one for the
// mentor.
func (r *AttendanceRepository) Upsert(ctx context.Context, summary *models.MentorAttendance) error {
	const query = `INSERT INTO mentor_attendance (mentor_id, name, email, total_classes, present, absent, special_attendance, attendance_percent, updated_at)
		VALUES (:mentor_id, :name, :email, :total_classes, :present, :absent, :special_attendance, :attendance_percent, :updated_at)
		ON CONFLICT (mentor_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			total_classes = EXCLUDED.total_classes,
			present = EXCLUDED.present,
			absent = EXCLUDED.absent,
			special_attendance = EXCLUDED.special_attendance,
			attendance_percent = EXCLUDED.attendance_percent,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, summary); err != nil {
		return fmt.Errorf("upsert attendance for mentor %d: %w", summary.MentorID, err)
	}
	return nil
}

// List returns every summary ordered by attendance percentage, best first.
func (r *AttendanceRepository) List(ctx context.Context) ([]models.MentorAttendance, error) {
	const query = `SELECT mentor_id, name, email, total_classes, present, absent, special_attendance, attendance_percent, updated_at FROM mentor_attendance ORDER BY attendance_percent DESC, mentor_id ASC`
	var summaries []models.MentorAttendance
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list attendance summaries: %w", err)
	}
	return summaries, nil
}
