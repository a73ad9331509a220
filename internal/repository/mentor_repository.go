package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mentorhub/mentor-dash-api/internal/models"
)

// MentorRepository reads mentor profiles from the cohort database.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository creates a new mentor repository.
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

// FindByID loads one mentor profile.
func (r *MentorRepository) FindByID(ctx context.Context, mentorID int64) (*models.Mentor, error) {
	const query = `SELECT mentor_id, name, email FROM mentor_details WHERE mentor_id = $1`
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, mentorID); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// FindByEmail loads one mentor profile by email, case-insensitively.
func (r *MentorRepository) FindByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	const query = `SELECT mentor_id, name, email FROM mentor_details WHERE LOWER(email) = LOWER($1)`
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, email); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// ListIDs returns all known mentor ids, used by the bulk recompute job.
func (r *MentorRepository) ListIDs(ctx context.Context) ([]int64, error) {
	const query = `SELECT mentor_id FROM mentor_details ORDER BY mentor_id ASC`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list mentor ids: %w", err)
	}
	return ids, nil
}
