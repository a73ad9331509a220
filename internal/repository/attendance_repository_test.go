package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentor-dash-api/internal/models"
)

func newAttendanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	email := "asha@example.com"
	mock.ExpectExec("INSERT INTO mentor_attendance").
		WithArgs(int64(42), "Asha", email, 10, 7, 3, 2, 70.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.MentorAttendance{
		MentorID:          42,
		Name:              "Asha",
		Email:             &email,
		TotalClasses:      10,
		Present:           7,
		Absent:            3,
		SpecialAttendance: 2,
		AttendancePercent: 70.0,
		UpdatedAt:         time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryList(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"mentor_id", "name", "email", "total_classes", "present", "absent", "special_attendance", "attendance_percent", "updated_at"}).
		AddRow(int64(42), "Asha", "asha@example.com", 10, 7, 3, 2, 70.0, time.Now()).
		AddRow(int64(43), "Ben", nil, 8, 4, 4, 0, 50.0, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM mentor_attendance ORDER BY attendance_percent DESC, mentor_id ASC").
		WillReturnRows(rows)

	summaries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, int64(42), summaries[0].MentorID)
	assert.Equal(t, 70.0, summaries[0].AttendancePercent)
	assert.Nil(t, summaries[1].Email)
}
