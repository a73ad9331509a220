package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSessionRepositoryNormalizesLegacyColumns(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	// Legacy table: start_time, subject, topic and meeting_link variants.
	rows := sqlmock.NewRows([]string{
		"id", "week_number", "session_number", "date", "start_time", "day",
		"subject", "topic", "meeting_link", "session_recording", "mentor_id", "swapped_mentor_id",
	}).AddRow(
		int64(5), int64(2), int64(1), "2026-09-14", "18:00", "Monday",
		"Go", "Interfaces", "https://teams.example.com/m", "", int64(42), nil,
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM basic1_schedule ORDER BY week_number ASC, session_number ASC")).
		WillReturnRows(rows)

	sessions, err := repo.ListByTable(context.Background(), "basic1_schedule")
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, int64(5), s.ID)
	assert.Equal(t, 2, s.WeekNumber)
	assert.Equal(t, "18:00", s.Time)
	assert.Equal(t, "Go", s.Subject)
	assert.Equal(t, "Interfaces", s.Topic)
	assert.Equal(t, "https://teams.example.com/m", s.MeetingLink)
	assert.Equal(t, "2026-09-14", s.DateString())
	assert.Nil(t, s.SwappedMentorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryPrefersCanonicalColumns(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "week_number", "session_number", "date", "time", "subject_name", "subject_topic",
		"teams_meeting_link", "mentor_id", "swapped_mentor_id",
	}).AddRow(
		int64(1), int64(1), int64(1), time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		"10:00", "SQL", "Joins", "https://teams.example.com/x", int64(42), int64(7),
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM sigma4_schedule")).WillReturnRows(rows)

	sessions, err := repo.ListByTable(context.Background(), "sigma4_schedule")
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, "10:00", s.Time)
	assert.Equal(t, "SQL", s.Subject)
	require.NotNil(t, s.SwappedMentorID)
	assert.Equal(t, int64(7), *s.SwappedMentorID)
	assert.True(t, s.Swapped())
}

func TestSessionRepositoryRejectsBadTableName(t *testing.T) {
	db, _, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	_, err := repo.ListByTable(context.Background(), "mentor_details; DROP TABLE mentor_details")
	require.Error(t, err)

	_, err = repo.ListPastAssigned(context.Background(), "NotASchedule", 42, time.Now())
	require.Error(t, err)

	err = repo.ApplyMove(context.Background(), "1bad_schedule", 1, "2026-09-14", "Monday", nil)
	require.Error(t, err)
}

func TestSessionRepositoryListPastAssigned(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "week_number", "session_number", "date", "time", "mentor_id"}).
		AddRow(int64(1), int64(1), int64(1), "2026-08-01", "10:00", int64(42))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM basic1_schedule WHERE mentor_id = $1 AND date < $2")).
		WithArgs(int64(42), "2026-08-31").
		WillReturnRows(rows)

	cutoff := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	sessions, err := repo.ListPastAssigned(context.Background(), "basic1_schedule", 42, cutoff)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryApplyMoveWithTime(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE basic1_schedule SET date = $1, day = $2, time = $3, teams_meeting_link = NULL WHERE id = $4")).
		WithArgs("2026-09-15", "Tuesday", "11:00", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	newTime := "11:00"
	err := repo.ApplyMove(context.Background(), "basic1_schedule", 5, "2026-09-15", "Tuesday", &newTime)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryApplyMoveKeepsTime(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE basic1_schedule SET date = $1, day = $2, teams_meeting_link = NULL WHERE id = $3")).
		WithArgs("2026-09-15", "Tuesday", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ApplyMove(context.Background(), "basic1_schedule", 5, "2026-09-15", "Tuesday", nil)
	require.NoError(t, err)
}

func TestSessionRepositoryApplyMoveMissingRow(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE basic1_schedule SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ApplyMove(context.Background(), "basic1_schedule", 99, "2026-09-15", "Tuesday", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSessionRepositoryUpdateFieldWhitelist(t *testing.T) {
	db, _, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	err := repo.UpdateField(context.Background(), "basic1_schedule", 5, "mentor_id", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldNotAllowed))
}

func TestSessionRepositoryUpdateField(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	value := "Recursion"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE basic1_schedule SET subject_topic = $1 WHERE id = $2")).
		WithArgs(value, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateField(context.Background(), "basic1_schedule", 5, "subject_topic", &value))
	assert.NoError(t, mock.ExpectationsWereMet())
}
