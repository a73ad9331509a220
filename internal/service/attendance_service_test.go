package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-dash-api/internal/dto"
	"github.com/mentorhub/mentor-dash-api/internal/models"
	"github.com/mentorhub/mentor-dash-api/pkg/config"
	apperrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
)

type stubMentorDirectory struct {
	mentors map[int64]*models.Mentor
	ids     []int64
	findErr error
}

func (m *stubMentorDirectory) FindByID(ctx context.Context, mentorID int64) (*models.Mentor, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if mentor, ok := m.mentors[mentorID]; ok {
		cp := *mentor
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubMentorDirectory) ListIDs(ctx context.Context) ([]int64, error) {
	return m.ids, nil
}

type stubCatalog struct {
	tables []string
	err    error
}

func (c *stubCatalog) ListTables(ctx context.Context) ([]string, error) {
	return c.tables, c.err
}

type stubTimelineReader struct {
	assigned map[string][]models.SessionRecord
	covered  map[string][]models.SessionRecord
	fail     map[string]bool
}

func (r *stubTimelineReader) ListPastAssigned(ctx context.Context, table string, mentorID int64, before time.Time) ([]models.SessionRecord, error) {
	if r.fail[table] {
		return nil, errors.New("relation does not exist")
	}
	return r.assigned[table], nil
}

func (r *stubTimelineReader) ListPastCovered(ctx context.Context, table string, mentorID int64, before time.Time) ([]models.SessionRecord, error) {
	if r.fail[table] {
		return nil, errors.New("relation does not exist")
	}
	return r.covered[table], nil
}

type stubSummaryStore struct {
	upserts []models.MentorAttendance
	rows    []models.MentorAttendance
	listErr error
}

func (s *stubSummaryStore) Upsert(ctx context.Context, summary *models.MentorAttendance) error {
	s.upserts = append(s.upserts, *summary)
	return nil
}

func (s *stubSummaryStore) List(ctx context.Context) ([]models.MentorAttendance, error) {
	return s.rows, s.listErr
}

func newTestAttendanceService(mentors *stubMentorDirectory, catalog *stubCatalog, timelines *stubTimelineReader, store *stubSummaryStore) *AttendanceService {
	logger := zap.NewNop()
	return NewAttendanceService(
		mentors, catalog, timelines, store,
		NewCacheService(nil, nil, logger),
		nil,
		logger,
		config.AttendanceConfig{CutoffOffset: "+05:30", CacheTTL: time.Minute},
	)
}

func recorded(id int64) models.SessionRecord {
	return models.SessionRecord{ID: id, Recording: "https://rec.example.com/" + string(rune('a'+id))}
}

func swapped(id, swapTo int64) models.SessionRecord {
	return models.SessionRecord{ID: id, SwappedMentorID: &swapTo}
}

func TestComputeClassifiesSessions(t *testing.T) {
	assigned := []models.SessionRecord{
		recorded(1), recorded(2), recorded(3), recorded(4), recorded(5), recorded(6), recorded(7),
		swapped(8, 99), swapped(9, 99), swapped(10, 99),
	}
	// A swapped session keeps absent even when a recording exists on the row.
	assigned[7].Recording = "https://rec.example.com/covered"

	mentors := &stubMentorDirectory{mentors: map[int64]*models.Mentor{42: {MentorID: 42, Name: "Asha"}}}
	store := &stubSummaryStore{}
	svc := newTestAttendanceService(
		mentors,
		&stubCatalog{tables: []string{"basic1_schedule"}},
		&stubTimelineReader{assigned: map[string][]models.SessionRecord{"basic1_schedule": assigned}},
		store,
	)

	data, err := svc.Compute(context.Background(), dto.ComputeAttendanceRequest{MentorID: 42})
	require.NoError(t, err)

	assert.Equal(t, 7, data.Present)
	assert.Equal(t, 3, data.Absent)
	assert.Equal(t, 10, data.TotalClasses)
	assert.Equal(t, 70.00, data.AttendancePercent)
	assert.Equal(t, "Asha", data.Name)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, int64(42), store.upserts[0].MentorID)
}

func TestComputeZeroPastSessions(t *testing.T) {
	mentors := &stubMentorDirectory{mentors: map[int64]*models.Mentor{42: {MentorID: 42, Name: "Asha"}}}
	store := &stubSummaryStore{}
	svc := newTestAttendanceService(
		mentors,
		&stubCatalog{tables: []string{"basic1_schedule"}},
		&stubTimelineReader{},
		store,
	)

	data, err := svc.Compute(context.Background(), dto.ComputeAttendanceRequest{MentorID: 42})
	require.NoError(t, err)

	assert.Equal(t, 0, data.TotalClasses)
	assert.Equal(t, 0, data.Present)
	assert.Equal(t, 0, data.Absent)
	assert.Equal(t, 0.0, data.AttendancePercent)
	require.Len(t, store.upserts, 1)
}

func TestComputeSpecialAttendanceStaysOutOfDenominator(t *testing.T) {
	covered := []models.SessionRecord{
		{ID: 20, MentorID: 7, Recording: "https://rec.example.com/x"},
		{ID: 21, MentorID: 7},
	}
	assigned := []models.SessionRecord{recorded(1)}

	mentors := &stubMentorDirectory{mentors: map[int64]*models.Mentor{42: {MentorID: 42, Name: "Asha"}}}
	svc := newTestAttendanceService(
		mentors,
		&stubCatalog{tables: []string{"basic1_schedule"}},
		&stubTimelineReader{
			assigned: map[string][]models.SessionRecord{"basic1_schedule": assigned},
			covered:  map[string][]models.SessionRecord{"basic1_schedule": covered},
		},
		&stubSummaryStore{},
	)

	data, err := svc.Compute(context.Background(), dto.ComputeAttendanceRequest{MentorID: 42})
	require.NoError(t, err)

	// Only the covered session with a recording counts, and total ignores both.
	assert.Equal(t, 1, data.SpecialAttendance)
	assert.Equal(t, 1, data.TotalClasses)
	assert.Equal(t, 100.00, data.AttendancePercent)
}

func TestComputeSkipsFailingTimeline(t *testing.T) {
	mentors := &stubMentorDirectory{mentors: map[int64]*models.Mentor{42: {MentorID: 42, Name: "Asha"}}}
	svc := newTestAttendanceService(
		mentors,
		&stubCatalog{tables: []string{"broken_schedule", "basic1_schedule"}},
		&stubTimelineReader{
			fail:     map[string]bool{"broken_schedule": true},
			assigned: map[string][]models.SessionRecord{"basic1_schedule": {recorded(1), swapped(2, 9)}},
		},
		&stubSummaryStore{},
	)

	data, err := svc.Compute(context.Background(), dto.ComputeAttendanceRequest{MentorID: 42})
	require.NoError(t, err)

	assert.Equal(t, 2, data.TotalClasses)
	assert.Equal(t, 1, data.Present)
	assert.Equal(t, 50.00, data.AttendancePercent)
}

func TestComputeMentorNotFound(t *testing.T) {
	svc := newTestAttendanceService(
		&stubMentorDirectory{},
		&stubCatalog{},
		&stubTimelineReader{},
		&stubSummaryStore{},
	)

	_, err := svc.Compute(context.Background(), dto.ComputeAttendanceRequest{MentorID: 42})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound.Code, apperrors.FromError(err).Code)
}

func TestComputeMentorLookupFailureIsUpstream(t *testing.T) {
	svc := newTestAttendanceService(
		&stubMentorDirectory{findErr: errors.New("connection refused")},
		&stubCatalog{},
		&stubTimelineReader{},
		&stubSummaryStore{},
	)

	_, err := svc.Compute(context.Background(), dto.ComputeAttendanceRequest{MentorID: 42})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUpstream.Code, apperrors.FromError(err).Code)
}

func TestComputeRejectsMissingMentorID(t *testing.T) {
	svc := newTestAttendanceService(&stubMentorDirectory{}, &stubCatalog{}, &stubTimelineReader{}, &stubSummaryStore{})

	_, err := svc.Compute(context.Background(), dto.ComputeAttendanceRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation.Code, apperrors.FromError(err).Code)
}

func TestAttendancePercentRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 0.0, attendancePercent(0, 0))
	assert.Equal(t, 70.00, attendancePercent(7, 10))
	assert.Equal(t, 33.33, attendancePercent(1, 3))
	assert.Equal(t, 66.67, attendancePercent(2, 3))
	// 1/800 is exactly 0.125%, the half-up tie.
	assert.Equal(t, 0.13, attendancePercent(1, 800))
}

func TestLeaderboardMapsRows(t *testing.T) {
	email := "asha@example.com"
	store := &stubSummaryStore{rows: []models.MentorAttendance{
		{MentorID: 42, Name: "Asha", Email: &email, TotalClasses: 10, Present: 7, Absent: 3, AttendancePercent: 70},
	}}
	svc := newTestAttendanceService(&stubMentorDirectory{}, &stubCatalog{}, &stubTimelineReader{}, store)

	data, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, int64(42), data[0].MentorID)
	assert.Equal(t, 70.0, data[0].AttendancePercent)
}

func TestExportCSV(t *testing.T) {
	store := &stubSummaryStore{rows: []models.MentorAttendance{
		{MentorID: 42, Name: "Asha", TotalClasses: 10, Present: 7, Absent: 3, AttendancePercent: 70},
	}}
	svc := newTestAttendanceService(&stubMentorDirectory{}, &stubCatalog{}, &stubTimelineReader{}, store)

	body, contentType, filename, err := svc.Export(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, "mentor-attendance.csv", filename)
	assert.Contains(t, string(body), "Asha")
	assert.Contains(t, string(body), "70.00")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := newTestAttendanceService(&stubMentorDirectory{}, &stubCatalog{}, &stubTimelineReader{}, &stubSummaryStore{})

	_, _, _, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation.Code, apperrors.FromError(err).Code)
}
