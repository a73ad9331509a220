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

type materialWrite struct {
	table    string
	id       int64
	material string
}

type stubSessionStore struct {
	onDates    map[string][]models.SessionRecord
	failTables map[string]bool
	detail     *models.SessionRecord
	materials  []materialWrite
	datesSeen  [][]string
}

func (s *stubSessionStore) ListOnDates(ctx context.Context, table string, mentorID int64, dates []string) ([]models.SessionRecord, error) {
	s.datesSeen = append(s.datesSeen, dates)
	if s.failTables[table] {
		return nil, errors.New("relation does not exist")
	}
	return s.onDates[table], nil
}

func (s *stubSessionStore) FindByDateTime(ctx context.Context, table, date, timeValue string) (*models.SessionRecord, error) {
	if s.detail == nil {
		return nil, sql.ErrNoRows
	}
	cp := *s.detail
	return &cp, nil
}

func (s *stubSessionStore) AppendMaterial(ctx context.Context, table string, id int64, material string) error {
	s.materials = append(s.materials, materialWrite{table: table, id: id, material: material})
	return nil
}

func newTestSessionService(catalog *stubCatalog, store *stubSessionStore) *SessionService {
	logger := zap.NewNop()
	return NewSessionService(catalog, store, NewCacheService(nil, nil, logger), nil, logger, config.SessionsConfig{DefaultDaysAhead: 5, MaxDaysAhead: 30, CacheTTL: time.Minute}, time.UTC)
}

func todayUTC(offset int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestUpcomingGroupsAndSorts(t *testing.T) {
	store := &stubSessionStore{onDates: map[string][]models.SessionRecord{
		"basic1_1_schedule": {
			{ID: 1, Date: todayUTC(0), Time: "18:00", Subject: "Go", MentorID: 42},
			{ID: 2, Date: todayUTC(1), Time: "10:00", Subject: "SQL", MentorID: 42},
		},
		"sigma4_schedule": {
			{ID: 9, Date: todayUTC(0), Time: "09:00", Subject: "Systems", MentorID: 42},
		},
	}}
	svc := newTestSessionService(&stubCatalog{tables: []string{"basic1_1_schedule", "sigma4_schedule"}}, store)

	feed, err := svc.Upcoming(context.Background(), 42, 0)
	require.NoError(t, err)

	require.Len(t, feed.Sessions, 3)
	assert.Equal(t, "Systems", feed.Sessions[0].Subject)
	assert.Equal(t, "Go", feed.Sessions[1].Subject)
	assert.Equal(t, "SQL", feed.Sessions[2].Subject)

	today := todayUTC(0).Format(models.DateOnly)
	assert.Equal(t, []string{today, todayUTC(1).Format(models.DateOnly)}, feed.Dates)
	assert.Len(t, feed.SessionsByDate[today], 2)

	require.NotNil(t, feed.TodaySession)
	assert.Equal(t, "sigma4_schedule-9", feed.TodaySession.ID)
	assert.Equal(t, "Sigma 4", feed.TodaySession.BatchName)
}

func TestUpcomingSkipsFailingCohort(t *testing.T) {
	store := &stubSessionStore{
		failTables: map[string]bool{"broken_schedule": true},
		onDates: map[string][]models.SessionRecord{
			"basic1_schedule": {{ID: 1, Date: todayUTC(2), Time: "10:00", MentorID: 42}},
		},
	}
	svc := newTestSessionService(&stubCatalog{tables: []string{"broken_schedule", "basic1_schedule"}}, store)

	feed, err := svc.Upcoming(context.Background(), 42, 0)
	require.NoError(t, err)
	assert.Len(t, feed.Sessions, 1)
	assert.Nil(t, feed.TodaySession)
}

func TestUpcomingClampsDaysToConfiguredMax(t *testing.T) {
	store := &stubSessionStore{}
	svc := newTestSessionService(&stubCatalog{tables: []string{"basic1_schedule"}}, store)

	_, err := svc.Upcoming(context.Background(), 42, 100000000)
	require.NoError(t, err)

	require.Len(t, store.datesSeen, 1)
	assert.Len(t, store.datesSeen[0], 30)
	assert.Equal(t, todayUTC(0).Format(models.DateOnly), store.datesSeen[0][0])
}

func TestUpcomingRequiresMentorID(t *testing.T) {
	svc := newTestSessionService(&stubCatalog{}, &stubSessionStore{})

	_, err := svc.Upcoming(context.Background(), 0, 5)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation.Code, apperrors.FromError(err).Code)
}

func TestDetailsMapsMaterialLinks(t *testing.T) {
	store := &stubSessionStore{detail: &models.SessionRecord{
		ID:         7,
		WeekNumber: 3,
		Date:       todayUTC(1),
		Time:       "18:00",
		Subject:    "Go",
		Material:   "https://a.example.com\nhttps://b.example.com",
		MentorID:   42,
	}}
	svc := newTestSessionService(&stubCatalog{}, store)

	detail, err := svc.Details(context.Background(), "basic1_schedule", todayUTC(1).Format(models.DateOnly), "18:00")
	require.NoError(t, err)
	assert.Equal(t, int64(7), detail.ID)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, detail.MaterialLinks)
}

func TestDetailsNotFound(t *testing.T) {
	svc := newTestSessionService(&stubCatalog{}, &stubSessionStore{})

	_, err := svc.Details(context.Background(), "basic1_schedule", "2026-09-01", "18:00")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound.Code, apperrors.FromError(err).Code)
}

func TestAddMaterialsSkipsDuplicates(t *testing.T) {
	store := &stubSessionStore{detail: &models.SessionRecord{
		ID:       7,
		Material: "https://a.example.com",
	}}
	svc := newTestSessionService(&stubCatalog{}, store)

	links, err := svc.AddMaterials(context.Background(), dto.AddMaterialRequest{
		TableName: "basic1_schedule",
		Date:      "2026-09-01",
		Time:      "18:00",
		NewLinks:  []string{"https://a.example.com", "https://b.example.com", "  "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, links)

	require.Len(t, store.materials, 1)
	assert.Equal(t, "https://a.example.com\nhttps://b.example.com", store.materials[0].material)
	assert.Equal(t, int64(7), store.materials[0].id)
}
