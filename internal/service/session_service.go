package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-dash-api/internal/dto"
	"github.com/mentorhub/mentor-dash-api/internal/models"
	"github.com/mentorhub/mentor-dash-api/internal/repository"
	"github.com/mentorhub/mentor-dash-api/pkg/config"
	apperrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
)

type sessionCohortCatalog interface {
	ListTables(ctx context.Context) ([]string, error)
}

type sessionStore interface {
	ListOnDates(ctx context.Context, table string, mentorID int64, dates []string) ([]models.SessionRecord, error)
	FindByDateTime(ctx context.Context, table, date, timeValue string) (*models.SessionRecord, error)
	AppendMaterial(ctx context.Context, table string, id int64, material string) error
}

// SessionService builds a mentor's cross-cohort upcoming feed and serves
// session details and material updates.
type SessionService struct {
	catalog  sessionCohortCatalog
	sessions sessionStore
	cache    *CacheService
	metrics  *MetricsService
	validate *validator.Validate
	logger   *zap.Logger
	cfg      config.SessionsConfig
	loc      *time.Location
}

func NewSessionService(catalog sessionCohortCatalog, sessions sessionStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg config.SessionsConfig, loc *time.Location) *SessionService {
	return &SessionService{
		catalog:  catalog,
		sessions: sessions,
		cache:    cache,
		metrics:  metrics,
		validate: validator.New(),
		logger:   logger,
		cfg:      cfg,
		loc:      loc,
	}
}

// Upcoming assembles the mentor's sessions for the next N days across every
// cohort timeline, grouped by date. A cohort whose query fails is skipped
// so one bad table cannot blank the whole feed.
func (s *SessionService) Upcoming(ctx context.Context, mentorID int64, days int) (*dto.SessionFeedResponse, error) {
	if mentorID <= 0 {
		return nil, apperrors.Clone(apperrors.ErrValidation, "mentor_id is required and must be a positive integer")
	}
	if days <= 0 {
		days = s.cfg.DefaultDaysAhead
	}
	// The feed route is open; the caller must not get to size the date
	// list or the per-cohort IN clause.
	if max := s.cfg.MaxDaysAhead; max > 0 && days > max {
		days = max
	}

	cacheKey := fmt.Sprintf("sessions:feed:%d:%d", mentorID, days)
	var cached dto.SessionFeedResponse
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	now := time.Now().In(s.loc)
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format(models.DateOnly))
	}

	tables, err := s.catalog.ListTables(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to list cohort timelines")
	}

	var items []dto.SessionFeedItem
	for _, table := range tables {
		rows, err := s.sessions.ListOnDates(ctx, table, mentorID, dates)
		if err != nil {
			s.metrics.RecordTimelineSkip()
			s.logger.Error("cohort timeline skipped in upcoming feed",
				zap.String("table", table),
				zap.Int64("mentor_id", mentorID),
				zap.Error(err),
			)
			continue
		}
		batchName := FormatBatchName(table)
		for _, row := range rows {
			items = append(items, dto.SessionFeedItem{
				ID:          fmt.Sprintf("%s-%d", table, row.ID),
				Date:        row.DateString(),
				Day:         row.Day,
				Time:        row.Time,
				Subject:     row.Subject,
				Topic:       row.Topic,
				BatchName:   batchName,
				TableName:   table,
				MeetingLink: row.MeetingLink,
				MentorID:    row.MentorID,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return earlierClock(items[i].Time, items[j].Time)
	})

	resp := &dto.SessionFeedResponse{
		Sessions:       items,
		SessionsByDate: make(map[string][]dto.SessionFeedItem),
	}
	for _, item := range items {
		if !containsDate(resp.Dates, item.Date) {
			resp.Dates = append(resp.Dates, item.Date)
		}
		resp.SessionsByDate[item.Date] = append(resp.SessionsByDate[item.Date], item)
	}

	today := dates[0]
	resp.TodaySessions = resp.SessionsByDate[today]
	if len(resp.TodaySessions) > 0 {
		first := resp.TodaySessions[0]
		resp.TodaySession = &first
	}

	s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL)
	return resp, nil
}

// Details looks up one session by cohort table, date and time.
func (s *SessionService) Details(ctx context.Context, tableName, date, timeValue string) (*dto.SessionDetailResponse, error) {
	if !repository.ValidTableName(tableName) {
		return nil, apperrors.Clone(apperrors.ErrValidation, "invalid cohort table name")
	}
	if date == "" || timeValue == "" {
		return nil, apperrors.Clone(apperrors.ErrValidation, "date and time are required")
	}

	row, err := s.sessions.FindByDateTime(ctx, tableName, date, timeValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "session not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to load session")
	}

	return &dto.SessionDetailResponse{
		ID:            row.ID,
		WeekNumber:    row.WeekNumber,
		SessionNumber: row.SessionNumber,
		Date:          row.DateString(),
		Time:          row.Time,
		Day:           row.Day,
		SessionType:   row.SessionType,
		SubjectType:   row.SubjectType,
		SubjectName:   row.Subject,
		SubjectTopic:  row.Topic,
		Recording:     row.Recording,
		MeetingLink:   row.MeetingLink,
		MentorID:      row.MentorID,
		MaterialLinks: row.MaterialLinks(),
	}, nil
}

// AddMaterials appends links to a session's material column, skipping
// duplicates, and returns the full link list.
func (s *SessionService) AddMaterials(ctx context.Context, req dto.AddMaterialRequest) ([]string, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Clone(apperrors.ErrValidation, "tableName, date, time and at least one link are required")
	}
	if !repository.ValidTableName(req.TableName) {
		return nil, apperrors.Clone(apperrors.ErrValidation, "invalid cohort table name")
	}

	row, err := s.sessions.FindByDateTime(ctx, req.TableName, req.Date, req.Time)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "session not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to load session")
	}

	links := row.MaterialLinks()
	seen := make(map[string]struct{}, len(links))
	for _, link := range links {
		seen[link] = struct{}{}
	}
	for _, link := range req.NewLinks {
		trimmed := strings.TrimSpace(link)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		links = append(links, trimmed)
	}

	if err := s.sessions.AppendMaterial(ctx, req.TableName, row.ID, strings.Join(links, "\n")); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to save session material")
	}

	s.cache.Invalidate(ctx, "sessions:*")
	s.logger.Info("session material updated",
		zap.String("table", req.TableName),
		zap.Int64("session_id", row.ID),
		zap.Int64("actor_mentor_id", req.ActorMentorID),
	)
	return links, nil
}

// earlierClock orders two time strings, parseable clock values first.
func earlierClock(a, b string) bool {
	am, aok := clockMinutes(a)
	bm, bok := clockMinutes(b)
	switch {
	case aok && bok:
		return am < bm
	case aok:
		return true
	case bok:
		return false
	default:
		return a < b
	}
}
