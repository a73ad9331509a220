package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-dash-api/internal/dto"
	"github.com/mentorhub/mentor-dash-api/internal/models"
	"github.com/mentorhub/mentor-dash-api/internal/repository"
	"github.com/mentorhub/mentor-dash-api/internal/timeline"
	"github.com/mentorhub/mentor-dash-api/pkg/config"
	apperrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
)

type rescheduleSessionStore interface {
	ListByTable(ctx context.Context, table string) ([]models.SessionRecord, error)
	ApplyMove(ctx context.Context, table string, id int64, date, day string, newTime *string) error
}

// RescheduleService computes legal move windows for a session and commits
// moves. Concurrent moves on the same session are not coordinated here; the
// database's last write wins.
type RescheduleService struct {
	sessions rescheduleSessionStore
	cache    *CacheService
	validate *validator.Validate
	logger   *zap.Logger
	cfg      config.RescheduleConfig
	loc      *time.Location
}

func NewRescheduleService(sessions rescheduleSessionStore, cache *CacheService, logger *zap.Logger, cfg config.RescheduleConfig, loc *time.Location) *RescheduleService {
	return &RescheduleService{
		sessions: sessions,
		cache:    cache,
		validate: validator.New(),
		logger:   logger,
		cfg:      cfg,
		loc:      loc,
	}
}

// Options returns the candidate target dates for moving one session in the
// given direction, plus the time constraint applying to a same-date change.
func (s *RescheduleService) Options(ctx context.Context, tableName string, sessionID int64, direction string) (*dto.RescheduleOptionsResponse, error) {
	if !repository.ValidTableName(tableName) {
		return nil, apperrors.Clone(apperrors.ErrValidation, "invalid cohort table name")
	}
	dir := models.MoveDirection(direction)
	if !dir.Valid() {
		return nil, apperrors.Clone(apperrors.ErrValidation, "direction must be postpone or prepone")
	}
	if sessionID <= 0 {
		return nil, apperrors.Clone(apperrors.ErrValidation, "id must be a positive integer")
	}

	sessions, err := s.sessions.ListByTable(ctx, tableName)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to load cohort timeline")
	}

	current := findSession(sessions, sessionID)
	if current == nil {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "session not found")
	}

	dates := s.candidateDates(sessions, current, dir)
	resp := &dto.RescheduleOptionsResponse{
		Direction:      string(dir),
		CurrentDate:    current.DateString(),
		CurrentTime:    current.Time,
		AvailableDates: dates,
	}
	if _, ok := clockMinutes(current.Time); ok {
		if dir == models.MovePostpone {
			resp.TimeConstraint = fmt.Sprintf("select a time after %s", current.Time)
		} else {
			resp.TimeConstraint = fmt.Sprintf("select a time before %s", current.Time)
		}
	}
	return resp, nil
}

// Move validates and commits a postpone/prepone. The date, recomputed day
// and cleared meeting link land in one statement so a half-applied move can
// not be observed.
func (s *RescheduleService) Move(ctx context.Context, req dto.MoveSessionRequest) (*dto.AppliedMove, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Clone(apperrors.ErrValidation, "tableName, id and a valid direction are required")
	}
	if !repository.ValidTableName(req.TableName) {
		return nil, apperrors.Clone(apperrors.ErrValidation, "invalid cohort table name")
	}
	dir := models.MoveDirection(req.Direction)

	sessions, err := s.sessions.ListByTable(ctx, req.TableName)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to load cohort timeline")
	}
	current := findSession(sessions, req.ID)
	if current == nil {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "session not found")
	}

	dateChanged := req.NewDate != "" && req.NewDate != current.DateString()
	timeChanged := req.NewTime != "" && req.NewTime != current.Time
	if !dateChanged && !timeChanged {
		return nil, apperrors.Clone(apperrors.ErrValidation, "nothing to change")
	}

	targetDate := current.Date
	if dateChanged {
		parsed, err := time.Parse(models.DateOnly, req.NewDate)
		if err != nil {
			return nil, apperrors.Clone(apperrors.ErrValidation, "newDate must be formatted YYYY-MM-DD")
		}
		if !containsDate(s.candidateDates(sessions, current, dir), req.NewDate) {
			return nil, apperrors.Clone(apperrors.ErrConstraint, fmt.Sprintf("%s is not an available %s date for this session", req.NewDate, dir))
		}
		targetDate = parsed
	} else if timeChanged {
		if err := checkSameDateTime(current.Time, req.NewTime, dir); err != nil {
			return nil, err
		}
	}

	var newTime *string
	finalTime := current.Time
	if timeChanged {
		newTime = &req.NewTime
		finalTime = req.NewTime
	}
	dateStr := targetDate.Format(models.DateOnly)
	day := models.DayName(targetDate)

	if err := s.sessions.ApplyMove(ctx, req.TableName, req.ID, dateStr, day, newTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "session not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to apply move")
	}

	s.cache.Invalidate(ctx, "sessions:*")
	s.cache.Invalidate(ctx, "schedule:"+req.TableName+":*")
	s.logger.Info("session rescheduled",
		zap.String("table", req.TableName),
		zap.Int64("session_id", req.ID),
		zap.String("direction", string(dir)),
		zap.String("new_date", dateStr),
	)

	return &dto.AppliedMove{Date: dateStr, Day: day, Time: finalTime, MeetingLink: nil}, nil
}

// candidateDates walks the inclusive window for the direction and drops every
// date another session in the timeline already occupies.
func (s *RescheduleService) candidateDates(sessions []models.SessionRecord, current *models.SessionRecord, dir models.MoveDirection) []string {
	today := s.today()
	fallback := s.cfg.FallbackWindowDays
	if fallback <= 0 {
		fallback = 30
	}

	var lower, upper time.Time
	if dir == models.MovePostpone {
		lower = maxDate(current.Date.AddDate(0, 0, 1), today)
		if next := timeline.Next(sessions, current.ID); next != nil {
			upper = next.Date.AddDate(0, 0, -1)
		} else {
			upper = current.Date.AddDate(0, 0, fallback)
		}
	} else {
		upper = current.Date.AddDate(0, 0, -1)
		if prev := timeline.Previous(sessions, current.ID); prev != nil {
			lower = maxDate(prev.Date.AddDate(0, 0, 1), today)
		} else {
			lower = maxDate(current.Date.AddDate(0, 0, -fallback), today)
		}
	}

	occupied := timeline.OccupiedDates(sessions, current.ID)
	var dates []string
	for d := lower; !d.After(upper); d = d.AddDate(0, 0, 1) {
		key := d.Format(models.DateOnly)
		if _, taken := occupied[key]; taken {
			continue
		}
		dates = append(dates, key)
	}
	return dates
}

func (s *RescheduleService) today() time.Time {
	now := time.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// checkSameDateTime enforces the direction on a time-only change: strictly
// later for postpone, strictly earlier for prepone. Unparseable times (for
// example "TBD") carry no constraint.
func checkSameDateTime(currentTime, newTime string, dir models.MoveDirection) error {
	currentMin, okCurrent := clockMinutes(currentTime)
	newMin, okNew := clockMinutes(newTime)
	if !okCurrent || !okNew {
		return nil
	}
	if dir == models.MovePostpone && newMin <= currentMin {
		return apperrors.Clone(apperrors.ErrConstraint, fmt.Sprintf("new time must be later than %s", currentTime))
	}
	if dir == models.MovePrepone && newMin >= currentMin {
		return apperrors.Clone(apperrors.ErrConstraint, fmt.Sprintf("new time must be earlier than %s", currentTime))
	}
	return nil
}

// clockMinutes parses "HH:MM" (seconds tolerated) into minutes since
// midnight.
func clockMinutes(value string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

func findSession(sessions []models.SessionRecord, id int64) *models.SessionRecord {
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i]
		}
	}
	return nil
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
