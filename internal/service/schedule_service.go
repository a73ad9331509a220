package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-dash-api/internal/dto"
	"github.com/mentorhub/mentor-dash-api/internal/models"
	"github.com/mentorhub/mentor-dash-api/internal/repository"
	"github.com/mentorhub/mentor-dash-api/internal/timeline"
	apperrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
)

type scheduleCohortCatalog interface {
	ListTables(ctx context.Context) ([]string, error)
}

type scheduleSessionStore interface {
	ListByTable(ctx context.Context, table string) ([]models.SessionRecord, error)
	ListByMentor(ctx context.Context, table string, mentorID int64) ([]models.SessionRecord, error)
	UpdateField(ctx context.Context, table string, id int64, field string, value *string) error
}

// ScheduleService serves the cohort catalog and raw schedule views, and
// applies single-cell edits.
type ScheduleService struct {
	catalog  scheduleCohortCatalog
	sessions scheduleSessionStore
	validate *validator.Validate
	logger   *zap.Logger
}

func NewScheduleService(catalog scheduleCohortCatalog, sessions scheduleSessionStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		catalog:  catalog,
		sessions: sessions,
		validate: validator.New(),
		logger:   logger,
	}
}

// Cohorts lists every cohort timeline with its display name.
func (s *ScheduleService) Cohorts(ctx context.Context) ([]models.Cohort, error) {
	tables, err := s.catalog.ListTables(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to list cohorts")
	}

	cohorts := make([]models.Cohort, 0, len(tables))
	for _, table := range tables {
		cohorts = append(cohorts, models.Cohort{
			TableName:   table,
			DisplayName: FormatBatchName(table),
		})
	}
	return cohorts, nil
}

// Schedule returns one cohort's timeline in week/session order, optionally
// narrowed to rows a mentor appears on.
func (s *ScheduleService) Schedule(ctx context.Context, tableName string, mentorID int64) ([]models.SessionRecord, error) {
	if !repository.ValidTableName(tableName) {
		return nil, apperrors.Clone(apperrors.ErrValidation, "invalid cohort table name")
	}

	var sessions []models.SessionRecord
	var err error
	if mentorID > 0 {
		sessions, err = s.sessions.ListByMentor(ctx, tableName, mentorID)
	} else {
		sessions, err = s.sessions.ListByTable(ctx, tableName)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to load schedule")
	}
	return timeline.Order(sessions), nil
}

// UpdateCell patches one whitelisted field of one schedule row.
func (s *ScheduleService) UpdateCell(ctx context.Context, req dto.UpdateCellRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return apperrors.Clone(apperrors.ErrValidation, "tableName, id and field are required")
	}
	if !repository.ValidTableName(req.TableName) {
		return apperrors.Clone(apperrors.ErrValidation, "invalid cohort table name")
	}

	err := s.sessions.UpdateField(ctx, req.TableName, req.ID, req.Field, req.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.Clone(apperrors.ErrNotFound, "session not found")
		}
		if errors.Is(err, repository.ErrFieldNotAllowed) {
			return apperrors.Clone(apperrors.ErrValidation, "field is not editable")
		}
		return apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to update schedule")
	}

	s.logger.Info("schedule cell updated",
		zap.String("table", req.TableName),
		zap.Int64("session_id", req.ID),
		zap.String("field", req.Field),
	)
	return nil
}

// FormatBatchName derives a display name from a schedule table name:
// "basic1_1_schedule" becomes "Basic 1.1".
func FormatBatchName(tableName string) string {
	name := strings.TrimSuffix(tableName, "_schedule")

	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_':
			b.WriteRune('.')
		case i > 0 && unicode.IsDigit(r) && unicode.IsLetter(runes[i-1]):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	out := b.String()
	if out == "" {
		return out
	}
	return strings.ToUpper(out[:1]) + out[1:]
}
