package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-dash-api/internal/dto"
	"github.com/mentorhub/mentor-dash-api/internal/models"
	"github.com/mentorhub/mentor-dash-api/pkg/config"
	apperrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
	"github.com/mentorhub/mentor-dash-api/pkg/export"
	"github.com/mentorhub/mentor-dash-api/pkg/jobs"
)

const attendanceListCacheKey = "attendance:list"

type attendanceMentorDirectory interface {
	FindByID(ctx context.Context, mentorID int64) (*models.Mentor, error)
	ListIDs(ctx context.Context) ([]int64, error)
}

type attendanceCohortCatalog interface {
	ListTables(ctx context.Context) ([]string, error)
}

type attendanceTimelineReader interface {
	ListPastAssigned(ctx context.Context, table string, mentorID int64, before time.Time) ([]models.SessionRecord, error)
	ListPastCovered(ctx context.Context, table string, mentorID int64, before time.Time) ([]models.SessionRecord, error)
}

type attendanceSummaryStore interface {
	Upsert(ctx context.Context, summary *models.MentorAttendance) error
	List(ctx context.Context) ([]models.MentorAttendance, error)
}

// AttendanceService recomputes per-mentor attendance summaries from the
// cohort schedule timelines and persists them in the main database.
type AttendanceService struct {
	mentors   attendanceMentorDirectory
	catalog   attendanceCohortCatalog
	timelines attendanceTimelineReader
	summaries attendanceSummaryStore
	cache     *CacheService
	metrics   *MetricsService
	validate  *validator.Validate
	logger    *zap.Logger
	cfg       config.AttendanceConfig

	queue *jobs.Queue
}

func NewAttendanceService(
	mentors attendanceMentorDirectory,
	catalog attendanceCohortCatalog,
	timelines attendanceTimelineReader,
	summaries attendanceSummaryStore,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg config.AttendanceConfig,
) *AttendanceService {
	return &AttendanceService{
		mentors:   mentors,
		catalog:   catalog,
		timelines: timelines,
		summaries: summaries,
		cache:     cache,
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger,
		cfg:       cfg,
	}
}

// SetRecomputeQueue attaches the background queue used by RecomputeAll. The
// queue's handler is HandleRecomputeJob, so wiring happens after both exist.
func (s *AttendanceService) SetRecomputeQueue(q *jobs.Queue) {
	s.queue = q
}

// Compute recalculates one mentor's summary across every cohort timeline and
// upserts the result.
func (s *AttendanceService) Compute(ctx context.Context, req dto.ComputeAttendanceRequest) (*dto.AttendanceData, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Clone(apperrors.ErrValidation, "mentorId is required and must be a positive integer")
	}
	return s.computeMentor(ctx, req.MentorID)
}

func (s *AttendanceService) computeMentor(ctx context.Context, mentorID int64) (*dto.AttendanceData, error) {
	mentor, err := s.mentors.FindByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "mentor not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to load mentor")
	}

	tables, err := s.catalog.ListTables(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to list cohort timelines")
	}

	// The cutoff is resolved once per run and held constant across every
	// timeline, so a run that straddles midnight stays self-consistent.
	cutoff := s.cutoffDate()

	var present, absent, special int
	for _, table := range tables {
		assigned, err := s.timelines.ListPastAssigned(ctx, table, mentorID, cutoff)
		if err != nil {
			s.skipTimeline(table, mentorID, "assigned", err)
		} else {
			for _, session := range assigned {
				if classifySession(session) == models.OutcomePresent {
					present++
				} else {
					absent++
				}
			}
		}

		covered, err := s.timelines.ListPastCovered(ctx, table, mentorID, cutoff)
		if err != nil {
			s.skipTimeline(table, mentorID, "covered", err)
			continue
		}
		for _, session := range covered {
			if session.HasRecording() {
				special++
			}
		}
	}

	total := present + absent
	summary := &models.MentorAttendance{
		MentorID:          mentorID,
		Name:              mentor.DisplayName(),
		Email:             mentor.Email,
		TotalClasses:      total,
		Present:           present,
		Absent:            absent,
		SpecialAttendance: special,
		AttendancePercent: attendancePercent(present, total),
		UpdatedAt:         time.Now().UTC(),
	}

	start := time.Now()
	err = s.summaries.Upsert(ctx, summary)
	s.metrics.ObserveDBQuery("attendance_upsert", time.Since(start))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to save attendance summary")
	}

	s.cache.Invalidate(ctx, "attendance:*")
	s.metrics.RecordRecompute()
	s.logger.Info("attendance summary recomputed",
		zap.Int64("mentor_id", mentorID),
		zap.Int("total_classes", total),
		zap.Int("present", present),
		zap.Int("special", special),
	)

	return summaryData(summary), nil
}

// Leaderboard returns every stored summary ordered by attendance percent.
func (s *AttendanceService) Leaderboard(ctx context.Context) ([]dto.AttendanceData, error) {
	var cached []dto.AttendanceData
	if s.cache.Get(ctx, attendanceListCacheKey, &cached) {
		return cached, nil
	}

	start := time.Now()
	rows, err := s.summaries.List(ctx)
	s.metrics.ObserveDBQuery("attendance_list", time.Since(start))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to load attendance summaries")
	}

	data := make([]dto.AttendanceData, 0, len(rows))
	for i := range rows {
		data = append(data, *summaryData(&rows[i]))
	}
	s.cache.Set(ctx, attendanceListCacheKey, data, s.cfg.CacheTTL)
	return data, nil
}

// Export renders the stored summaries as csv or pdf.
func (s *AttendanceService) Export(ctx context.Context, format string) ([]byte, string, string, error) {
	rows, err := s.summaries.List(ctx)
	if err != nil {
		return nil, "", "", apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to load attendance summaries")
	}

	dataset := export.Dataset{
		Headers: []string{"Mentor ID", "Name", "Email", "Total Classes", "Present", "Absent", "Special", "Attendance %"},
	}
	for _, row := range rows {
		email := ""
		if row.Email != nil {
			email = *row.Email
		}
		dataset.Rows = append(dataset.Rows, []string{
			fmt.Sprintf("%d", row.MentorID),
			row.Name,
			email,
			fmt.Sprintf("%d", row.TotalClasses),
			fmt.Sprintf("%d", row.Present),
			fmt.Sprintf("%d", row.Absent),
			fmt.Sprintf("%d", row.SpecialAttendance),
			fmt.Sprintf("%.2f", row.AttendancePercent),
		})
	}

	switch format {
	case "csv", "":
		body, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", "", apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to render export")
		}
		return body, "text/csv", "mentor-attendance.csv", nil
	case "pdf":
		body, err := export.NewPDFExporter().Render(dataset, "Mentor Attendance")
		if err != nil {
			return nil, "", "", apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to render export")
		}
		return body, "application/pdf", "mentor-attendance.pdf", nil
	default:
		return nil, "", "", apperrors.Clone(apperrors.ErrValidation, "format must be csv or pdf")
	}
}

// RecomputeAll enqueues a recompute job for every known mentor and returns
// the number of jobs queued.
func (s *AttendanceService) RecomputeAll(ctx context.Context) (int, error) {
	if s.queue == nil {
		return 0, apperrors.Clone(apperrors.ErrInternal, "recompute queue is not configured")
	}

	ids, err := s.mentors.ListIDs(ctx)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "failed to list mentors")
	}

	queued := 0
	for _, id := range ids {
		job := jobs.Job{
			ID:      uuid.NewString(),
			Type:    "attendance.recompute",
			Payload: id,
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue recompute job", zap.Int64("mentor_id", id), zap.Error(err))
			continue
		}
		queued++
	}
	return queued, nil
}

// HandleRecomputeJob is the queue handler behind RecomputeAll.
func (s *AttendanceService) HandleRecomputeJob(ctx context.Context, job jobs.Job) error {
	mentorID, ok := job.Payload.(int64)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	_, err := s.computeMentor(ctx, mentorID)
	if err != nil {
		appErr := apperrors.FromError(err)
		// A vanished mentor is terminal; retrying will not bring them back.
		if appErr.Code == apperrors.ErrNotFound.Code {
			s.logger.Warn("skipping recompute for unknown mentor", zap.Int64("mentor_id", mentorID))
			return nil
		}
	}
	return err
}

func (s *AttendanceService) skipTimeline(table string, mentorID int64, queryKind string, err error) {
	s.metrics.RecordTimelineSkip()
	s.logger.Error("cohort timeline skipped during aggregation",
		zap.String("table", table),
		zap.Int64("mentor_id", mentorID),
		zap.String("query", queryKind),
		zap.Error(err),
	)
}

func (s *AttendanceService) cutoffDate() time.Time {
	now := time.Now().In(s.cfg.CutoffLocation())
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// classifySession maps one past assigned session to an outcome. A swapped
// session counts absent for the original mentor no matter what the recording
// column says on that row.
func classifySession(s models.SessionRecord) models.SessionOutcome {
	if s.Swapped() {
		return models.OutcomeAbsent
	}
	if s.HasRecording() {
		return models.OutcomePresent
	}
	return models.OutcomeAbsent
}

// attendancePercent computes present/total as a percentage rounded half-up
// to two decimals.
func attendancePercent(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Floor(float64(present)/float64(total)*100*100+0.5) / 100
}

func summaryData(m *models.MentorAttendance) *dto.AttendanceData {
	return &dto.AttendanceData{
		MentorID:          m.MentorID,
		Name:              m.Name,
		Email:             m.Email,
		TotalClasses:      m.TotalClasses,
		Present:           m.Present,
		Absent:            m.Absent,
		SpecialAttendance: m.SpecialAttendance,
		AttendancePercent: m.AttendancePercent,
	}
}
