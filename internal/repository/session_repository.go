package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mentorhub/mentor-dash-api/internal/models"
)

// Column fallback chains. Cohort tables were created by hand over many
// months and disagree on a few column names; each canonical field resolves
// through one ordered list, applied exactly once while scanning rows.
var (
	timeColumns    = []string{"time", "start_time"}
	subjectColumns = []string{"subject_name", "subject"}
	topicColumns   = []string{"subject_topic", "topic"}
	linkColumns    = []string{"teams_meeting_link", "meeting_link", "teams_link"}
)

// ErrFieldNotAllowed is returned when a cell update names a column outside
// the whitelist.
var ErrFieldNotAllowed = errors.New("field is not updatable")

// Fields writable through the generic cell-update endpoint.
var updatableFields = map[string]bool{
	"date":               true,
	"time":               true,
	"day":                true,
	"session_material":   true,
	"session_recording":  true,
	"teams_meeting_link": true,
	"swapped_mentor_id":  true,
	"subject_topic":      true,
}

// SessionRepository reads and writes session rows across the per-cohort
// schedule tables. Table names come from the catalog and are re-validated
// here before interpolation; all other values travel as bind parameters.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ListByTable returns every session in one cohort timeline, ordered by
// (week_number, session_number).
func (r *SessionRepository) ListByTable(ctx context.Context, table string) ([]models.SessionRecord, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY week_number ASC, session_number ASC`, table)
	return r.selectSessions(ctx, query)
}

// ListByMentor returns sessions where the mentor is either the primary or
// the swapped mentor, deduplicated by row id.
func (r *SessionRepository) ListByMentor(ctx context.Context, table string, mentorID int64) ([]models.SessionRecord, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT * FROM %s WHERE mentor_id = $1 OR swapped_mentor_id = $1 ORDER BY week_number ASC, session_number ASC`, table)
	return r.selectSessions(ctx, query, mentorID)
}

// ListPastAssigned returns the mentor's assigned sessions dated strictly
// before the cutoff, regardless of recording state.
func (r *SessionRepository) ListPastAssigned(ctx context.Context, table string, mentorID int64, before time.Time) ([]models.SessionRecord, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT * FROM %s WHERE mentor_id = $1 AND date < $2`, table)
	return r.selectSessions(ctx, query, mentorID, before.Format(models.DateOnly))
}

// ListPastCovered returns past sessions the mentor delivered on behalf of
// someone else (rows where they are the swapped mentor).
func (r *SessionRepository) ListPastCovered(ctx context.Context, table string, mentorID int64, before time.Time) ([]models.SessionRecord, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT * FROM %s WHERE swapped_mentor_id = $1 AND date < $2`, table)
	return r.selectSessions(ctx, query, mentorID, before.Format(models.DateOnly))
}

// ListOnDates returns the mentor's assigned sessions falling on any of the
// given calendar dates, ordered by date.
func (r *SessionRepository) ListOnDates(ctx context.Context, table string, mentorID int64, dates []string) ([]models.SessionRecord, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		fmt.Sprintf(`SELECT * FROM %s WHERE mentor_id = ? AND date IN (?) ORDER BY date ASC`, table),
		mentorID, dates,
	)
	if err != nil {
		return nil, fmt.Errorf("build dates query for %s: %w", table, err)
	}
	return r.selectSessions(ctx, r.db.Rebind(query), args...)
}

// FindByDateTime loads the session page's addressing scheme: one row keyed
// by calendar date and start time.
func (r *SessionRepository) FindByDateTime(ctx context.Context, table, date, timeValue string) (*models.SessionRecord, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT * FROM %s WHERE date = $1 AND time = $2`, table)
	sessions, err := r.selectSessions(ctx, query, date, timeValue)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, sql.ErrNoRows
	}
	return &sessions[0], nil
}

// UpdateField patches one whitelisted column of a session row.
func (r *SessionRepository) UpdateField(ctx context.Context, table string, id int64, field string, value *string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if !updatableFields[field] {
		return fmt.Errorf("%w: %q", ErrFieldNotAllowed, field)
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, table, field)
	res, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("update %s.%s: %w", table, field, err)
	}
	return requireRow(res)
}

// ApplyMove writes the full effect of a committed reschedule in a single
// statement: new date, recomputed day, cleared meeting link, and the new
// time when it changed. One statement keeps the field set atomic; partial
// application surfaces as an error rather than a half-moved row.
func (r *SessionRepository) ApplyMove(ctx context.Context, table string, id int64, date, day string, newTime *string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	var (
		res sql.Result
		err error
	)
	if newTime != nil {
		query := fmt.Sprintf(`UPDATE %s SET date = $1, day = $2, time = $3, teams_meeting_link = NULL WHERE id = $4`, table)
		res, err = r.db.ExecContext(ctx, query, date, day, *newTime, id)
	} else {
		query := fmt.Sprintf(`UPDATE %s SET date = $1, day = $2, teams_meeting_link = NULL WHERE id = $3`, table)
		res, err = r.db.ExecContext(ctx, query, date, day, id)
	}
	if err != nil {
		return fmt.Errorf("apply move on %s: %w", table, err)
	}
	return requireRow(res)
}

// AppendMaterial replaces the raw session_material column.
func (r *SessionRepository) AppendMaterial(ctx context.Context, table string, id int64, material string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET session_material = $1 WHERE id = $2`, table)
	res, err := r.db.ExecContext(ctx, query, material, id)
	if err != nil {
		return fmt.Errorf("append material on %s: %w", table, err)
	}
	return requireRow(res)
}

func (r *SessionRepository) selectSessions(ctx context.Context, query string, args ...interface{}) ([]models.SessionRecord, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.SessionRecord
	for rows.Next() {
		raw := map[string]interface{}{}
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, normalizeRow(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return sessions, nil
}

// normalizeRow maps one raw row onto the canonical SessionRecord, resolving
// every legacy column-name variant here and nowhere else.
func normalizeRow(raw map[string]interface{}) models.SessionRecord {
	rec := models.SessionRecord{
		ID:            asInt64(raw["id"]),
		WeekNumber:    int(asInt64(raw["week_number"])),
		SessionNumber: int(asInt64(raw["session_number"])),
		Date:          asDate(raw["date"]),
		Time:          firstString(raw, timeColumns),
		Day:           asString(raw["day"]),
		SessionType:   asString(raw["session_type"]),
		SubjectType:   asString(raw["subject_type"]),
		Subject:       firstString(raw, subjectColumns),
		Topic:         firstString(raw, topicColumns),
		Material:      asString(raw["session_material"]),
		Recording:     asString(raw["session_recording"]),
		MeetingLink:   firstString(raw, linkColumns),
		MentorID:      asInt64(raw["mentor_id"]),
	}
	if swapped := asInt64(raw["swapped_mentor_id"]); swapped != 0 {
		rec.SwappedMentorID = &swapped
	}
	return rec
}

func firstString(raw map[string]interface{}, columns []string) string {
	for _, col := range columns {
		if v := asString(raw[col]); v != "" {
			return v
		}
	}
	return ""
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []byte:
		return strings.TrimSpace(string(s))
	default:
		return ""
	}
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case []byte:
		var out int64
		_, _ = fmt.Sscan(string(n), &out)
		return out
	default:
		return 0
	}
}

func asDate(v interface{}) time.Time {
	switch d := v.(type) {
	case time.Time:
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	case string:
		return parseDate(d)
	case []byte:
		return parseDate(string(d))
	default:
		return time.Time{}
	}
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if len(s) > len(models.DateOnly) {
		s = s[:len(models.DateOnly)]
	}
	t, err := time.Parse(models.DateOnly, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func checkTable(table string) error {
	if !ValidTableName(table) {
		return fmt.Errorf("invalid schedule table name %q", table)
	}
	return nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
