// Package timeline imposes the canonical ordering on a cohort's sessions
// and answers neighbor queries. All functions are pure; callers hand in the
// unordered session set for one cohort table.
package timeline

import (
	"sort"

	"github.com/mentorhub/mentor-dash-api/internal/models"
)

// Order returns the sessions sorted by (week_number, session_number)
// ascending. The sort is stable, so unexpected ties keep their input order
// instead of flapping between runs.
func Order(sessions []models.SessionRecord) []models.SessionRecord {
	ordered := make([]models.SessionRecord, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].WeekNumber != ordered[j].WeekNumber {
			return ordered[i].WeekNumber < ordered[j].WeekNumber
		}
		return ordered[i].SessionNumber < ordered[j].SessionNumber
	})
	return ordered
}

// Previous returns the session immediately before the given id in the
// ordered timeline, or nil when the id is first or unknown.
func Previous(sessions []models.SessionRecord, sessionID int64) *models.SessionRecord {
	ordered := Order(sessions)
	idx := indexOf(ordered, sessionID)
	if idx <= 0 {
		return nil
	}
	prev := ordered[idx-1]
	return &prev
}

// Next returns the session immediately after the given id in the ordered
// timeline, or nil when the id is last or unknown.
func Next(sessions []models.SessionRecord, sessionID int64) *models.SessionRecord {
	ordered := Order(sessions)
	idx := indexOf(ordered, sessionID)
	if idx < 0 || idx >= len(ordered)-1 {
		return nil
	}
	next := ordered[idx+1]
	return &next
}

// OccupiedDates collects the calendar dates already taken by sessions other
// than the one identified by excludeID.
func OccupiedDates(sessions []models.SessionRecord, excludeID int64) map[string]struct{} {
	occupied := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		if s.ID == excludeID || s.Date.IsZero() {
			continue
		}
		occupied[s.DateString()] = struct{}{}
	}
	return occupied
}

func indexOf(ordered []models.SessionRecord, sessionID int64) int {
	for i, s := range ordered {
		if s.ID == sessionID {
			return i
		}
	}
	return -1
}
