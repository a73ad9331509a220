package repository

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
)

// Cohort schedule tables are created per batch (basic1_1_schedule,
// advanced2_schedule, ...). The catalog discovers them instead of hardcoding
// names, and every dynamic identifier is validated against this pattern
// before it is ever interpolated into SQL.
var scheduleTablePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*_schedule$`)

// ValidTableName reports whether name is a well-formed cohort schedule
// table identifier.
func ValidTableName(name string) bool {
	return scheduleTablePattern.MatchString(name)
}

// CohortCatalogRepository lists the cohort timeline tables known to the
// cohort database.
type CohortCatalogRepository struct {
	db *sqlx.DB
}

// NewCohortCatalogRepository creates a catalog repository.
func NewCohortCatalogRepository(db *sqlx.DB) *CohortCatalogRepository {
	return &CohortCatalogRepository{db: db}
}

// ListTables returns the schedule table names in the public schema, sorted
// for stable iteration order.
func (r *CohortCatalogRepository) ListTables(ctx context.Context) ([]string, error) {
	const query = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_name LIKE '%\_schedule' ORDER BY table_name`
	var names []string
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("list schedule tables: %w", err)
	}

	tables := names[:0]
	for _, name := range names {
		if ValidTableName(name) {
			tables = append(tables, name)
		}
	}
	return tables, nil
}
