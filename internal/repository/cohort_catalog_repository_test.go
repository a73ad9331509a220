package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTableName(t *testing.T) {
	valid := []string{"basic1_schedule", "basic1_1_schedule", "launchpad_schedule"}
	for _, name := range valid {
		assert.True(t, ValidTableName(name), name)
	}

	invalid := []string{
		"",
		"schedule",
		"1basic_schedule",
		"Basic1_schedule",
		"basic1_schedule; DROP TABLE mentors",
		"basic1-schedule",
		"mentor_details",
	}
	for _, name := range invalid {
		assert.False(t, ValidTableName(name), name)
	}
}

func TestCohortCatalogListTables(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewCohortCatalogRepository(sqlx.NewDb(db, "sqlmock"))

	rows := sqlmock.NewRows([]string{"table_name"}).
		AddRow("basic1_1_schedule").
		AddRow("sigma4_schedule").
		AddRow("Wonky Name_schedule")
	mock.ExpectQuery("SELECT table_name FROM information_schema.tables").WillReturnRows(rows)

	tables, err := repo.ListTables(context.Background())
	require.NoError(t, err)
	// Malformed names are filtered out even if the schema query returns them.
	assert.Equal(t, []string{"basic1_1_schedule", "sigma4_schedule"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}
