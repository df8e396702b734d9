package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clans/internal/clan/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var clanColumnNames = []string{"clan_id", "name", "tag", "description", "owner", "join_method", "status", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestPostgresFetchOneBindsNullFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(clanColumnNames).
		AddRow(int64(7), "Alpha", "A", nil, int64(1935), "open", "active", created, created)

	mock.ExpectQuery(`SELECT clan_id, name, tag, description, owner, join_method, status, created_at, updated_at FROM clans WHERE clan_id = COALESCE\(\$1, clan_id\)`).
		WithArgs(nil, "Alpha", nil, nil, "active", false).
		WillReturnRows(rows)

	name := "Alpha"
	got, err := Provide().FetchOne(context.Background(), db, domain.Filter{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snowflake.ID(7), got.ID)
	assert.Nil(t, got.Description)
	assert.Equal(t, int64(1935), got.Owner)
	assert.True(t, created.Equal(got.CreatedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateBindsZeroTimestampsAsNull(t *testing.T) {
	db, mock := setupMockDB(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(clanColumnNames).
		AddRow(int64(7), "Alpha", "A", nil, int64(1935), "open", "active", created, created)

	mock.ExpectQuery(`VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, COALESCE\(\$8, CURRENT_TIMESTAMP\), COALESCE\(\$9, CURRENT_TIMESTAMP\)\)`).
		WithArgs(int64(7), "Alpha", "A", sqlmock.AnyArg(), int64(1935), "open", "active", nil, nil).
		WillReturnRows(rows)

	got, err := Provide().Create(context.Background(), db, &domain.Clan{
		ID:         snowflake.ID(7),
		Name:       "Alpha",
		Tag:        "A",
		Owner:      1935,
		JoinMethod: domain.JoinMethodOpen,
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, created.Equal(got.CreatedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFetchOneNotDeletedScope(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(`ORDER BY clan_id LIMIT 1`).
		WithArgs(nil, nil, nil, int64(42), nil, true).
		WillReturnRows(sqlmock.NewRows(clanColumnNames))

	owner := int64(42)
	got, err := Provide().FetchOne(context.Background(), db, domain.Filter{Owner: &owner, Status: domain.StatusNotDeleted})
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPartialUpdateUsesCaseExpressions(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	created := now.Add(-time.Hour)

	rows := sqlmock.NewRows(clanColumnNames).
		AddRow(int64(7), "Alpha", "NEW", "desc", int64(1935), "open", "active", created, now)

	mock.ExpectQuery(`UPDATE clans SET\s+name = CASE WHEN \$1 THEN \$2 ELSE name END,\s+tag = CASE WHEN \$3 THEN \$4 ELSE tag END`).
		WithArgs(false, nil, true, "NEW", false, nil, false, nil, false, nil, false, nil, now, int64(7)).
		WillReturnRows(rows)

	got, err := Provide().PartialUpdate(context.Background(), db, 7, domain.Update{Tag: domain.Value("NEW")}, now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "NEW", got.Tag)
	assert.True(t, now.Equal(got.UpdatedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDisbandMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE clans SET status = \$1, updated_at = \$2\s+WHERE clan_id = \$3\s+RETURNING`).
		WithArgs("deleted", now, int64(99)).
		WillReturnRows(sqlmock.NewRows(clanColumnNames))

	got, err := Provide().Disband(context.Background(), db, 99, now)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}
