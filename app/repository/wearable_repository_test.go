package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/fromwithin/fromwithin/internal/pkg/wearables"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestWearableUpsert_UsesOnDuplicateKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWearableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `wearable_connections` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	exp := time.Now().Add(time.Hour)
	err := repo.Upsert(context.Background(), &wearables.Credential{
		UserID:       7,
		Provider:     wearables.ProviderFitbit,
		AccessToken:  "t1",
		RefreshToken: "r1",
		ExpiresAt:    &exp,
		Scopes:       []string{"heartrate", "sleep"},
		SourceDevice: "Fitbit",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWearableHasAnyForUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWearableRepository(db)

	rows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `wearable_connections`").WillReturnRows(rows)

	connected, err := repo.HasAnyForUser(7)
	require.NoError(t, err)
	require.True(t, connected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWearableDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewWearableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `wearable_connections`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(7, "oura"))
	require.NoError(t, mock.ExpectationsWereMet())
}
