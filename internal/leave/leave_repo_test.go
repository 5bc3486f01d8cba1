package leave_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/leave"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)
	return db, mock
}

func TestRepository_HasOverlappingPeriodIgnoresRejected(t *testing.T) {
	db, mock := newGormMock(t)
	userID := uuid.NewString()
	exclude := uuid.NewString()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "leave_requests" WHERE user_id = \$1 AND status <> \$2`).
		WithArgs(userID, leave.StatusRejected, date("2026-03-02"), date("2026-03-04"), exclude).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	overlap, err := leave.NewRepository(db).HasOverlappingPeriod(context.Background(), userID, date("2026-03-02"), date("2026-03-04"), &exclude)

	assert.NoError(t, err)
	assert.True(t, overlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockUser(t *testing.T) {
	t.Run("locks the user row", func(t *testing.T) {
		db, mock := newGormMock(t)
		userID := uuid.NewString()

		mock.ExpectQuery(`SELECT "id" FROM "users" WHERE id = \$1 FOR NO KEY UPDATE`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID))

		err := leave.NewRepository(db).LockUser(context.Background(), userID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		db, mock := newGormMock(t)

		mock.ExpectQuery(`FOR NO KEY UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := leave.NewRepository(db).LockUser(context.Background(), uuid.NewString())

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FindByIDForUpdateLocksRow(t *testing.T) {
	db, mock := newGormMock(t)
	id := uuid.New()

	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference", "status", "total_days", "deducted_days"}).
			AddRow(id.String(), "LR-2026-00007", "approved", 3, 3.0))

	got, err := leave.NewRepository(db).FindByIDForUpdate(context.Background(), id.String())

	assert.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "LR-2026-00007", got.Reference)
	assert.Equal(t, float64(3), got.DeductedDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteMissingRow(t *testing.T) {
	db, mock := newGormMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "leave_requests"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := leave.NewRepository(db).Delete(context.Background(), uuid.NewString())

	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountByStatusScopesUser(t *testing.T) {
	db, mock := newGormMock(t)
	userID := uuid.NewString()

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM "leave_requests" WHERE user_id = \$1 GROUP BY "status"`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 2).
			AddRow("approved", 1))

	counts, err := leave.NewRepository(db).CountByStatus(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, []leave.StatusCount{{Status: "pending", Count: 2}, {Status: "approved", Count: 1}}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
