package counter_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)

	return db, mock, func() { _ = sqlDB.Close() }
}

func TestRepository_GetNextValue(t *testing.T) {
	t.Run("returns incremented value", func(t *testing.T) {
		db, mock, closeFn := newGormMock(t)
		defer closeFn()

		mock.ExpectQuery("INSERT INTO counters").
			WithArgs("2026", counter.CounterLeaveRequest).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(7)))

		got, err := counter.NewRepository(db).GetNextValue(context.Background(), "2026", counter.CounterLeaveRequest)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates db error", func(t *testing.T) {
		db, mock, closeFn := newGormMock(t)
		defer closeFn()

		mock.ExpectQuery("INSERT INTO counters").WillReturnError(errors.New("db down"))

		_, err := counter.NewRepository(db).GetNextValue(context.Background(), "2026", counter.CounterLeaveRequest)

		assert.Error(t, err)
	})
}
