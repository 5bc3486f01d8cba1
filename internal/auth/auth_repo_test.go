package auth_test

import (
	"context"
	"testing"

	"go-leave/internal/auth"

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

func TestRepository_GetByIdentifierMatchesUsernameOrEmail(t *testing.T) {
	db, mock := newGormMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE .*username = \$1 OR LOWER\(email\) = LOWER\(\$2\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role"}).
			AddRow(id.String(), "jane", "jane@example.com", "hr"))

	got, err := auth.NewRepository(db).GetByIdentifier(context.Background(), "jane@example.com")

	assert.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "hr", got.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdatePasswordMissingUser(t *testing.T) {
	db, mock := newGormMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "password"=\$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := auth.NewRepository(db).UpdatePassword(context.Background(), uuid.NewString(), "hash")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
