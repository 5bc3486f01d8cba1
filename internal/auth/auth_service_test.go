package auth_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/auth"
	autherrors "go-leave/internal/auth/errors"
	authMock "go-leave/internal/auth/mock"
	"go-leave/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeIssuer struct {
	token string
	err   error
}

func (f fakeIssuer) Issue(user.User) (string, error) {
	return f.token, f.err
}

func storedUser(t *testing.T, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &user.User{
		ID:       uuid.New(),
		Username: "jane",
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: string(hash),
		Role:     "employee",
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	u := storedUser(t, "password123")

	t.Run("by email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, fakeIssuer{token: "signed"})

		repo.EXPECT().GetByIdentifier(gomock.Any(), "jane@example.com").Return(u, nil)

		resp, err := svc.Login(ctx, auth.LoginRequest{Identifier: " jane@example.com ", Password: "password123"})

		assert.NoError(t, err)
		assert.Equal(t, "signed", resp.Token)
		assert.Equal(t, "jane", resp.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, fakeIssuer{token: "signed"})

		repo.EXPECT().GetByIdentifier(gomock.Any(), "jane").Return(u, nil)

		_, err := svc.Login(ctx, auth.LoginRequest{Identifier: "jane", Password: "wrong"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, fakeIssuer{token: "signed"})

		repo.EXPECT().GetByIdentifier(gomock.Any(), "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(ctx, auth.LoginRequest{Identifier: "ghost", Password: "x"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("signing failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, fakeIssuer{err: errors.New("boom")})

		repo.EXPECT().GetByIdentifier(gomock.Any(), "jane").Return(u, nil)

		_, err := svc.Login(ctx, auth.LoginRequest{Identifier: "jane", Password: "password123"})

		assert.ErrorIs(t, err, autherrors.ErrTokenGenerationFailed)
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("verifies current and stores new hash", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, fakeIssuer{})
		u := storedUser(t, "old-pass")

		repo.EXPECT().GetByID(gomock.Any(), u.ID.String()).Return(u, nil)
		repo.EXPECT().UpdatePassword(gomock.Any(), u.ID.String(), gomock.Any()).DoAndReturn(func(_ context.Context, _ string, hash string) error {
			assert.True(t, user.VerifyPassword(hash, "new-pass"))
			return nil
		})

		err := svc.ChangePassword(ctx, u.ID.String(), auth.ChangePasswordRequest{CurrentPassword: "old-pass", NewPassword: "new-pass"})

		assert.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, fakeIssuer{})
		u := storedUser(t, "old-pass")

		repo.EXPECT().GetByID(gomock.Any(), u.ID.String()).Return(u, nil)
		repo.EXPECT().UpdatePassword(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := svc.ChangePassword(ctx, u.ID.String(), auth.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-pass"})

		assert.ErrorIs(t, err, autherrors.ErrWrongPassword)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("writes present fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, fakeIssuer{})
		u := storedUser(t, "x")
		name := " Jane Q. Doe "

		repo.EXPECT().UpdateProfile(gomock.Any(), u.ID.String(), map[string]any{"full_name": "Jane Q. Doe"}).Return(nil)
		updated := *u
		updated.FullName = "Jane Q. Doe"
		repo.EXPECT().GetByID(gomock.Any(), u.ID.String()).Return(&updated, nil)

		resp, err := svc.UpdateProfile(ctx, u.ID.String(), auth.UpdateProfileRequest{FullName: &name})

		assert.NoError(t, err)
		assert.Equal(t, "Jane Q. Doe", resp.FullName)
	})

	t.Run("email taken", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, fakeIssuer{})
		email := "taken@example.com"

		repo.EXPECT().UpdateProfile(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pgconn.PgError{Code: "23505"})

		_, err := svc.UpdateProfile(ctx, uuid.NewString(), auth.UpdateProfileRequest{Email: &email})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}
