package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leave/internal/auth"
	authMock "go-leave/internal/auth/mock"
	"go-leave/internal/domain"
	"go-leave/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func TestGate_IssueAndAuthenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := authMock.NewMockRepository(ctrl)
	gate := auth.NewGate(repo, testSecret, time.Hour)
	ctx := context.Background()

	u := user.User{ID: uuid.New(), Username: "jane", Role: "manager"}

	t.Run("valid token resolves stored user", func(t *testing.T) {
		token, err := gate.Issue(u)
		assert.NoError(t, err)

		stored := u
		stored.Role = "hr"
		repo.EXPECT().GetByID(gomock.Any(), u.ID.String()).Return(&stored, nil)

		p, ok := gate.Authenticate(ctx, token)

		assert.True(t, ok)
		assert.Equal(t, u.ID.String(), p.UserID)
		assert.Equal(t, domain.RoleHR, p.Role)
	})

	t.Run("unknown subject", func(t *testing.T) {
		token, _ := gate.Issue(u)
		repo.EXPECT().GetByID(gomock.Any(), u.ID.String()).Return(nil, gorm.ErrRecordNotFound)

		p, ok := gate.Authenticate(ctx, token)

		assert.False(t, ok)
		assert.Nil(t, p)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := auth.NewGate(repo, "another-secret", time.Hour)
		token, _ := other.Issue(u)

		_, ok := gate.Authenticate(ctx, token)

		assert.False(t, ok)
	})

	t.Run("expired", func(t *testing.T) {
		expired := auth.NewGate(repo, testSecret, -time.Minute)
		token, _ := expired.Issue(u)

		_, ok := gate.Authenticate(ctx, token)

		assert.False(t, ok)
	})

	t.Run("missing exp", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": u.ID.String(), "role": "hr"}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

		_, ok := gate.Authenticate(ctx, token)

		assert.False(t, ok)
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": u.ID.String(), "exp": time.Now().Add(time.Hour).Unix()}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))

		_, ok := gate.Authenticate(ctx, token)

		assert.False(t, ok)
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := gate.Authenticate(ctx, "not-a-token")
		assert.False(t, ok)
	})

	t.Run("store error", func(t *testing.T) {
		token, _ := gate.Issue(u)
		repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

		_, ok := gate.Authenticate(ctx, token)

		assert.False(t, ok)
	})
}
