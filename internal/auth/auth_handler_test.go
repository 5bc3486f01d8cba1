package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-leave/internal/auth"
	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	loginFn          func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	meFn             func(ctx context.Context, userID string) (auth.AuthResponse, error)
	updateProfileFn  func(ctx context.Context, userID string, req auth.UpdateProfileRequest) (auth.AuthResponse, error)
	changePasswordFn func(ctx context.Context, userID string, req auth.ChangePasswordRequest) error
}

func (f *fakeService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	return f.loginFn(ctx, req)
}
func (f *fakeService) Me(ctx context.Context, userID string) (auth.AuthResponse, error) {
	return f.meFn(ctx, userID)
}
func (f *fakeService) UpdateProfile(ctx context.Context, userID string, req auth.UpdateProfileRequest) (auth.AuthResponse, error) {
	return f.updateProfileFn(ctx, userID, req)
}
func (f *fakeService) ChangePassword(ctx context.Context, userID string, req auth.ChangePasswordRequest) error {
	return f.changePasswordFn(ctx, userID, req)
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cookie := auth.CookieOptions{Secure: true, TTL: 24 * time.Hour}

	t.Run("sets access token cookie", func(t *testing.T) {
		svc := &fakeService{
			loginFn: func(_ context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
				assert.Equal(t, "jane", req.Identifier)
				return auth.LoginResponse{Token: "signed", User: auth.AuthResponse{Username: "jane"}}, nil
			},
		}
		h := auth.NewHandler(svc, cookie)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"identifier":"jane","password":"pw"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		got := findCookie(w, middleware.AccessTokenCookie)
		if assert.NotNil(t, got) {
			assert.Equal(t, "signed", got.Value)
			assert.True(t, got.HttpOnly)
			assert.True(t, got.Secure)
			assert.Equal(t, 86400, got.MaxAge)
		}
		assert.Contains(t, w.Body.String(), `"token":"signed"`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := &fakeService{
			loginFn: func(context.Context, auth.LoginRequest) (auth.LoginResponse, error) {
				return auth.LoginResponse{}, autherrors.ErrInvalidCredentials
			},
		}
		h := auth.NewHandler(svc, cookie)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"identifier":"jane","password":"bad"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, findCookie(w, middleware.AccessTokenCookie))
	})

	t.Run("missing identifier", func(t *testing.T) {
		h := auth.NewHandler(&fakeService{}, cookie)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"pw"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := auth.NewHandler(&fakeService{}, auth.CookieOptions{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)

	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	got := findCookie(w, middleware.AccessTokenCookie)
	if assert.NotNil(t, got) {
		assert.Empty(t, got.Value)
		assert.True(t, got.MaxAge < 0)
	}
}

func TestHandler_Me(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := domain.Principal{UserID: "u-1", Username: "jane", Role: domain.RoleEmployee}

	svc := &fakeService{
		meFn: func(_ context.Context, userID string) (auth.AuthResponse, error) {
			return auth.AuthResponse{ID: userID, Username: "jane"}, nil
		},
	}
	h := auth.NewHandler(svc, auth.CookieOptions{})

	t.Run("authenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		middleware.WithPrincipal(c, p)

		h.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"u-1"`)
	})

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)

		h.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
