package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockService struct{}

func (m *mockService) Can(role domain.Role, perm domain.Permission) bool {
	return role.IsPrivileged()
}

func (m *mockService) Enforce(req EnforceRequest) (bool, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return false, ErrUnknownRole
	}
	return req.Resource == "leave_request" && role.IsPrivileged(), nil
}

func (m *mockService) PermissionsFor(role domain.Role) (domain.RolePermissionsResponse, error) {
	return domain.RolePermissionsResponse{Role: role.String(), Privileged: role.IsPrivileged()}, nil
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/rbac/enforce", h.Enforce)
	router.GET("/rbac/roles/:role/permissions", h.Permissions)
	return router
}

func TestHandler_Enforce(t *testing.T) {
	router := newRouter(NewHandler(&mockService{}))

	t.Run("allowed", func(t *testing.T) {
		body, _ := json.Marshal(EnforceRequest{Role: "hr", Resource: "leave_request", Action: "approve"})
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var env envelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		var resp EnforceResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.True(t, resp.Allowed)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"role":"hr"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		body, _ := json.Marshal(EnforceRequest{Role: "root", Resource: "leave_request", Action: "approve"})
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var env envelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestHandler_Permissions(t *testing.T) {
	router := newRouter(NewHandler(&mockService{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rbac/roles/admin/permissions", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rbac/roles/root/permissions", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
