package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/domain"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool                     `json:"ok"`
	Data  json.RawMessage          `json:"data"`
	Meta  *response.PaginationMeta `json:"meta"`
	Error *apiError                `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn     func(ctx context.Context, actor domain.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getByIDFn    func(ctx context.Context, actor domain.Principal, id string) (leave.LeaveResponse, error)
	listFn       func(ctx context.Context, actor domain.Principal, q leave.ListLeavesQuery) ([]leave.LeaveResponse, response.PaginationMeta, error)
	transitionFn func(ctx context.Context, actor domain.Principal, id string, req leave.TransitionRequest) (leave.LeaveResponse, error)
	deleteFn     func(ctx context.Context, actor domain.Principal, id string) error
	statsFn      func(ctx context.Context, actor domain.Principal) (leave.StatsResponse, error)
	deptStatsFn  func(ctx context.Context) ([]leave.DepartmentStatResponse, error)
	periodFn     func(ctx context.Context, year int) ([]leave.PeriodStatResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, actor domain.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, actor, req)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, actor domain.Principal, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}
func (f *fakeLeaveService) List(ctx context.Context, actor domain.Principal, q leave.ListLeavesQuery) ([]leave.LeaveResponse, response.PaginationMeta, error) {
	return f.listFn(ctx, actor, q)
}
func (f *fakeLeaveService) Transition(ctx context.Context, actor domain.Principal, id string, req leave.TransitionRequest) (leave.LeaveResponse, error) {
	return f.transitionFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	return f.deleteFn(ctx, actor, id)
}
func (f *fakeLeaveService) Stats(ctx context.Context, actor domain.Principal) (leave.StatsResponse, error) {
	return f.statsFn(ctx, actor)
}
func (f *fakeLeaveService) StatsByDepartment(ctx context.Context) ([]leave.DepartmentStatResponse, error) {
	return f.deptStatsFn(ctx)
}
func (f *fakeLeaveService) StatsByPeriod(ctx context.Context, year int) ([]leave.PeriodStatResponse, error) {
	return f.periodFn(ctx, year)
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body != "" {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, target, nil)
	}
	return c, w
}

func TestLeaveHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)
	typeID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(_ context.Context, actor domain.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, employee.UserID, actor.UserID)
				assert.Equal(t, typeID, req.LeaveTypeID)
				return leave.LeaveResponse{
					ID:          uuid.NewString(),
					Reference:   "LR-2026-00001",
					UserID:      actor.UserID,
					LeaveTypeID: req.LeaveTypeID,
					StartDate:   req.StartDate,
					EndDate:     req.EndDate,
					TotalDays:   2,
					Reason:      req.Reason,
					Status:      leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		c, w := newContext(http.MethodPost, "/leave-requests",
			`{"leave_type_id":"`+typeID+`","start_date":"2026-03-10","end_date":"2026-03-11","reason":"Family matters"}`)
		middleware.WithPrincipal(c, employee)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "LR-2026-00001", got.Reference)
		assert.Equal(t, 2, got.TotalDays)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("validation error names the field", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newContext(http.MethodPost, "/leave-requests", `{"start_date":"2026-03-10","end_date":"2026-03-11"}`)
		middleware.WithPrincipal(c, employee)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newContext(http.MethodPost, "/leave-requests", `{}`)

		h.Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("insufficient balance returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(context.Context, domain.Principal, leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInsufficientBalance
			},
		}
		h := leave.NewHandler(svc)
		c, w := newContext(http.MethodPost, "/leave-requests",
			`{"leave_type_id":"`+typeID+`","start_date":"2026-03-01","end_date":"2026-03-12"}`)
		middleware.WithPrincipal(c, employee)

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
		assert.Equal(t, "insufficient leave balance", env.Error.Message)
	})

	t.Run("unexpected error is opaque", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(context.Context, domain.Principal, leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, errors.New("connection reset")
			},
		}
		h := leave.NewHandler(svc)
		c, w := newContext(http.MethodPost, "/leave-requests",
			`{"leave_type_id":"`+typeID+`","start_date":"2026-03-10","end_date":"2026-03-11"}`)
		middleware.WithPrincipal(c, employee)

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
		assert.NotContains(t, env.Error.Message, "connection reset")
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("list with pagination meta", func(t *testing.T) {
		var got leave.ListLeavesQuery
		svc := &fakeLeaveService{
			listFn: func(_ context.Context, _ domain.Principal, q leave.ListLeavesQuery) ([]leave.LeaveResponse, response.PaginationMeta, error) {
				got = q
				return []leave.LeaveResponse{{ID: "a"}, {ID: "b"}}, response.NewPaginationMeta(12, 2, 5), nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newContext(http.MethodGet, "/leave-requests?status=approved&page=2&page_size=5", "")
		middleware.WithPrincipal(c, hr)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Equal(t, "approved", got.Status)
		assert.Equal(t, 2, got.Page)
		assert.Equal(t, 5, got.PageSize)
		assert.NotNil(t, env.Meta)
		assert.Equal(t, 3, env.Meta.TotalPages)
	})

	t.Run("stats flag returns counts", func(t *testing.T) {
		svc := &fakeLeaveService{
			statsFn: func(context.Context, domain.Principal) (leave.StatsResponse, error) {
				return leave.StatsResponse{Pending: 1, Approved: 2, Total: 3}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newContext(http.MethodGet, "/leave-requests?stats=true", "")
		middleware.WithPrincipal(c, employee)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var got leave.StatsResponse
		assert.NoError(t, json.Unmarshal(decodeEnvelope(t, w.Body.Bytes()).Data, &got))
		assert.Equal(t, int64(3), got.Total)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newContext(http.MethodGet, "/leave-requests?status=cancelled", "")
		middleware.WithPrincipal(c, employee)

		h.GetAll(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.NewString()

	svc := &fakeLeaveService{
		getByIDFn: func(_ context.Context, actor domain.Principal, got string) (leave.LeaveResponse, error) {
			assert.Equal(t, id, got)
			if actor.UserID == intruder.UserID {
				return leave.LeaveResponse{}, leaveerrors.ErrNotOwner
			}
			return leave.LeaveResponse{ID: got}, nil
		},
	}
	h := leave.NewHandler(svc)

	c, w := newContext(http.MethodGet, "/leave-requests/"+id, "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	middleware.WithPrincipal(c, employee)
	h.GetByID(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodGet, "/leave-requests/"+id, "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	middleware.WithPrincipal(c, intruder)
	h.GetByID(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLeaveHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.NewString()

	t.Run("passes transition to service", func(t *testing.T) {
		var got leave.TransitionRequest
		svc := &fakeLeaveService{
			transitionFn: func(_ context.Context, actor domain.Principal, gotID string, req leave.TransitionRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, id, gotID)
				assert.Equal(t, hr.UserID, actor.UserID)
				got = req
				return leave.LeaveResponse{ID: gotID, Status: leave.StatusRejected}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newContext(http.MethodPut, "/leave-requests/"+id, `{"status":"rejected","rejection_reason":"peak season"}`)
		c.Params = gin.Params{{Key: "id", Value: id}}
		middleware.WithPrincipal(c, hr)

		h.Update(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "rejected", got.Status)
		assert.Equal(t, "peak season", *got.RejectionReason)
	})

	t.Run("invalid transition is a conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			transitionFn: func(context.Context, domain.Principal, string, leave.TransitionRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyApproved
			},
		}
		h := leave.NewHandler(svc)
		c, w := newContext(http.MethodPut, "/leave-requests/"+id, `{"status":"approved"}`)
		c.Params = gin.Params{{Key: "id", Value: id}}
		middleware.WithPrincipal(c, hr)

		h.Update(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("missing status", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newContext(http.MethodPut, "/leave-requests/"+id, `{"rejection_reason":"x"}`)
		c.Params = gin.Params{{Key: "id", Value: id}}
		middleware.WithPrincipal(c, hr)

		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			deleteFn: func(_ context.Context, _ domain.Principal, got string) error {
				assert.Equal(t, id, got)
				return nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newContext(http.MethodDelete, "/leave-requests/"+id, "")
		c.Params = gin.Params{{Key: "id", Value: id}}
		middleware.WithPrincipal(c, employee)

		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeEnvelope(t, w.Body.Bytes()).Ok)
	})

	t.Run("not pending", func(t *testing.T) {
		svc := &fakeLeaveService{
			deleteFn: func(context.Context, domain.Principal, string) error {
				return leaveerrors.ErrDeleteNotPending
			},
		}
		h := leave.NewHandler(svc)
		c, w := newContext(http.MethodDelete, "/leave-requests/"+id, "")
		c.Params = gin.Params{{Key: "id", Value: id}}
		middleware.WithPrincipal(c, employee)

		h.Delete(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_PeriodStats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("year query", func(t *testing.T) {
		var got int
		svc := &fakeLeaveService{
			periodFn: func(_ context.Context, year int) ([]leave.PeriodStatResponse, error) {
				got = year
				return []leave.PeriodStatResponse{{Period: "2025-04", Total: 1}}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newContext(http.MethodGet, "/leave-statistics/periods?year=2025", "")

		h.PeriodStats(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2025, got)
	})

	t.Run("bad year", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newContext(http.MethodGet, "/leave-statistics/periods?year=last", "")

		h.PeriodStats(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_DepartmentStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeLeaveService{
		deptStatsFn: func(context.Context) ([]leave.DepartmentStatResponse, error) {
			return []leave.DepartmentStatResponse{{Department: "Finance", Total: 2}}, nil
		},
	}
	h := leave.NewHandler(svc)
	c, w := newContext(http.MethodGet, "/leave-statistics/departments", "")

	h.DepartmentStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []leave.DepartmentStatResponse
	assert.NoError(t, json.Unmarshal(decodeEnvelope(t, w.Body.Bytes()).Data, &got))
	assert.Equal(t, "Finance", got[0].Department)
}
