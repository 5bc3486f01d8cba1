package leavetype

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	leavetypeerrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ActiveLeaveTypesKey = "leave_types:active"
	activeCacheTTL      = time.Hour

	defaultDays  = 10
	defaultColor = "#3B82F6"
	defaultIcon  = "calendar"
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetActive(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave type requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
	)

	lt := &LeaveType{
		ID:                    uuid.New(),
		Name:                  strings.TrimSpace(req.Name),
		Description:           req.Description,
		RequiresApproval:      boolOr(req.RequiresApproval, true),
		RequiresJustification: req.RequiresJustification,
		TracksBalance:         req.TracksBalance,
		DefaultDays:           defaultDays,
		Color:                 stringOr(req.Color, defaultColor),
		Icon:                  stringOr(req.Icon, defaultIcon),
		IsActive:              boolOr(req.IsActive, true),
	}
	if req.DefaultDays != nil {
		lt.DefaultDays = *req.DefaultDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave type begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, lt); err != nil {
		s.logger.Warn("create leave type failed", zap.String("name", lt.Name), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave type commit failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateActive(ctx)
	s.logger.Info("leave type created", zap.String("leave_type_id", lt.ID.String()), zap.String("name", lt.Name))

	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAll(ctx, false)
	if err != nil {
		s.logger.Error("get all leave types failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(types), nil
}

// GetActive serves the active catalogue from Redis, loading it once per TTL.
func (s *service) GetActive(ctx context.Context) ([]LeaveTypeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ActiveLeaveTypesKey).Result(); err == nil {
			var resp []LeaveTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(ActiveLeaveTypesKey, func() (interface{}, error) {
		types, err := s.repo.FindAll(ctx, true)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(types)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, ActiveLeaveTypesKey, jsonData, activeCacheTTL).Err(); err != nil {
					s.logger.Warn("cache active leave types failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		s.logger.Error("get active leave types failed", zap.Error(err))
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*lt), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}
	s.logger.Debug("update leave type requested", zap.String("request_id", rid), zap.String("leave_type_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave type begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	applyUpdate(lt, req)

	if err := qtx.Update(ctx, lt); err != nil {
		s.logger.Warn("update leave type failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave type commit failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateActive(ctx)
	s.logger.Info("leave type updated", zap.String("leave_type_id", id))

	return mapToResponse(*lt), nil
}

// Delete refuses types that any balance or request still points at.
func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return leavetypeerrors.ErrInvalidLeaveTypeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete leave type begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	referenced, err := qtx.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		s.logger.Warn("delete leave type blocked: still referenced", zap.String("leave_type_id", id))
		return leavetypeerrors.ErrLeaveTypeInUse
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete leave type commit failed", zap.Error(err))
		return err
	}

	s.invalidateActive(ctx)
	s.logger.Info("leave type deleted", zap.String("leave_type_id", id))
	return nil
}

func (s *service) invalidateActive(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ActiveLeaveTypesKey).Err(); err != nil {
		s.logger.Error("failed to invalidate active leave types cache",
			zap.String("key", ActiveLeaveTypesKey),
			zap.Error(err),
		)
	}
}

func applyUpdate(lt *LeaveType, req UpdateLeaveTypeRequest) {
	if req.Name != nil {
		lt.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		lt.Description = *req.Description
	}
	if req.RequiresApproval != nil {
		lt.RequiresApproval = *req.RequiresApproval
	}
	if req.RequiresJustification != nil {
		lt.RequiresJustification = *req.RequiresJustification
	}
	if req.TracksBalance != nil {
		lt.TracksBalance = *req.TracksBalance
	}
	if req.DefaultDays != nil {
		lt.DefaultDays = *req.DefaultDays
	}
	if req.Color != nil {
		lt.Color = *req.Color
	}
	if req.Icon != nil {
		lt.Icon = *req.Icon
	}
	if req.IsActive != nil {
		lt.IsActive = *req.IsActive
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                    lt.ID.String(),
		Name:                  lt.Name,
		Description:           lt.Description,
		RequiresApproval:      lt.RequiresApproval,
		RequiresJustification: lt.RequiresJustification,
		TracksBalance:         lt.TracksBalance,
		DefaultDays:           lt.DefaultDays,
		Color:                 lt.Color,
		Icon:                  lt.Icon,
		IsActive:              lt.IsActive,
		CreatedAt:             lt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             lt.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	res := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		res[i] = mapToResponse(lt)
	}
	return res
}
