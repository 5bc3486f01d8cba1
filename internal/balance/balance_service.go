package balance

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/bootstrap"
	"go-leave/internal/domain"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	AuditActionBalanceOverride = "LEAVE_BALANCE_OVERRIDE"

	// maxBalanceValue is the largest value a numeric(6,1) column holds.
	maxBalanceValue = 99999.9
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, actor domain.Principal, q ListBalancesQuery) ([]BalanceResponse, error)
	SetAbsolute(ctx context.Context, actor domain.Principal, id string, req SetBalanceRequest) (BalanceResponse, error)
	SetAbsoluteByKey(ctx context.Context, actor domain.Principal, req SetBalanceByKeyRequest) (BalanceResponse, error)
	InitializeForUser(ctx context.Context, actor domain.Principal, userID string) (InitializeBalancesResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	ledger Ledger
	authz  domain.Authorizer
	audit  bootstrap.AuditLogger
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, ledger Ledger, authz domain.Authorizer, audit bootstrap.AuditLogger, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, ledger: ledger, authz: authz, audit: audit, logger: l}
}

// List returns every balance to callers allowed leave_balance:read_all
// (optionally one user's) and only the caller's own rows otherwise.
func (s *service) List(ctx context.Context, actor domain.Principal, q ListBalancesQuery) ([]BalanceResponse, error) {
	filter := ListFilter{UserID: q.UserID, Year: q.Year}
	if !actor.Role.Can(s.authz, domain.PermBalanceReadAll) {
		if filter.UserID != "" && filter.UserID != actor.UserID {
			s.logger.Warn("list balances for another user denied",
				zap.String("actor_id", actor.UserID),
				zap.String("user_id", filter.UserID),
			)
			return nil, apperror.ErrForbidden
		}
		filter.UserID = actor.UserID
	}

	views, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list balances failed", zap.Error(err))
		return nil, err
	}

	resp := make([]BalanceResponse, len(views))
	for i, v := range views {
		resp[i] = mapViewToResponse(v)
	}
	return resp, nil
}

func (s *service) SetAbsolute(ctx context.Context, actor domain.Principal, id string, req SetBalanceRequest) (BalanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidBalanceID
	}
	return s.override(ctx, actor, req.Remaining, req.Allocated, func(qtx Repository) (*LeaveBalance, error) {
		return qtx.FindByIDForUpdate(ctx, id)
	})
}

func (s *service) SetAbsoluteByKey(ctx context.Context, actor domain.Principal, req SetBalanceByKeyRequest) (BalanceResponse, error) {
	year := req.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	return s.override(ctx, actor, req.Remaining, req.Allocated, func(qtx Repository) (*LeaveBalance, error) {
		return qtx.FindForUpdate(ctx, req.UserID, req.LeaveTypeID, year)
	})
}

func (s *service) override(
	ctx context.Context,
	actor domain.Principal,
	remaining, allocated *float64,
	find func(qtx Repository) (*LeaveBalance, error),
) (BalanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if remaining == nil {
		return BalanceResponse{}, apperror.RequiredField("Remaining")
	}
	if !storable(*remaining) || (allocated != nil && !storable(*allocated)) {
		return BalanceResponse{}, balanceerrors.ErrInvalidBalanceValues
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("override balance begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := find(qtx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		s.logger.Error("override balance lookup failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	before := *b

	newAllocated := b.Allocated
	if allocated != nil {
		newAllocated = *allocated
	}
	if *remaining < 0 || newAllocated < 0 || *remaining > newAllocated {
		s.logger.Warn("override balance rejected",
			zap.String("balance_id", b.ID.String()),
			zap.Float64("remaining", *remaining),
			zap.Float64("allocated", newAllocated),
		)
		return BalanceResponse{}, balanceerrors.ErrInvalidBalanceValues
	}

	// Rounded so remaining + used = allocated holds exactly once the
	// values land in numeric(6,1).
	b.Allocated = roundTenths(newAllocated)
	b.Remaining = roundTenths(*remaining)
	b.Used = roundTenths(b.Allocated - b.Remaining)

	if err := qtx.Save(ctx, b); err != nil {
		s.logger.Error("override balance save failed", zap.String("balance_id", b.ID.String()), zap.Error(err))
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("override balance commit failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  AuditActionBalanceOverride,
		ActorID: actor.UserID,
		Message: "leave balance set by HR",
		Meta: map[string]any{
			"balance_id":       b.ID.String(),
			"user_id":          b.UserID.String(),
			"leave_type_id":    b.LeaveTypeID.String(),
			"year":             b.Year,
			"before_allocated": before.Allocated,
			"before_remaining": before.Remaining,
			"after_allocated":  b.Allocated,
			"after_remaining":  b.Remaining,
		},
	})

	return mapToResponse(*b), nil
}

func (s *service) InitializeForUser(ctx context.Context, actor domain.Principal, userID string) (InitializeBalancesResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(userID); err != nil {
		return InitializeBalancesResponse{}, balanceerrors.ErrInvalidUserID
	}
	s.logger.Debug("initialize balances requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.UserID),
		zap.String("user_id", userID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("initialize balances begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return InitializeBalancesResponse{}, err
	}
	defer tx.Rollback()

	created, err := s.ledger.WithTx(tx).InitializeForUser(ctx, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return InitializeBalancesResponse{}, balanceerrors.ErrUserNotFound
		}
		return InitializeBalancesResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("initialize balances commit failed", zap.Error(err))
		return InitializeBalancesResponse{}, err
	}

	return InitializeBalancesResponse{
		UserID:  userID,
		Year:    time.Now().UTC().Year(),
		Created: created,
	}, nil
}

// storable reports whether v fits a numeric(6,1) column without rounding.
func storable(v float64) bool {
	if math.IsNaN(v) || math.Abs(v) > maxBalanceValue {
		return false
	}
	scaled := v * 10
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func roundTenths(v float64) float64 {
	return math.Round(v*10) / 10
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:          b.ID.String(),
		UserID:      b.UserID.String(),
		LeaveTypeID: b.LeaveTypeID.String(),
		Year:        b.Year,
		Allocated:   b.Allocated,
		Used:        b.Used,
		Remaining:   b.Remaining,
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
}

func mapViewToResponse(v BalanceView) BalanceResponse {
	resp := mapToResponse(v.LeaveBalance)
	resp.Username = v.Username
	resp.FullName = v.FullName
	resp.LeaveTypeName = v.LeaveTypeName
	resp.TracksBalance = v.TracksBalance
	return resp
}
