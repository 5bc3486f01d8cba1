package balance

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	balanceerrors "go-leave/internal/balance/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_ledger.go -destination=mock/balance_ledger_mock.go -package=mock

type AdjustmentMetrics interface {
	RecordBalanceAdjustment(operation string, days float64)
}

// Ledger is the only writer of used/remaining outside an HR override.
// It never starts a transaction; bind it with WithTx so the row lock and the
// caller's other writes commit together.
type Ledger interface {
	WithTx(tx *sql.Tx) Ledger
	InitializeForUser(ctx context.Context, userID string) (int64, error)
	EnsureSufficient(ctx context.Context, userID, leaveTypeID string, year int, days float64) (*LeaveBalance, error)
	AdjustByDelta(ctx context.Context, userID, leaveTypeID string, year int, days float64, dir Direction) (*LeaveBalance, error)
}

type ledger struct {
	repo    Repository
	metrics AdjustmentMetrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewLedger(repo Repository, metrics AdjustmentMetrics, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("balance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.ledger")
	}
	return &ledger{repo: repo, metrics: metrics, logger: l, now: time.Now}
}

func (l *ledger) WithTx(tx *sql.Tx) Ledger {
	return &ledger{repo: l.repo.WithTx(tx), metrics: l.metrics, logger: l.logger, now: l.now}
}

func (l *ledger) InitializeForUser(ctx context.Context, userID string) (int64, error) {
	year := l.now().UTC().Year()
	created, err := l.repo.InitializeForUser(ctx, userID, year)
	if err != nil {
		l.logger.Error("initialize balances failed", zap.String("user_id", userID), zap.Int("year", year), zap.Error(err))
		return 0, err
	}
	l.logger.Info("balances initialized",
		zap.String("user_id", userID),
		zap.Int("year", year),
		zap.Int64("created", created),
	)
	return created, nil
}

// EnsureSufficient locks the balance row and checks that days fit.
func (l *ledger) EnsureSufficient(ctx context.Context, userID, leaveTypeID string, year int, days float64) (*LeaveBalance, error) {
	b, err := l.lock(ctx, userID, leaveTypeID, year)
	if err != nil {
		return nil, err
	}
	if b.Remaining < days {
		l.logger.Warn("insufficient leave balance",
			zap.String("user_id", userID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Float64("remaining", b.Remaining),
			zap.Float64("requested", days),
		)
		return b, balanceerrors.ErrInsufficientBalance
	}
	return b, nil
}

// AdjustByDelta moves days between remaining and used on the locked row.
// A restore larger than used only credits what was used, so the row stays
// valid after an HR override lowered it.
func (l *ledger) AdjustByDelta(ctx context.Context, userID, leaveTypeID string, year int, days float64, dir Direction) (*LeaveBalance, error) {
	if days <= 0 || math.IsNaN(days) || math.IsInf(days, 0) {
		return nil, balanceerrors.ErrInvalidAdjustment
	}

	b, err := l.lock(ctx, userID, leaveTypeID, year)
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("balance_id", b.ID.String()),
		zap.String("user_id", userID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.Float64("days", days),
		zap.String("direction", string(dir)),
	}

	switch dir {
	case DirectionDeduct:
		if b.Remaining < days {
			l.logger.Warn("deduct rejected: insufficient balance", append(fields, zap.Float64("remaining", b.Remaining))...)
			return nil, balanceerrors.ErrInsufficientBalance
		}
		b.Used += days
		b.Remaining -= days
	case DirectionRestore:
		credit := days
		if credit > b.Used {
			l.logger.Warn("restore exceeds used; crediting used only", append(fields, zap.Float64("used", b.Used))...)
			credit = b.Used
		}
		b.Used -= credit
		b.Remaining += credit
		days = credit
	default:
		return nil, balanceerrors.ErrInvalidAdjustment
	}

	if err := l.repo.Save(ctx, b); err != nil {
		l.logger.Error("save balance failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	if l.metrics != nil {
		l.metrics.RecordBalanceAdjustment(string(dir), days)
	}
	l.logger.Info("balance adjusted", append(fields,
		zap.Float64("used", b.Used),
		zap.Float64("remaining", b.Remaining),
	)...)

	return b, nil
}

func (l *ledger) lock(ctx context.Context, userID, leaveTypeID string, year int) (*LeaveBalance, error) {
	b, err := l.repo.FindForUpdate(ctx, userID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, balanceerrors.ErrBalanceNotFound
		}
		return nil, err
	}
	return b, nil
}
