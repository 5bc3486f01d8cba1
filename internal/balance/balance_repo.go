package balance

import (
	"context"
	"database/sql"

	"go-leave/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	InitializeForUser(ctx context.Context, userID string, year int) (int64, error)
	FindForUpdate(ctx context.Context, userID, leaveTypeID string, year int) (*LeaveBalance, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveBalance, error)
	Save(ctx context.Context, b *LeaveBalance) error
	List(ctx context.Context, filter ListFilter) ([]BalanceView, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(r.db, r.tx).WithContext(ctx)
}

// InitializeForUser creates a row per active leave type for year, seeded
// from the type's default_days. Existing rows are untouched.
func (r *repository) InitializeForUser(ctx context.Context, userID string, year int) (int64, error) {
	res := r.conn(ctx).Exec(`
		INSERT INTO leave_balances (id, user_id, leave_type_id, year, allocated, used, remaining, created_at, updated_at)
		SELECT gen_random_uuid(), ?, lt.id, ?, lt.default_days, 0, lt.default_days, NOW(), NOW()
		FROM leave_types lt
		WHERE lt.is_active
		ON CONFLICT (user_id, leave_type_id, year) DO NOTHING
	`, userID, year)
	return res.RowsAffected, res.Error
}

func (r *repository) FindForUpdate(ctx context.Context, userID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND leave_type_id = ? AND year = ?", userID, leaveTypeID, year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Save(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).Model(b).Select("allocated", "used", "remaining", "updated_at").Updates(b).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]BalanceView, error) {
	var views []BalanceView
	q := r.conn(ctx).
		Table("leave_balances lb").
		Select(`lb.*, lt.name AS leave_type_name, lt.tracks_balance, u.username, u.full_name`).
		Joins("JOIN leave_types lt ON lt.id = lb.leave_type_id").
		Joins("JOIN users u ON u.id = lb.user_id")

	if filter.UserID != "" {
		q = q.Where("lb.user_id = ?", filter.UserID)
	}
	if filter.Year != 0 {
		q = q.Where("lb.year = ?", filter.Year)
	}

	err := q.Order("u.full_name ASC, lt.name ASC, lb.year DESC").Scan(&views).Error
	return views, err
}
