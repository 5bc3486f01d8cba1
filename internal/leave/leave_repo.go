package leave

import (
	"context"
	"database/sql"
	"time"

	"go-leave/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	FindViewByID(ctx context.Context, id string) (*LeaveView, error)
	List(ctx context.Context, filter ListFilter) ([]LeaveView, int64, error)
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id string) error
	LockUser(ctx context.Context, userID string) error
	HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	CountByStatus(ctx context.Context, userID string) ([]StatusCount, error)
	StatsByDepartment(ctx context.Context) ([]DepartmentStat, error)
	StatsByPeriod(ctx context.Context, year int) ([]PeriodStat, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) joined(ctx context.Context) *gorm.DB {
	return r.conn(ctx).
		Table("leave_requests").
		Select(`leave_requests.*,
			lt.name AS leave_type_name,
			u.username AS username,
			u.full_name AS full_name,
			u.department AS department`).
		Joins("JOIN leave_types lt ON lt.id = leave_requests.leave_type_id").
		Joins("JOIN users u ON u.id = leave_requests.user_id")
}

func (r *repository) FindViewByID(ctx context.Context, id string) (*LeaveView, error) {
	var views []LeaveView
	err := r.joined(ctx).
		Where("leave_requests.id = ?", id).
		Limit(1).
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

// List returns one page of requests, newest first, plus the unpaged total.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]LeaveView, int64, error) {
	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = defaultPage
	}
	if size < 1 {
		size = defaultPageSize
	}

	scope := func(db *gorm.DB) *gorm.DB {
		if filter.UserID != "" {
			db = db.Where("leave_requests.user_id = ?", filter.UserID)
		}
		if filter.Status != "" {
			db = db.Where("leave_requests.status = ?", filter.Status)
		}
		return db
	}

	var total int64
	if err := r.conn(ctx).Model(&LeaveRequest{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var views []LeaveView
	err := r.joined(ctx).
		Scopes(scope).
		Order("leave_requests.created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&LeaveRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LockUser holds the user's row until the transaction ends, so writers that
// check a user's dates for overlap run one at a time. NO KEY UPDATE leaves
// foreign-key checks from other tables unblocked.
func (r *repository) LockUser(ctx context.Context, userID string) error {
	var ids []string
	err := r.conn(ctx).
		Table("users").
		Clauses(clause.Locking{Strength: "NO KEY UPDATE"}).
		Where("id = ?", userID).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasOverlappingPeriod ignores rejected requests; any other status still
// occupies its dates.
func (r *repository) HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("user_id = ?", userID).
		Where("status <> ?", StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) CountByStatus(ctx context.Context, userID string) ([]StatusCount, error) {
	db := r.conn(ctx).
		Model(&LeaveRequest{}).
		Select("status, COUNT(*) AS count")
	if userID != "" {
		db = db.Where("user_id = ?", userID)
	}

	var counts []StatusCount
	err := db.Group("status").Scan(&counts).Error
	return counts, err
}

func (r *repository) StatsByDepartment(ctx context.Context) ([]DepartmentStat, error) {
	var stats []DepartmentStat
	err := r.conn(ctx).Raw(`
		SELECT
			COALESCE(NULLIF(u.department, ''), 'Unassigned') AS department,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE lr.status = 'approved') AS approved,
			COUNT(*) FILTER (WHERE lr.status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE lr.status = 'rejected') AS rejected,
			COALESCE(SUM(lr.total_days) FILTER (WHERE lr.status = 'approved'), 0) AS approved_days
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		GROUP BY 1
		ORDER BY 1
	`).Scan(&stats).Error
	return stats, err
}

func (r *repository) StatsByPeriod(ctx context.Context, year int) ([]PeriodStat, error) {
	var stats []PeriodStat
	err := r.conn(ctx).Raw(`
		SELECT
			to_char(lr.start_date, 'YYYY-MM') AS period,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE lr.status = 'approved') AS approved,
			COUNT(*) FILTER (WHERE lr.status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE lr.status = 'rejected') AS rejected,
			COALESCE(SUM(lr.total_days) FILTER (WHERE lr.status = 'approved'), 0) AS approved_days
		FROM leave_requests lr
		WHERE EXTRACT(YEAR FROM lr.start_date) = ?
		GROUP BY 1
		ORDER BY 1
	`, year).Scan(&stats).Error
	return stats, err
}
