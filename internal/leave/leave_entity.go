package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusModified = "modified"
)

// LeaveRequest is one request row. DeductedDays is what the ledger currently
// holds for it on BalanceYear; zero means nothing is charged.
type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Reference   string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_user_status"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	TotalDays int       `gorm:"type:int;not null"`
	Reason    string    `gorm:"type:text"`

	Status          string  `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_user_status"`
	RejectionReason *string `gorm:"type:text"`

	DeductedDays float64 `gorm:"type:numeric(6,1);not null;default:0"`
	BalanceYear  *int

	ReviewedBy *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveView is a request joined with its leave type and requester.
type LeaveView struct {
	LeaveRequest
	LeaveTypeName string
	Username      string
	FullName      string
	Department    string
}

type ListFilter struct {
	UserID   string
	Status   string
	Page     int
	PageSize int
}

type StatusCount struct {
	Status string
	Count  int64
}

type DepartmentStat struct {
	Department   string
	Total        int64
	Approved     int64
	Pending      int64
	Rejected     int64
	ApprovedDays int64
}

type PeriodStat struct {
	Period       string
	Total        int64
	Approved     int64
	Pending      int64
	Rejected     int64
	ApprovedDays int64
}
