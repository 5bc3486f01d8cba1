package balance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is one ledger row. Remaining + Used always equals Allocated.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`
	Year        int       `gorm:"not null"`
	Allocated   float64   `gorm:"type:numeric(6,1);not null"`
	Used        float64   `gorm:"type:numeric(6,1);not null"`
	Remaining   float64   `gorm:"type:numeric(6,1);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// BalanceView is a balance joined with its leave type and owner.
type BalanceView struct {
	LeaveBalance
	LeaveTypeName string
	TracksBalance bool
	Username      string
	FullName      string
}

type Direction string

const (
	DirectionDeduct  Direction = "deduct"
	DirectionRestore Direction = "restore"
)

type ListFilter struct {
	UserID string
	Year   int
}
