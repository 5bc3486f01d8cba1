package leavetype

import (
	"time"

	"github.com/google/uuid"
)

type LeaveType struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                  string    `gorm:"size:100;not null"`
	Description           string    `gorm:"not null"`
	RequiresApproval      bool      `gorm:"not null"`
	RequiresJustification bool      `gorm:"not null"`
	TracksBalance         bool      `gorm:"not null"`
	DefaultDays           float64   `gorm:"type:numeric(6,1);not null"`
	Color                 string    `gorm:"size:20;not null"`
	Icon                  string    `gorm:"size:50;not null"`
	IsActive              bool      `gorm:"not null"`
	CreatedAt             time.Time `gorm:"autoCreateTime"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}
