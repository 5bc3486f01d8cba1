package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventID        uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	UserID         uuid.UUID  `gorm:"type:uuid;index"`
	LeaveRequestID *uuid.UUID `gorm:"type:uuid"`
	EventType      string
	Message        string
	IsRead         bool
	CreatedAt      time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
