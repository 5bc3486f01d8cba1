package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username   string    `gorm:"size:50;uniqueIndex"`
	FullName   string    `gorm:"size:100"`
	Email      string    `gorm:"size:255;uniqueIndex"`
	Password   string    `gorm:"size:255"`
	Role       string    `gorm:"size:20"`
	Department string    `gorm:"size:100"`
	AvatarURL  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (User) TableName() string {
	return "users"
}

type ListFilter struct {
	Role       string
	Department string
	Search     string
	Page       int
	PageSize   int
}
