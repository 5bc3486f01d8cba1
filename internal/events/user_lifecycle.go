package events

import "time"

const UserLifecycleTopic = "leave.user.lifecycle.v1"

const (
	UserCreated = "user.created"

	AggregateUser = "user"
)

type UserCreatedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	CreatedBy  string    `json:"created_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
