package events

import "time"

const LeaveLifecycleTopic = "leave.request.lifecycle.v1"

const (
	LeaveRequestCreated       = "leave_request.created"
	LeaveRequestStatusChanged = "leave_request.status_changed"
	LeaveRequestDeleted       = "leave_request.deleted"
)

const AggregateLeaveRequest = "leave_request"

type LeaveRequestEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	LeaveRequestID  string    `json:"leave_request_id"`
	Reference       string    `json:"reference"`
	UserID          string    `json:"user_id"`
	ActorID         string    `json:"actor_id"`
	LeaveTypeID     string    `json:"leave_type_id"`
	FromStatus      string    `json:"from_status,omitempty"`
	ToStatus        string    `json:"to_status"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	TotalDays       int       `json:"total_days"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
