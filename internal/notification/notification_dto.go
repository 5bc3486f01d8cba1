package notification

type ListNotificationsQuery struct {
	UnreadOnly bool `form:"unread"`
	Page       int  `form:"page" binding:"omitempty,min=1"`
	PageSize   int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type NotificationResponse struct {
	ID             string  `json:"id"`
	LeaveRequestID *string `json:"leave_request_id"`
	EventType      string  `json:"event_type"`
	Message        string  `json:"message"`
	IsRead         bool    `json:"is_read"`
	CreatedAt      string  `json:"created_at"`
}
