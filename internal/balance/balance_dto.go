package balance

type ListBalancesQuery struct {
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Year   int    `form:"year" binding:"omitempty,gte=2000,lte=2100"`
}

// SetBalanceRequest overrides one balance. Allocated defaults to the stored
// value; Used is derived.
type SetBalanceRequest struct {
	Remaining *float64 `json:"remaining" binding:"required"`
	Allocated *float64 `json:"allocated"`
}

type SetBalanceByKeyRequest struct {
	UserID      string   `json:"user_id" binding:"required,uuid"`
	LeaveTypeID string   `json:"leave_type_id" binding:"required,uuid"`
	Year        int      `json:"year" binding:"omitempty,gte=2000,lte=2100"`
	Remaining   *float64 `json:"remaining" binding:"required"`
	Allocated   *float64 `json:"allocated"`
}

type BalanceResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Username      string  `json:"username,omitempty"`
	FullName      string  `json:"full_name,omitempty"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name,omitempty"`
	TracksBalance bool    `json:"tracks_balance"`
	Year          int     `json:"year"`
	Allocated     float64 `json:"allocated"`
	Used          float64 `json:"used"`
	Remaining     float64 `json:"remaining"`
	UpdatedAt     string  `json:"updated_at"`
}

type InitializeBalancesResponse struct {
	UserID  string `json:"user_id"`
	Year    int    `json:"year"`
	Created int64  `json:"created"`
}
