package leave

type CreateLeaveRequest struct {
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason"`
}

// TransitionRequest moves a request to Status. The optional fields only
// apply when Status is modified.
type TransitionRequest struct {
	Status          string  `json:"status" binding:"required"`
	RejectionReason *string `json:"rejection_reason"`
	LeaveTypeID     *string `json:"leave_type_id" binding:"omitempty,uuid"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	Reason          *string `json:"reason"`
}

type ListLeavesQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected modified"`
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	Reference       string  `json:"reference"`
	UserID          string  `json:"user_id"`
	Username        string  `json:"username,omitempty"`
	FullName        string  `json:"full_name,omitempty"`
	Department      string  `json:"department,omitempty"`
	LeaveTypeID     string  `json:"leave_type_id"`
	LeaveTypeName   string  `json:"leave_type_name,omitempty"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	DeductedDays    float64 `json:"deducted_days"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type StatsResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Modified int64 `json:"modified"`
	Total    int64 `json:"total"`
}

type DepartmentStatResponse struct {
	Department   string `json:"department"`
	Total        int64  `json:"total"`
	Approved     int64  `json:"approved"`
	Pending      int64  `json:"pending"`
	Rejected     int64  `json:"rejected"`
	ApprovedDays int64  `json:"approved_days"`
}

type PeriodStatResponse struct {
	Period       string `json:"period"`
	Total        int64  `json:"total"`
	Approved     int64  `json:"approved"`
	Pending      int64  `json:"pending"`
	Rejected     int64  `json:"rejected"`
	ApprovedDays int64  `json:"approved_days"`
}
