package leavetype

type CreateLeaveTypeRequest struct {
	Name                  string   `json:"name" binding:"required,max=100"`
	Description           string   `json:"description"`
	RequiresApproval      *bool    `json:"requires_approval"`
	RequiresJustification bool     `json:"requires_justification"`
	TracksBalance         bool     `json:"tracks_balance"`
	DefaultDays           *float64 `json:"default_days" binding:"omitempty,gte=0,lte=366"`
	Color                 string   `json:"color" binding:"omitempty,max=20"`
	Icon                  string   `json:"icon" binding:"omitempty,max=50"`
	IsActive              *bool    `json:"is_active"`
}

// UpdateLeaveTypeRequest is a partial update; nil fields are left as is.
type UpdateLeaveTypeRequest struct {
	Name                  *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Description           *string  `json:"description"`
	RequiresApproval      *bool    `json:"requires_approval"`
	RequiresJustification *bool    `json:"requires_justification"`
	TracksBalance         *bool    `json:"tracks_balance"`
	DefaultDays           *float64 `json:"default_days" binding:"omitempty,gte=0,lte=366"`
	Color                 *string  `json:"color" binding:"omitempty,max=20"`
	Icon                  *string  `json:"icon" binding:"omitempty,max=50"`
	IsActive              *bool    `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	RequiresApproval      bool    `json:"requires_approval"`
	RequiresJustification bool    `json:"requires_justification"`
	TracksBalance         bool    `json:"tracks_balance"`
	DefaultDays           float64 `json:"default_days"`
	Color                 string  `json:"color"`
	Icon                  string  `json:"icon"`
	IsActive              bool    `json:"is_active"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}
