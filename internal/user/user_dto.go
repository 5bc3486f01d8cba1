package user

type CreateUserRequest struct {
	Username   string  `json:"username" binding:"required,min=3,max=50,alphanum"`
	FullName   string  `json:"full_name" binding:"required,max=100"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=6"`
	Role       string  `json:"role" binding:"omitempty,oneof=employee manager hr admin"`
	Department string  `json:"department" binding:"max=100"`
	AvatarURL  *string `json:"avatar_url" binding:"omitempty,url"`
}

// UpdateUserRequest changes only the fields that are present.
type UpdateUserRequest struct {
	FullName   *string `json:"full_name" binding:"omitempty,max=100"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Password   *string `json:"password" binding:"omitempty,min=6"`
	Role       *string `json:"role" binding:"omitempty,oneof=employee manager hr admin"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	AvatarURL  *string `json:"avatar_url" binding:"omitempty,url"`
}

type ListUsersQuery struct {
	Role       string `form:"role" binding:"omitempty,oneof=employee manager hr admin"`
	Department string `form:"department"`
	Q          string `form:"q"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Department string  `json:"department"`
	AvatarURL  *string `json:"avatar_url"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}
