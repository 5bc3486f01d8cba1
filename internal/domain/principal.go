package domain

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   string
	Username string
	Role     Role
}
