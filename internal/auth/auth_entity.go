package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the access token body: sub carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
