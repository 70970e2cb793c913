package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims binds a (user id, email, role) triple to a signed token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
