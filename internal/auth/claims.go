package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"quadramall/apienvelope/internal/constants"
)

// UserClaims is what handlers see of the authenticated caller.
type UserClaims interface {
	UserID() string
	Role() constants.Role
	HasRole(roles ...constants.Role) bool
}

// JWTClaims is the token payload signed by TokenService.
type JWTClaims struct {
	RoleValue constants.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) UserID() string       { return c.Subject }
func (c *JWTClaims) Role() constants.Role { return c.RoleValue }

func (c *JWTClaims) HasRole(roles ...constants.Role) bool {
	for _, r := range roles {
		if c.RoleValue == r {
			return true
		}
	}
	return false
}
