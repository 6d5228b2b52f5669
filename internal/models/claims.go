package models

import "github.com/golang-jwt/jwt/v5"

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Actor returns the caller identity passed into services.
func (c *UserClaims) Actor() Actor {
	return Actor{UserID: c.UserID, Role: c.Role}
}

// Actor identifies who performs a service operation. The zero value is an
// anonymous caller.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool     { return a.Role == RoleAdmin }
func (a Actor) IsAnonymous() bool { return a.UserID == 0 }
