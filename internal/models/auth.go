package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the roles carried by admin tokens.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
)

// JWTClaims represents the JWT payload for admin access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}
