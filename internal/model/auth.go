package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are JWT claims for the administrative dashboard
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionClaims are JWT claims scoped to one respondent session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}
