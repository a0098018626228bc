package models

import (
	"github.com/golang-jwt/jwt/v5"
)

type LoginRequest struct {
	Action   string `json:"action"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
