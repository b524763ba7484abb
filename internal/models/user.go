package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User is a dashboard operator account (PostgreSQL).
type User struct {
	gorm.Model   `json:"-"`
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest is the body of POST /login/firebase.
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UserResponse is the public view of an operator returned on login.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// JwtCustomClaims are the claims carried by operator bearer tokens.
type JwtCustomClaims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
