package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account keyed by email. A fresh account is inactive until its
// activation code is consumed.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password       string    `json:"-" gorm:"not null"` // bcrypt hash
	IsActive       bool      `json:"is_active" gorm:"not null;default:false"`
	ActivationCode string    `json:"-" gorm:"size:20;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}

// AuthToken records an issued bearer token by its jti. A token is only valid
// while its row exists.
type AuthToken struct {
	Key       string    `json:"-" gorm:"column:token_key;primaryKey;size:64"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	ExpiresAt time.Time `json:"-"`
	CreatedAt time.Time `json:"-"`
}

type RegisterRequest struct {
	Email           string `json:"email" form:"email" validate:"required,email,max=255"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email                string `json:"email" form:"email" validate:"required,email"`
	ActivationCode       string `json:"activation_code" form:"activation_code" validate:"required,max=20"`
	Password             string `json:"password" form:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"required,min=6"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// RegisteredClaims.ID carries the token key stored in the token store.
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
