package dto

import (
	"time"

	"vespernexus/internal/service"
)

type SendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type MessageResponse struct {
	Message     string `json:"message"`
	CodePreview string `json:"codePreview,omitempty"`
}

type RegisterRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8"`
	Nickname          string `json:"nickname" validate:"required,max=100"`
	VerificationCode  string `json:"verificationCode" validate:"required,len=6"`
	DeveloperCode     string `json:"developerCode" validate:"omitempty"`
	DeviceFingerprint string `json:"deviceFingerprint" validate:"omitempty,max=255"`
}

type AuthResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	Role      string     `json:"role"`
	Nickname  string     `json:"nickname"`
	VipLevel  string     `json:"vipLevel"`
	VipExpiry *time.Time `json:"vipExpiry,omitempty"`
}

type ForgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetRequest struct {
	Email     string `json:"email" validate:"required,email"`
	ResetCode string `json:"resetCode" validate:"required,len=6"`
	Password  string `json:"password" validate:"required,min=8"`
}

func AuthResponseFromResult(result *service.AuthResult) AuthResponse {
	return AuthResponse{Token: result.Token, Role: string(result.Role)}
}

func LoginResponseFromResult(result *service.LoginResult) LoginResponse {
	return LoginResponse{
		Token:     result.Token,
		Role:      string(result.Role),
		Nickname:  result.Nickname,
		VipLevel:  string(result.VipLevel),
		VipExpiry: result.VipExpiry,
	}
}
