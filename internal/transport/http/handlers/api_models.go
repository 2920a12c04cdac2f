package handlers

import (
	"time"

	"github.com/Keerthithev/eduexpo/internal/core/domain"
)

// ErrorResponse is the failure payload shared by every endpoint. Success is
// always false; RemainingTime is populated only for cooldown rejections.
type ErrorResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	RemainingTime int    `json:"remainingTime,omitempty"`
}

// NewErrorResponse creates a failure payload with the given message.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// MessageResponse is a plain success acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StepResponse acknowledges progress through the registration flow.
type StepResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Step    int    `json:"step"`
	Name    string `json:"name,omitempty"`
}

// AuthResponse carries a bearer credential and the public account view.
type AuthResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Token   string               `json:"token"`
	User    domain.PublicAccount `json:"user"`
}

// AccountResponse returns the public view of the authenticated account.
type AccountResponse struct {
	Success bool                 `json:"success"`
	User    domain.PublicAccount `json:"user"`
}

// SendOTPResponse acknowledges a reset-code request. EmailExists reports
// whether a code was actually issued.
type SendOTPResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	EmailExists bool   `json:"emailExists"`
}

// VerifyOTPResponse acknowledges a read-only reset-code check.
type VerifyOTPResponse struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// ForgotPasswordResponse carries the link-based reset artifacts.
type ForgotPasswordResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
	ResetURL   string `json:"resetUrl"`
}

// GoalResponse wraps a single goal.
type GoalResponse struct {
	Success bool        `json:"success"`
	Goal    domain.Goal `json:"goal"`
}

// TopicResponse wraps a single topic.
type TopicResponse struct {
	Success bool         `json:"success"`
	Topic   domain.Topic `json:"topic"`
}

// TopicListResponse wraps the account's topics.
type TopicListResponse struct {
	Success bool           `json:"success"`
	Topics  []domain.Topic `json:"topics"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// RegisterRequest starts the registration flow.
type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// VerifyRegisterRequest confirms a registration code.
type VerifyRegisterRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// SetPasswordRequest finishes registration for a verified request.
type SetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResendRegisterOTPRequest reissues a registration code.
type ResendRegisterOTPRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EmailRequest carries just an email, used by the reset-flow entry points.
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest pre-checks a reset code.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// ResetPasswordOTPRequest finishes the OTP reset flow.
type ResetPasswordOTPRequest struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetWithTokenRequest finishes the link-based reset flow.
type ResetWithTokenRequest struct {
	Password string `json:"password" binding:"required"`
}

// GoalRequest creates or rewrites the account's goal.
type GoalRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// TopicRequest names a topic, for creation and rename.
type TopicRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateProfileRequest changes the account's public fields.
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// ChangePasswordRequest rotates the password of an authenticated account.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}
