package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Keerthithev/eduexpo/internal/usecase"
)

// PasswordHandler exposes both password-reset flows: the OTP flow and the
// legacy link flow.
type PasswordHandler struct {
	reset *usecase.PasswordResetService
}

// NewPasswordHandler constructs a PasswordHandler.
func NewPasswordHandler(reset *usecase.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{reset: reset}
}

// RegisterRoutes binds the password-reset endpoints.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/send-otp", h.SendOTP)
	r.POST("/verify-otp", h.VerifyOTP)
	r.POST("/resend-otp", h.ResendOTP)
	r.POST("/reset-password-otp", h.ResetPasswordOTP)
	r.POST("/forgot-password", h.ForgotPassword)
	r.POST("/reset-password/:token", h.ResetWithToken)
}

// SendOTP enters the reset flow. The response message never reveals whether
// the email is registered; only the emailExists field does.
func (h *PasswordHandler) SendOTP(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("a valid email is required"))
		return
	}

	exists, err := h.reset.SendOTP(c.Request.Context(), req.Email)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrDeliveryFailed, Status: http.StatusInternalServerError, Message: "failed to send reset code"},
		}, http.StatusInternalServerError, "failed to send reset code")
		return
	}

	c.JSON(http.StatusOK, SendOTPResponse{
		Success:     true,
		Message:     "if the email is registered, a reset code has been sent",
		EmailExists: exists,
	})
}

// VerifyOTP pre-checks a reset code without consuming it.
func (h *PasswordHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("email and otp are required"))
		return
	}

	if err := h.reset.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrExpiredCode, Status: http.StatusBadRequest, Message: "invalid or expired reset code"},
		}, http.StatusInternalServerError, "failed to verify code")
		return
	}

	c.JSON(http.StatusOK, VerifyOTPResponse{
		Success:  true,
		Verified: true,
		Message:  "code verified",
	})
}

// ResendOTP reissues the reset code, superseding any pending one.
func (h *PasswordHandler) ResendOTP(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("a valid email is required"))
		return
	}

	if err := h.reset.ResendOTP(c.Request.Context(), req.Email); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "no account found for this email"},
			{Err: usecase.ErrDeliveryFailed, Status: http.StatusInternalServerError, Message: "failed to send reset code"},
		}, http.StatusInternalServerError, "failed to resend code")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "a new reset code has been sent",
	})
}

// ResetPasswordOTP finishes the OTP flow: it re-validates the code, updates
// the password, and consumes the record.
func (h *PasswordHandler) ResetPasswordOTP(c *gin.Context) {
	var req ResetPasswordOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("email, otp and password are required"))
		return
	}

	if err := h.reset.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.Password); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password must be at least 6 characters"},
			{Err: usecase.ErrInvalidOrExpiredCode, Status: http.StatusBadRequest, Message: "invalid or expired reset code"},
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "no account found for this email"},
		}, http.StatusInternalServerError, "failed to reset password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "password reset successfully",
	})
}

// ForgotPassword starts the legacy link flow and returns the reset artifacts.
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("a valid email is required"))
		return
	}

	resetURL, err := h.reset.RequestResetLink(c.Request.Context(), req.Email)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "no account found for this email"},
			{Err: usecase.ErrDeliveryFailed, Status: http.StatusInternalServerError, Message: "failed to send reset email"},
		}, http.StatusInternalServerError, "failed to process request")
		return
	}

	c.JSON(http.StatusOK, ForgotPasswordResponse{
		Success:    true,
		Message:    "a reset link has been sent to your email",
		ResetToken: resetURL[strings.LastIndex(resetURL, "/")+1:],
		ResetURL:   resetURL,
	})
}

// ResetWithToken finishes the legacy link flow.
func (h *PasswordHandler) ResetWithToken(c *gin.Context) {
	var req ResetWithTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("a new password is required"))
		return
	}

	if err := h.reset.ResetWithToken(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrExpiredToken, Status: http.StatusBadRequest, Message: "invalid or expired reset token"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password must be at least 6 characters"},
		}, http.StatusInternalServerError, "failed to reset password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "password reset successfully",
	})
}
