package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keerthithev/eduexpo/internal/usecase"
)

// RegistrationHandler exposes the three-step OTP-gated signup flow.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(registration *usecase.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

// RegisterRoutes binds registration endpoints.
func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/verify-register", h.VerifyRegister)
	r.POST("/set-password", h.SetPassword)
	r.POST("/resend-register-otp", h.ResendOTP)
}

// Register starts the flow by issuing a verification code.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("name and a valid email are required"))
		return
	}

	if err := h.registration.Start(c.Request.Context(), req.Name, req.Email); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrDuplicateAccount, Status: http.StatusBadRequest, Message: "an account with this email already exists"},
			{Err: usecase.ErrDeliveryFailed, Status: http.StatusInternalServerError, Message: "failed to send verification code"},
		}, http.StatusInternalServerError, "failed to start registration")
		return
	}

	c.JSON(http.StatusOK, StepResponse{
		Success: true,
		Message: "verification code sent to your email",
		Step:    1,
	})
}

// VerifyRegister confirms the code and advances the flow.
func (h *RegistrationHandler) VerifyRegister(c *gin.Context) {
	var req VerifyRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("email and otp are required"))
		return
	}

	name, err := h.registration.Verify(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrNoPendingRequest, Status: http.StatusBadRequest, Message: "no pending registration found, please register again"},
			{Err: usecase.ErrInvalidOrExpiredCode, Status: http.StatusBadRequest, Message: "invalid or expired verification code"},
			{Err: usecase.ErrDuplicateAccount, Status: http.StatusBadRequest, Message: "an account with this email already exists"},
		}, http.StatusInternalServerError, "failed to verify code")
		return
	}

	c.JSON(http.StatusOK, StepResponse{
		Success: true,
		Message: "email verified, please set your password",
		Step:    2,
		Name:    name,
	})
}

// SetPassword finishes signup and returns the session credential.
func (h *RegistrationHandler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("email and password are required"))
		return
	}

	result, err := h.registration.Complete(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrNoPendingRequest, Status: http.StatusBadRequest, Message: "no pending registration found, please register again"},
			{Err: usecase.ErrOTPNotVerified, Status: http.StatusBadRequest, Message: "please verify your email before setting a password"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password must be at least 6 characters"},
			{Err: usecase.ErrDuplicateAccount, Status: http.StatusBadRequest, Message: "an account with this email already exists"},
		}, http.StatusInternalServerError, "failed to complete registration")
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Success: true,
		Message: "registration completed",
		Token:   result.Token,
		User:    result.Account.Public(),
	})
}

// ResendOTP re-issues a registration code, superseding any pending one.
func (h *RegistrationHandler) ResendOTP(c *gin.Context) {
	var req ResendRegisterOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("name and a valid email are required"))
		return
	}

	if err := h.registration.Resend(c.Request.Context(), req.Name, req.Email); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrDuplicateAccount, Status: http.StatusBadRequest, Message: "an account with this email already exists"},
			{Err: usecase.ErrDeliveryFailed, Status: http.StatusInternalServerError, Message: "failed to send verification code"},
		}, http.StatusInternalServerError, "failed to resend code")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "a new verification code has been sent",
	})
}
