package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/courseware-service/internal/controllers"
	"github.com/SAP-F-2025/courseware-service/internal/roble"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	BaseHandler
	auth *controllers.AuthController
}

func NewAuthHandler(auth *controllers.AuthController, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		auth:        auth,
	}
}

type LoginRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	KeepLoggedIn bool   `json:"keep_logged_in"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// Login authenticates against the Roble backend
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	sess, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, req.KeepLoggedIn)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged in", Data: sess})
}

// Signup registers a new account
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param account body roble.SignupRequest true "Account data"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req roble.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), req)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Account created", Data: user})
}

// VerifyEmail confirms an email verification code
// @Summary Verify email
// @Tags auth
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.auth.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Email verified"})
}

// Refresh exchanges the stored refresh token for new tokens
// @Summary Refresh session
// @Tags auth
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	if err := h.auth.Refresh(c.Request.Context()); err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Session refreshed", Data: h.auth.Snapshot().Session})
}

// Logout ends the session
// @Summary Log out
// @Tags auth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		h.RespondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

// Restore re-validates a persisted session
// @Summary Restore session
// @Tags auth
// @Router /auth/restore/{user_id} [post]
func (h *AuthHandler) Restore(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	sess, err := h.auth.Restore(c.Request.Context(), userID)
	if err != nil {
		h.RespondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Session restored", Data: sess})
}
