package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/promo_api/internal/middleware"
	"github.com/GTDGit/promo_api/internal/service"
	"github.com/GTDGit/promo_api/internal/utils"
)

type authService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

type AuthHandler struct {
	authService authService
	limiter     *middleware.InvalidAuthRateLimiter
}

func NewAuthHandler(authService authService, limiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

func (h *AuthHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	if h.limiter != nil && h.limiter.Blocked(ip) {
		utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many failed login attempts, try again later")
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if h.limiter != nil && (errors.Is(err, utils.ErrInvalidCredentials) || errors.Is(err, utils.ErrAccountInactive)) {
			h.limiter.Fail(ip)
		}
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Login successful", res)
}
