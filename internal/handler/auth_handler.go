package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rehabdelivery/rehab_api/internal/middleware"
	"github.com/rehabdelivery/rehab_api/internal/service"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

type AuthHandler struct {
	admins      *service.AdminService
	rateLimiter *middleware.InvalidAuthRateLimiter
}

func NewAuthHandler(admins *service.AdminService, rateLimiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{admins: admins, rateLimiter: rateLimiter}
}

// Login authenticates an admin by email or bare username.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if !h.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many failed login attempts, try again later")
		return
	}

	token, user, err := h.admins.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated admin's identity from the token claims.
func (h *AuthHandler) Me(c *gin.Context) {
	utils.Success(c, 200, "OK", gin.H{
		"userId": c.GetInt64("user_id"),
		"email":  c.GetString("email"),
		"role":   c.GetString("role"),
	})
}
