package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rehabdelivery/rehab_api/internal/service"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

type AdminHandler struct {
	admins *service.AdminService
}

func NewAdminHandler(admins *service.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

func adminID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid admin id")
		return 0, false
	}
	return id, true
}

// List returns all panel accounts.
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.admins.ListAdmins(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Admins retrieved", admins)
}

// Create registers a panel account.
func (h *AdminHandler) Create(c *gin.Context) {
	var req service.CreateAdminInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	admin, err := h.admins.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 201, "Admin created", admin)
}

// UpdateRole changes a panel account's role.
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := adminID(c)
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.admins.UpdateRole(c.Request.Context(), id, req.Role); err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Role updated", nil)
}

// Delete removes a panel account. The acting admin cannot remove themselves.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := adminID(c)
	if !ok {
		return
	}
	if err := h.admins.RemoveAdmin(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Admin removed", nil)
}
