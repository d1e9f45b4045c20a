package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rehabdelivery/rehab_api/internal/service"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

type CompanyHandler struct {
	companies *service.CompanyService
}

func NewCompanyHandler(companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// List returns all partner companies.
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Companies retrieved", companies)
}

// Create registers a partner company.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req service.CreateCompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	company, err := h.companies.Create(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 201, "Company created", company)
}

// Delete removes a partner company.
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid company id")
		return
	}
	if err := h.companies.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Company deleted", nil)
}
