package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rehabdelivery/rehab_api/internal/models"
	"github.com/rehabdelivery/rehab_api/internal/repository"
	"github.com/rehabdelivery/rehab_api/internal/service"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

type ProductHandler struct {
	stock *service.StockService
}

func NewProductHandler(stock *service.StockService) *ProductHandler {
	return &ProductHandler{stock: stock}
}

// List returns products, newest first, with optional status/company/search
// filters from query params.
func (h *ProductHandler) List(c *gin.Context) {
	filter := &repository.ProductFilter{
		Status: models.ProductStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	if raw := c.Query("companyId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid companyId")
			return
		}
		filter.CompanyID = &id
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		utils.Error(c, 400, "INVALID_REQUEST", "Unknown status filter")
		return
	}

	products, err := h.stock.List(c.Request.Context(), filter)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", products)
}

// Get returns one product by tracking id.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.stock.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// Create adds a single hand-entered product to the stock.
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.stock.CreateProduct(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// Delete removes a product from the inventory.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.stock.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Product deleted", nil)
}

// Assign hands a product to a delivery worker.
func (h *ProductHandler) Assign(c *gin.Context) {
	var req struct {
		WorkerID int64 `json:"workerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.stock.Assign(c.Request.Context(), c.Param("id"), req.WorkerID)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Product assigned", product)
}

// Detach takes a product back from its worker.
func (h *ProductHandler) Detach(c *gin.Context) {
	product, err := h.stock.Detach(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Product returned to stock", product)
}

// MarkDelivered confirms delivery.
func (h *ProductHandler) MarkDelivered(c *gin.Context) {
	product, err := h.stock.MarkDelivered(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Product marked delivered", product)
}

// Revert undoes a mistaken delivery confirmation.
func (h *ProductHandler) Revert(c *gin.Context) {
	product, err := h.stock.RevertToDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Delivery reverted", product)
}

// Cancel takes a product out of circulation.
func (h *ProductHandler) Cancel(c *gin.Context) {
	product, err := h.stock.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Product canceled", product)
}

// SetStatus forces a product status for manual stock corrections.
func (h *ProductHandler) SetStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.stock.SetStatus(c.Request.Context(), c.Param("id"), models.ProductStatus(req.Status))
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Product status updated", product)
}

// Dashboard returns the landing page counters.
func (h *ProductHandler) Dashboard(c *gin.Context) {
	counts, err := h.stock.Dashboard(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Dashboard counters", counts)
}
