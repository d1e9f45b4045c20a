package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rehabdelivery/rehab_api/internal/service"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

type WorkerHandler struct {
	workers *service.WorkerService
	stock   *service.StockService
}

func NewWorkerHandler(workers *service.WorkerService, stock *service.StockService) *WorkerHandler {
	return &WorkerHandler{workers: workers, stock: stock}
}

func workerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid worker id")
		return 0, false
	}
	return id, true
}

// List returns all delivery workers.
func (h *WorkerHandler) List(c *gin.Context) {
	workers, err := h.workers.List(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Workers retrieved", workers)
}

// Get returns one delivery worker.
func (h *WorkerHandler) Get(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	worker, err := h.workers.Get(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Worker retrieved", worker)
}

// Create registers a delivery worker.
func (h *WorkerHandler) Create(c *gin.Context) {
	var req service.WorkerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	worker, err := h.workers.Create(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 201, "Worker created", worker)
}

// Update rewrites a delivery worker's details.
func (h *WorkerHandler) Update(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	var req service.WorkerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	worker, err := h.workers.Update(c.Request.Context(), id, req)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Worker updated", worker)
}

// Delete removes a delivery worker.
func (h *WorkerHandler) Delete(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	if err := h.workers.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Worker deleted", nil)
}

// Sheet returns the products currently out with a worker.
func (h *WorkerHandler) Sheet(c *gin.Context) {
	id, ok := workerID(c)
	if !ok {
		return
	}
	products, err := h.stock.WorkerSheet(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Worker sheet retrieved", products)
}
