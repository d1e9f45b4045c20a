package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rehabdelivery/rehab_api/internal/utils"
)

// serviceError maps service sentinel errors onto the response envelope.
// Unknown errors become a generic 500 so internals never leak to clients.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrValidation):
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request data")
	case errors.Is(err, utils.ErrBadCredentials):
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, utils.ErrForbidden):
		utils.Error(c, 403, "FORBIDDEN", "Not allowed")
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrWorkerNotFound):
		utils.Error(c, 404, "WORKER_NOT_FOUND", "Delivery worker not found")
	case errors.Is(err, utils.ErrCompanyNotFound):
		utils.Error(c, 404, "COMPANY_NOT_FOUND", "Company not found")
	case errors.Is(err, utils.ErrAdminNotFound):
		utils.Error(c, 404, "ADMIN_NOT_FOUND", "Admin account not found")
	case errors.Is(err, utils.ErrBatchNotFound):
		utils.Error(c, 404, "BATCH_NOT_FOUND", "Staged batch not found or expired")
	case errors.Is(err, utils.ErrAlreadyAssigned):
		utils.Error(c, 409, "ALREADY_ASSIGNED", "Product is already assigned to a worker")
	case errors.Is(err, utils.ErrDuplicateID):
		utils.Error(c, 409, "DUPLICATE_ID", "A product with this tracking id already exists")
	case errors.Is(err, utils.ErrInvalidStatus):
		utils.Error(c, 409, "INVALID_STATUS", "Operation not allowed in the product's current status")
	case errors.Is(err, utils.ErrSelfRemoval):
		utils.Error(c, 409, "SELF_REMOVAL", "Cannot remove your own account")
	case errors.Is(err, utils.ErrExtractionFailed):
		utils.Error(c, 502, "EXTRACTION_FAILED", "No document could be extracted")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
