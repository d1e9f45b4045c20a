package utils

import "errors"

// Common application errors used across services.
var (
	ErrValidation       = errors.New("VALIDATION_ERROR")
	ErrProductNotFound  = errors.New("PRODUCT_NOT_FOUND")
	ErrWorkerNotFound   = errors.New("WORKER_NOT_FOUND")
	ErrCompanyNotFound  = errors.New("COMPANY_NOT_FOUND")
	ErrAdminNotFound    = errors.New("ADMIN_NOT_FOUND")
	ErrBatchNotFound    = errors.New("BATCH_NOT_FOUND")
	ErrAlreadyAssigned  = errors.New("ALREADY_ASSIGNED")
	ErrDuplicateID      = errors.New("DUPLICATE_ID")
	ErrInvalidStatus    = errors.New("INVALID_STATUS")
	ErrInvalidToken     = errors.New("INVALID_TOKEN")
	ErrBadCredentials   = errors.New("INVALID_CREDENTIALS")
	ErrForbidden        = errors.New("FORBIDDEN")
	ErrSelfRemoval      = errors.New("SELF_REMOVAL")
	ErrExtractionFailed = errors.New("EXTRACTION_FAILED")
)
