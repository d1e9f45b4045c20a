package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StagedRow is a candidate product row produced by bulk ingestion, awaiting
// operator review. Flags are computed by the dedup engine: ExistsInInventory
// means the tracking id is already a product, DuplicateInBatch means an
// earlier row in the same batch carries the same id.
type StagedRow struct {
	TrackingID        string          `json:"trackingId"`
	ClientName        string          `json:"clientName"`
	Phone             string          `json:"phone"`
	Price             decimal.Decimal `json:"price"`
	ExistsInInventory bool            `json:"existsInInventory"`
	DuplicateInBatch  bool            `json:"duplicateInBatch"`
}

// ExtractionFailure records a document that could not be extracted. A failed
// document never aborts the rest of the batch.
type ExtractionFailure struct {
	Document string `json:"document"`
	Error    string `json:"error"`
}

// StagedBatch is the operator-editable result of a bulk ingestion run. It
// lives in Redis until committed or expired.
type StagedBatch struct {
	ID        string              `json:"id"`
	CompanyID *int64              `json:"companyId,omitempty"`
	Rows      []StagedRow         `json:"rows"`
	Failures  []ExtractionFailure `json:"failures,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}
