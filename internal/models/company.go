package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company represents a partner business whose parcels we deliver.
// BenefitAmount is the flat per-delivery revenue in DZD, not a percentage.
type Company struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	BenefitAmount decimal.Decimal `db:"benefit_amount" json:"benefitAmount"`
	// SheetTemplate selects the extraction prompt for this company's
	// delivery sheets (e.g. "zr_express"). Empty means the generic template.
	SheetTemplate string    `db:"sheet_template" json:"sheetTemplate,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
