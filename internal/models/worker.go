package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryWorker represents a delivery agent. CommissionAmount is the flat
// per-delivery fee paid to the worker.
type DeliveryWorker struct {
	ID               int64           `db:"id" json:"id"`
	Name             string          `db:"name" json:"name"`
	Phone            string          `db:"phone" json:"phone"`
	CommissionAmount decimal.Decimal `db:"commission_amount" json:"commissionAmount"`
	ProfilePicURL    string          `db:"profile_pic_url" json:"profilePicUrl,omitempty"`
	CertificatesURL  string          `db:"certificates_url" json:"certificatesUrl,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt"`
}
