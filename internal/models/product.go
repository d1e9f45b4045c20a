package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus enumerates the lifecycle states of a parcel.
type ProductStatus string

const (
	StatusInStock   ProductStatus = "in_stock"
	StatusDelivery  ProductStatus = "delivery"
	StatusDelivered ProductStatus = "delivered"
	StatusCanceled  ProductStatus = "canceled"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s ProductStatus) IsValid() bool {
	switch s {
	case StatusInStock, StatusDelivery, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// Product represents a tracked parcel. The ID is the carrier tracking number
// when supplied at intake, otherwise system-assigned.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID          string          `db:"id" json:"id"`
	ClientName  string          `db:"client_name" json:"clientName"`
	Phone       string          `db:"phone" json:"phone"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CompanyID   *int64          `db:"company_id" json:"companyId,omitempty"`
	Status      ProductStatus   `db:"status" json:"status"`
	WorkerID    *int64          `db:"worker_id" json:"workerId,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
	DeliveredAt *time.Time      `db:"delivered_at" json:"deliveredAt,omitempty"`
}
