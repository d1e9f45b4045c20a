package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementLine is the per-product breakdown of a settlement report.
type SettlementLine struct {
	ProductID   string          `json:"productId"`
	ClientName  string          `json:"clientName"`
	CompanyName string          `json:"companyName,omitempty"`
	WorkerName  string          `json:"workerName,omitempty"`
	Benefit     decimal.Decimal `json:"benefit"`
	WorkerFee   decimal.Decimal `json:"workerFee"`
	NetBenefit  decimal.Decimal `json:"netBenefit"`
	DeliveredAt *time.Time      `json:"deliveredAt,omitempty"`
}

// Settlement aggregates delivered products into financial totals. It is a
// read-only snapshot; nothing is persisted.
type Settlement struct {
	DeliveredCount  int              `json:"deliveredCount"`
	TotalRevenue    decimal.Decimal  `json:"totalRevenue"`
	TotalWorkerFees decimal.Decimal  `json:"totalWorkerFees"`
	TotalNetBenefit decimal.Decimal  `json:"totalNetBenefit"`
	Lines           []SettlementLine `json:"lines"`
}
