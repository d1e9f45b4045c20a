package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rehabdelivery/rehab_api/internal/service"
	"github.com/rehabdelivery/rehab_api/internal/utils"
)

type TreasuryHandler struct {
	treasury *service.TreasuryService
}

func NewTreasuryHandler(treasury *service.TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{treasury: treasury}
}

// GetSettlement computes the settlement report. Optional query params:
// companyId, dateFrom, dateTo (YYYY-MM-DD, dateTo inclusive).
func (h *TreasuryHandler) GetSettlement(c *gin.Context) {
	var filter service.SettlementFilter

	if raw := c.Query("companyId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid companyId")
			return
		}
		filter.CompanyID = &id
	}
	if raw := c.Query("dateFrom"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid dateFrom, expected YYYY-MM-DD")
			return
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("dateTo"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid dateTo, expected YYYY-MM-DD")
			return
		}
		filter.DateTo = &to
	}

	settlement, err := h.treasury.Settlement(c.Request.Context(), filter)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Settlement computed", settlement)
}

// Reset clears all delivered products after payout. Super admin only, gated
// at the route.
func (h *TreasuryHandler) Reset(c *gin.Context) {
	removed, err := h.treasury.ResetTreasury(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.Success(c, 200, "Treasury reset", gin.H{"removed": removed})
}
