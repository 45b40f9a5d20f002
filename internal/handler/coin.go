package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"duomate/internal/domain"
	"duomate/internal/service"
)

// CoinHandler handles HTTP requests for the DuoCoins ledger.
type CoinHandler struct {
	coinService *service.CoinService
}

// NewCoinHandler creates a new CoinHandler.
func NewCoinHandler(coinService *service.CoinService) *CoinHandler {
	return &CoinHandler{coinService: coinService}
}

// Summary handles GET /v1/coins
func (h *CoinHandler) Summary(c *gin.Context) {
	summary, err := h.coinService.Summarize(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// History handles GET /v1/coins/history
func (h *CoinHandler) History(c *gin.Context) {
	history, err := h.coinService.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// ListVouchers handles GET /v1/vouchers
func (h *CoinHandler) ListVouchers(c *gin.Context) {
	c.JSON(http.StatusOK, domain.VoucherCatalog)
}

// RedeemVoucher handles POST /v1/vouchers/:id/redeem
func (h *CoinHandler) RedeemVoucher(c *gin.Context) {
	balance, err := h.coinService.RedeemVoucher(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
