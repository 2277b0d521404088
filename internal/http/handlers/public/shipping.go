package public

import (
	"strings"

	"github.com/vendora-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// QuoteShippingRequest 运费报价请求
type QuoteShippingRequest struct {
	Country          string `json:"country" binding:"required"`
	State            string `json:"state"`
	City             string `json:"city"`
	ShippingMethodID uint   `json:"shipping_method_id" binding:"required"`
}

// ListShippingMethods 获取启用中的配送方式
func (h *Handler) ListShippingMethods(c *gin.Context) {
	methods, err := h.ShippingService.ListMethods()
	if err != nil {
		respondError(c, response.CodeInternal, "shipping methods fetch failed", err)
		return
	}
	response.Success(c, gin.H{"methods": methods})
}

// QuoteShipping 按地址与配送方式报价
func (h *Handler) QuoteShipping(c *gin.Context) {
	var req QuoteShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	quote, err := h.ShippingService.Resolve(
		strings.TrimSpace(req.Country),
		strings.TrimSpace(req.State),
		strings.TrimSpace(req.City),
		req.ShippingMethodID,
	)
	if err != nil {
		respondWithMappedError(c, err, orderPlaceErrorRules, response.CodeInternal, "shipping quote failed")
		return
	}

	response.Success(c, quote)
}
