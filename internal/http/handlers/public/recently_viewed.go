package public

import (
	"github.com/vendora-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RecordViewRequest 浏览上报请求
type RecordViewRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// RecordRecentlyViewed 记录一次商品浏览
func (h *Handler) RecordRecentlyViewed(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}

	var req RecordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.RecentlyViewedService.Record(c.Request.Context(), identity, req.ProductID); err != nil {
		respondError(c, response.CodeInternal, "recently viewed update failed", err)
		return
	}

	response.Success(c, gin.H{"recorded": true})
}

// ListRecentlyViewed 获取最近浏览（新到旧）
func (h *Handler) ListRecentlyViewed(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}

	rows, entries, err := h.RecentlyViewedService.List(c.Request.Context(), identity)
	if err != nil {
		respondError(c, response.CodeInternal, "recently viewed fetch failed", err)
		return
	}

	if identity.IsUser() {
		response.Success(c, gin.H{"items": rows})
		return
	}
	response.Success(c, gin.H{"items": entries})
}
