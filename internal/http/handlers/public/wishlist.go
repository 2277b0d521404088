package public

import (
	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddWishlistRequest 添加心愿单请求
type AddWishlistRequest struct {
	ProductID   uint `json:"product_id" binding:"required"`
	VariationID uint `json:"variation_id"`
}

// RemoveWishlistRequest 移除心愿单请求（条目ID 与 商品键 二选一）
type RemoveWishlistRequest struct {
	EntryID     string `json:"entry_id"`
	ProductID   uint   `json:"product_id"`
	VariationID uint   `json:"variation_id"`
}

// GetWishlist 获取心愿单
func (h *Handler) GetWishlist(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}

	entries, err := h.WishlistService.List(c.Request.Context(), identity)
	if err != nil {
		respondWithMappedError(c, err, wishlistErrorRules, response.CodeInternal, "wishlist fetch failed")
		return
	}

	response.Success(c, gin.H{"items": entries})
}

// AddWishlistEntry 添加心愿单条目（重复添加为幂等空操作）
func (h *Handler) AddWishlistEntry(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}

	var req AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.WishlistService.Add(c.Request.Context(), identity, req.ProductID, req.VariationID); err != nil {
		respondWithMappedError(c, err, wishlistErrorRules, response.CodeInternal, "wishlist update failed")
		return
	}

	response.Success(c, gin.H{"added": true})
}

// RemoveWishlistEntry 移除心愿单条目
func (h *Handler) RemoveWishlistEntry(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}

	var req RemoveWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	err := h.WishlistService.Remove(c.Request.Context(), identity, service.RemoveWishlistInput{
		EntryID:     req.EntryID,
		ProductID:   req.ProductID,
		VariationID: req.VariationID,
	})
	if err != nil {
		respondWithMappedError(c, err, wishlistErrorRules, response.CodeInternal, "wishlist update failed")
		return
	}

	response.Success(c, gin.H{"removed": true})
}
