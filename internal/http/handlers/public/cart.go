package public

import (
	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID        uint  `json:"product_id" binding:"required"`
	VariationID      uint  `json:"variation_id"`
	Quantity         int   `json:"quantity" binding:"required"`
	DeliveryDetailID *uint `json:"delivery_detail_id"`
}

// UpdateCartItemRequest 批量改数量请求项
type UpdateCartItemRequest struct {
	ProductID   uint `json:"product_id" binding:"required"`
	VariationID uint `json:"variation_id"`
	Quantity    int  `json:"quantity"`
}

// UpdateCartRequest 批量改数量请求
type UpdateCartRequest struct {
	Items []UpdateCartItemRequest `json:"items" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}

	items, err := h.CartService.List(c.Request.Context(), identity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart fetch failed")
		return
	}

	response.Success(c, gin.H{"items": items})
}

// AddCartItem 加入购物车（库存在此刻预留）
func (h *Handler) AddCartItem(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	err := h.CartService.Add(c.Request.Context(), identity, service.AddToCartInput{
		ProductID:        req.ProductID,
		VariationID:      req.VariationID,
		Quantity:         req.Quantity,
		DeliveryDetailID: req.DeliveryDetailID,
	})
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}

	response.Success(c, gin.H{"added": true})
}

// UpdateCart 批量设置数量（不动预留库存）
func (h *Handler) UpdateCart(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	items := make([]service.UpdateCartItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.UpdateCartItemInput{
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Quantity:    item.Quantity,
		})
	}

	if err := h.CartService.Update(c.Request.Context(), identity, items); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}

	response.Success(c, gin.H{"updated": true})
}

// DeleteCartLine 移除购物车行（回补预留库存）
func (h *Handler) DeleteCartLine(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		return
	}

	lineID := c.Param("id")
	if lineID == "" {
		respondError(c, response.CodeBadRequest, "missing cart line id", nil)
		return
	}

	if err := h.CartService.Remove(c.Request.Context(), identity, lineID); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}

	response.Success(c, gin.H{"removed": true})
}
