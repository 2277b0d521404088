package public

import (
	"strconv"

	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// DeliveryDetailRequest 收货地址请求
type DeliveryDetailRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone"`
	Country     string `json:"country" binding:"required"`
	State       string `json:"state"`
	City        string `json:"city"`
	AddressLine string `json:"address_line"`
	PostalCode  string `json:"postal_code"`
	IsDefault   bool   `json:"is_default"`
}

func (r DeliveryDetailRequest) toInput() service.DeliveryDetailInput {
	return service.DeliveryDetailInput{
		Name:        r.Name,
		Phone:       r.Phone,
		Country:     r.Country,
		State:       r.State,
		City:        r.City,
		AddressLine: r.AddressLine,
		PostalCode:  r.PostalCode,
		IsDefault:   r.IsDefault,
	}
}

// ListDeliveryDetails 获取当前用户收货地址列表
func (h *Handler) ListDeliveryDetails(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	details, err := h.DeliveryDetailService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "delivery detail fetch failed", err)
		return
	}
	response.Success(c, gin.H{"items": details})
}

// GetDeliveryDetail 获取收货地址详情
func (h *Handler) GetDeliveryDetail(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid delivery detail id", nil)
		return
	}

	detail, err := h.DeliveryDetailService.Get(uint(id), uid)
	if err != nil {
		respondWithMappedError(c, err, deliveryDetailErrorRules, response.CodeInternal, "delivery detail fetch failed")
		return
	}
	response.Success(c, detail)
}

// CreateDeliveryDetail 新增收货地址
func (h *Handler) CreateDeliveryDetail(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req DeliveryDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	detail, err := h.DeliveryDetailService.Create(uid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, deliveryDetailErrorRules, response.CodeInternal, "delivery detail save failed")
		return
	}
	response.Success(c, detail)
}

// UpdateDeliveryDetail 更新收货地址
func (h *Handler) UpdateDeliveryDetail(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid delivery detail id", nil)
		return
	}

	var req DeliveryDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	detail, err := h.DeliveryDetailService.Update(uint(id), uid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, deliveryDetailErrorRules, response.CodeInternal, "delivery detail save failed")
		return
	}
	response.Success(c, detail)
}

// DeleteDeliveryDetail 删除收货地址
func (h *Handler) DeleteDeliveryDetail(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid delivery detail id", nil)
		return
	}

	if err := h.DeliveryDetailService.Delete(uint(id), uid); err != nil {
		respondWithMappedError(c, err, deliveryDetailErrorRules, response.CodeInternal, "delivery detail delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
