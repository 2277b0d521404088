package admin

import (
	"errors"
	"strconv"

	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ShippingMethodRequest 配送方式请求
type ShippingMethodRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// ShippingZoneRequest 配送区域请求（state/city 为空表示通配）
type ShippingZoneRequest struct {
	Country string `json:"country" binding:"required"`
	State   string `json:"state"`
	City    string `json:"city"`
}

// ShippingRateRequest 配送费率请求
type ShippingRateRequest struct {
	ShippingMethodID uint    `json:"shipping_method_id" binding:"required"`
	ZoneID           uint    `json:"zone_id" binding:"required"`
	Cost             float64 `json:"cost"`
	DaysMin          int     `json:"days_min"`
	DaysMax          int     `json:"days_max"`
}

// AdminListShippingMethods 配送方式列表（含停用）
func (h *Handler) AdminListShippingMethods(c *gin.Context) {
	methods, err := h.ShippingRepo.ListMethods(false)
	if err != nil {
		respondError(c, response.CodeInternal, "shipping methods fetch failed", err)
		return
	}
	response.Success(c, gin.H{"items": methods})
}

// AdminCreateShippingMethod 创建配送方式
func (h *Handler) AdminCreateShippingMethod(c *gin.Context) {
	var req ShippingMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	method, err := h.ShippingService.CreateMethod(service.CreateMethodInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    active,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "shipping method save failed", err)
		return
	}
	response.Success(c, method)
}

// AdminUpdateShippingMethod 更新配送方式
func (h *Handler) AdminUpdateShippingMethod(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	var req ShippingMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	method, err := h.ShippingService.UpdateMethod(id, service.CreateMethodInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    active,
	})
	if err != nil {
		if errors.Is(err, service.ErrShippingMethodNotFound) {
			respondError(c, response.CodeNotFound, "shipping method not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "shipping method save failed", err)
		return
	}
	response.Success(c, method)
}

// AdminDeleteShippingMethod 删除配送方式
func (h *Handler) AdminDeleteShippingMethod(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	if err := h.ShippingService.DeleteMethod(id); err != nil {
		if errors.Is(err, service.ErrShippingMethodNotFound) {
			respondError(c, response.CodeNotFound, "shipping method not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "shipping method delete failed", err)
		return
	}
	response.Success(c, nil)
}

// AdminListShippingZones 配送区域列表
func (h *Handler) AdminListShippingZones(c *gin.Context) {
	zones, err := h.ShippingService.ListZones()
	if err != nil {
		respondError(c, response.CodeInternal, "shipping zones fetch failed", err)
		return
	}
	response.Success(c, gin.H{"items": zones})
}

// AdminCreateShippingZone 创建配送区域
func (h *Handler) AdminCreateShippingZone(c *gin.Context) {
	var req ShippingZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	zone, err := h.ShippingService.CreateZone(service.CreateZoneInput{
		Country: req.Country,
		State:   req.State,
		City:    req.City,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "shipping zone save failed", err)
		return
	}
	response.Success(c, zone)
}

// AdminDeleteShippingZone 删除配送区域
func (h *Handler) AdminDeleteShippingZone(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	if err := h.ShippingService.DeleteZone(id); err != nil {
		if errors.Is(err, service.ErrShippingZoneNotFound) {
			respondError(c, response.CodeNotFound, "shipping zone not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "shipping zone delete failed", err)
		return
	}
	response.Success(c, nil)
}

// AdminListShippingRates 配送费率列表
func (h *Handler) AdminListShippingRates(c *gin.Context) {
	rates, err := h.ShippingService.ListRates()
	if err != nil {
		respondError(c, response.CodeInternal, "shipping rates fetch failed", err)
		return
	}
	response.Success(c, gin.H{"items": rates})
}

// AdminCreateShippingRate 创建配送费率
func (h *Handler) AdminCreateShippingRate(c *gin.Context) {
	var req ShippingRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	rate, err := h.ShippingService.CreateRate(service.CreateRateInput{
		ShippingMethodID: req.ShippingMethodID,
		ZoneID:           req.ZoneID,
		Cost:             models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Cost)),
		DaysMin:          req.DaysMin,
		DaysMax:          req.DaysMax,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShippingMethodNotFound):
			respondError(c, response.CodeBadRequest, "shipping method not found", nil)
		case errors.Is(err, service.ErrShippingZoneNotFound):
			respondError(c, response.CodeBadRequest, "shipping zone not found", nil)
		default:
			respondError(c, response.CodeInternal, "shipping rate save failed", err)
		}
		return
	}
	response.Success(c, rate)
}

// AdminDeleteShippingRate 删除配送费率
func (h *Handler) AdminDeleteShippingRate(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	if err := h.ShippingService.DeleteRate(id); err != nil {
		respondError(c, response.CodeInternal, "shipping rate delete failed", err)
		return
	}
	response.Success(c, nil)
}

func parsePathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}
