package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	DeliveryDetailID uint `json:"delivery_detail_id" binding:"required"`
	ShippingMethodID uint `json:"shipping_method_id" binding:"required"`
}

// PlaceOrder 从购物车下单（每条购物车行生成一条订单）
func (h *Handler) PlaceOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	orders, err := h.OrderWorkflowService.PlaceOrder(uid, req.DeliveryDetailID, req.ShippingMethodID)
	if err != nil {
		respondWithMappedError(c, err, orderPlaceErrorRules, response.CodeInternal, "order create failed")
		return
	}

	response.Success(c, gin.H{"orders": orders})
}

// ListOrders 获取当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	trackingID := strings.TrimSpace(c.Query("tracking_id"))

	orders, total, err := h.OrderQueryService.ListUserOrders(uid, repository.OrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		TrackingID: trackingID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 获取当前用户订单详情（含状态历史）
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}

	order, err := h.OrderQueryService.GetUserOrder(uint(orderID), uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		default:
			respondError(c, response.CodeInternal, "order fetch failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"order":  order,
		"status": service.CurrentOrderStatus(order),
	})
}

// CancelOrder 买家取消订单（仅下单后未接单前）
func (h *Handler) CancelOrder(c *gin.Context) {
	h.userTransition(c, h.OrderWorkflowService.CancelOrder)
}

// RequestRefund 买家申请退款（仅已送达后）
func (h *Handler) RequestRefund(c *gin.Context) {
	h.userTransition(c, h.OrderWorkflowService.RequestRefund)
}

func (h *Handler) userTransition(c *gin.Context, op func(orderID, userID uint) (*models.Order, error)) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}

	order, err := op(uint(orderID), uid)
	if err != nil {
		respondWithMappedError(c, err, orderTransitionErrorRules, response.CodeInternal, "order update failed")
		return
	}

	response.Success(c, gin.H{
		"order":  order,
		"status": service.CurrentOrderStatus(order),
	})
}

// TrackOrder 公开跟踪查询（按跟踪号，不含收货信息）
func (h *Handler) TrackOrder(c *gin.Context) {
	trackingID := c.Param("tracking_id")

	order, err := h.OrderQueryService.GetByTrackingID(trackingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		default:
			respondError(c, response.CodeInternal, "order fetch failed", err)
		}
		return
	}

	timeline := make([]gin.H, 0, len(order.Statuses))
	for _, status := range order.Statuses {
		timeline = append(timeline, gin.H{
			"status":      status.Status,
			"description": status.Description,
			"created_at":  status.CreatedAt,
		})
	}

	response.Success(c, gin.H{
		"tracking_id": order.TrackingID,
		"status":      service.CurrentOrderStatus(order),
		"created_at":  order.CreatedAt,
		"timeline":    timeline,
	})
}
