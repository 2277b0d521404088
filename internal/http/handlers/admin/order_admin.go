package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminOrderListItem 管理端订单列表返回
type AdminOrderListItem struct {
	models.Order
	Status          string `json:"status"`
	UserEmail       string `json:"user_email,omitempty"`
	UserDisplayName string `json:"user_display_name,omitempty"`
}

// resolveStoreScope 解析当前管理员的店铺范围。
// 卖家/代理账号绑定 StoreID 时只能操作自己店铺的订单，
// 未绑定的账号（平台管理员）可通过 store_id 查询参数指定店铺。
func (h *Handler) resolveStoreScope(c *gin.Context) (uint, bool) {
	adminID, ok := getAdminID(c)
	if !ok {
		return 0, false
	}

	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "admin fetch failed", err)
		return 0, false
	}
	if admin == nil {
		respondError(c, response.CodeUnauthorized, "admin not found", nil)
		return 0, false
	}
	if admin.StoreID != nil && *admin.StoreID > 0 {
		return *admin.StoreID, true
	}

	var storeID uint
	if raw := strings.TrimSpace(c.Query("store_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			storeID = uint(parsed)
		}
	}
	return storeID, true
}

// AdminListOrders 管理端订单列表（按店铺范围）
func (h *Handler) AdminListOrders(c *gin.Context) {
	storeID, ok := h.resolveStoreScope(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	trackingID := strings.TrimSpace(c.Query("tracking_id"))
	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	orders, total, err := h.OrderQueryService.ListStoreOrders(storeID, repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		TrackingID:  trackingID,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
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

	userMap := map[uint]models.User{}
	userIDs := make([]uint, 0, len(orders))
	seen := map[uint]struct{}{}
	for _, order := range orders {
		if order.UserID == 0 {
			continue
		}
		if _, ok := seen[order.UserID]; ok {
			continue
		}
		seen[order.UserID] = struct{}{}
		userIDs = append(userIDs, order.UserID)
	}
	if len(userIDs) > 0 {
		users, err := h.UserRepo.ListByIDs(userIDs)
		if err != nil {
			respondError(c, response.CodeInternal, "order fetch failed", err)
			return
		}
		for _, user := range users {
			userMap[user.ID] = user
		}
	}

	items := make([]AdminOrderListItem, 0, len(orders))
	for i := range orders {
		var email, displayName string
		if user, ok := userMap[orders[i].UserID]; ok {
			email = user.Email
			displayName = user.DisplayName
		}
		items = append(items, AdminOrderListItem{
			Order:           orders[i],
			Status:          service.CurrentOrderStatus(&orders[i]),
			UserEmail:       email,
			UserDisplayName: displayName,
		})
	}

	response.SuccessWithPage(c, items, pagination)
}

// AdminGetOrder 管理端订单详情（含状态历史）
func (h *Handler) AdminGetOrder(c *gin.Context) {
	storeID, ok := h.resolveStoreScope(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}

	order, err := h.OrderQueryService.GetStoreOrder(uint(orderID), storeID)
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

// AdminAcceptOrder 卖家接单
func (h *Handler) AdminAcceptOrder(c *gin.Context) {
	h.adminTransition(c, h.OrderWorkflowService.AcceptOrder)
}

// AdminDeclineOrder 卖家拒单（回补预留库存）
func (h *Handler) AdminDeclineOrder(c *gin.Context) {
	h.adminTransition(c, h.OrderWorkflowService.DeclineOrder)
}

// AdminProcessOrder 开始备货
func (h *Handler) AdminProcessOrder(c *gin.Context) {
	h.adminTransition(c, h.OrderWorkflowService.ProcessOrder)
}

// AdminShipOrder 发货
func (h *Handler) AdminShipOrder(c *gin.Context) {
	h.adminTransition(c, h.OrderWorkflowService.ShipOrder)
}

// AdminOutForDelivery 开始派送
func (h *Handler) AdminOutForDelivery(c *gin.Context) {
	h.adminTransition(c, h.OrderWorkflowService.OutForDelivery)
}

// AdminMarkAsDelivered 确认送达
func (h *Handler) AdminMarkAsDelivered(c *gin.Context) {
	h.adminTransition(c, h.OrderWorkflowService.MarkAsDelivered)
}

// AdminApproveRefund 退款裁决：通过
func (h *Handler) AdminApproveRefund(c *gin.Context) {
	h.adminTransition(c, h.OrderWorkflowService.ApproveRefund)
}

// AdminDeclineRefund 退款裁决：拒绝
func (h *Handler) AdminDeclineRefund(c *gin.Context) {
	h.adminTransition(c, h.OrderWorkflowService.DeclineRefund)
}

// adminTransition 通用迁移入口
// 绑定店铺的管理员只能迁移本店铺订单，范围外按不存在处理；
// 未绑定店铺（平台管理员）不受限。
func (h *Handler) adminTransition(c *gin.Context, op func(orderID, actorID, storeID uint) (*models.Order, error)) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "admin fetch failed", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeUnauthorized, "admin not found", nil)
		return
	}
	var storeID uint
	if admin.StoreID != nil {
		storeID = *admin.StoreID
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}

	order, err := op(uint(orderID), adminID, storeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrInvalidStatusTransition):
			respondError(c, response.CodeBadRequest, "status transition not allowed", nil)
		case errors.Is(err, service.ErrOrderConflict):
			respondError(c, response.CodeConflict, "order modified concurrently, retry", nil)
		default:
			respondError(c, response.CodeInternal, "order update failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"order":  order,
		"status": service.CurrentOrderStatus(order),
	})
}

// AdminOrderActivity 店铺最近订单动态
func (h *Handler) AdminOrderActivity(c *gin.Context) {
	storeID, ok := h.resolveStoreScope(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rows, err := h.OrderQueryService.StoreActivity(storeID, limit)
	if err != nil {
		respondError(c, response.CodeInternal, "activity fetch failed", err)
		return
	}

	response.Success(c, gin.H{"items": rows})
}

// AdminCategoryBreakdown 店铺按分类的年度销量分布
func (h *Handler) AdminCategoryBreakdown(c *gin.Context) {
	storeID, ok := h.resolveStoreScope(c)
	if !ok {
		return
	}

	year, _ := strconv.Atoi(c.Query("year"))

	rows, err := h.OrderQueryService.CategoryBreakdown(storeID, year)
	if err != nil {
		respondError(c, response.CodeInternal, "breakdown fetch failed", err)
		return
	}

	response.Success(c, gin.H{"items": rows})
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
