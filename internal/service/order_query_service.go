package service

import (
	"strings"
	"time"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"
)

// OrderQueryService 订单查询服务
// 只读路径：买家订单列表/详情、公开跟踪号查询、店铺侧动态与报表。
type OrderQueryService struct {
	orderRepo         repository.OrderRepository
	statusRepo        repository.OrderStatusRepository
	activityFeedLimit int
}

// NewOrderQueryService 创建订单查询服务
func NewOrderQueryService(orderRepo repository.OrderRepository, statusRepo repository.OrderStatusRepository, activityFeedLimit int) *OrderQueryService {
	if activityFeedLimit <= 0 {
		activityFeedLimit = 20
	}
	return &OrderQueryService{
		orderRepo:         orderRepo,
		statusRepo:        statusRepo,
		activityFeedLimit: activityFeedLimit,
	}
}

// CurrentOrderStatus 取订单当前状态（最新一条状态行）
func CurrentOrderStatus(order *models.Order) string {
	if order == nil || len(order.Statuses) == 0 {
		return ""
	}
	return order.Statuses[0].Status
}

// GetUserOrder 获取买家订单详情
func (s *OrderQueryService) GetUserOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		logger.Errorw("order_query_fetch_failed", "order_id", orderID, "user_id", userID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetStoreOrder 获取店铺侧订单详情
// storeID 为 0 时不限制店铺（平台管理员），否则订单必须属于该店铺。
func (s *OrderQueryService) GetStoreOrder(orderID, storeID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		logger.Errorw("order_query_fetch_failed", "order_id", orderID, "store_id", storeID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if storeID > 0 && order.StoreID != storeID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByTrackingID 根据跟踪号获取订单（公开查询，不校验归属）
func (s *OrderQueryService) GetByTrackingID(trackingID string) (*models.Order, error) {
	normalized := strings.ToUpper(strings.TrimSpace(trackingID))
	if normalized == "" || !strings.HasPrefix(normalized, constants.TrackingIDPrefix) {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByTrackingID(normalized)
	if err != nil {
		logger.Errorw("order_query_tracking_failed", "tracking_id", normalized, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders 分页获取买家订单
func (s *OrderQueryService) ListUserOrders(userID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.UserID = userID
	orders, total, err := s.orderRepo.ListByUser(filter)
	if err != nil {
		logger.Errorw("order_query_list_failed", "user_id", userID, "error", err)
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// ListStoreOrders 分页获取店铺订单
func (s *OrderQueryService) ListStoreOrders(storeID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.StoreID = storeID
	orders, total, err := s.orderRepo.ListByStore(filter)
	if err != nil {
		logger.Errorw("order_query_store_list_failed", "store_id", storeID, "error", err)
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// StoreActivity 获取店铺最近订单动态（状态行倒序）
func (s *OrderQueryService) StoreActivity(storeID uint, limit int) ([]repository.OrderActivityRow, error) {
	if limit <= 0 || limit > 100 {
		limit = s.activityFeedLimit
	}
	rows, err := s.statusRepo.ListRecentByStore(storeID, limit)
	if err != nil {
		logger.Errorw("order_query_activity_failed", "store_id", storeID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	return rows, nil
}

// CategoryBreakdown 店铺按月/品类销售汇总
func (s *OrderQueryService) CategoryBreakdown(storeID uint, year int) ([]repository.CategoryBreakdownRow, error) {
	if year <= 0 {
		year = time.Now().Year()
	}
	rows, err := s.statusRepo.CategoryBreakdownByStore(storeID, year)
	if err != nil {
		logger.Errorw("order_query_breakdown_failed", "store_id", storeID, "year", year, "error", err)
		return nil, ErrOrderFetchFailed
	}
	return rows, nil
}
