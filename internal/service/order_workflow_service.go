package service

import (
	"crypto/rand"
	"math/big"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NotificationSink 状态变更通知出口
// 通知失败只记录日志，绝不阻塞或回滚订单操作。
type NotificationSink interface {
	NotifyOrderStatus(orderID, userID uint, trackingID, status, description string)
}

// OrderWorkflowService 订单工作流服务
// 负责下单与状态迁移：迁移前校验当前状态（最新一条状态行），
// 校验与追加在同一事务内完成，并通过订单行上的 status_version
// 条件递增挡掉并发迁移。
type OrderWorkflowService struct {
	orderRepo     repository.OrderRepository
	statusRepo    repository.OrderStatusRepository
	cartRepo      repository.CartRepository
	variationRepo repository.ProductVariationRepository
	deliveryRepo  repository.DeliveryDetailRepository
	shipping      *ShippingService
	notifier      NotificationSink
}

// NewOrderWorkflowService 创建订单工作流服务
func NewOrderWorkflowService(
	orderRepo repository.OrderRepository,
	statusRepo repository.OrderStatusRepository,
	cartRepo repository.CartRepository,
	variationRepo repository.ProductVariationRepository,
	deliveryRepo repository.DeliveryDetailRepository,
	shipping *ShippingService,
	notifier NotificationSink,
) *OrderWorkflowService {
	return &OrderWorkflowService{
		orderRepo:     orderRepo,
		statusRepo:    statusRepo,
		cartRepo:      cartRepo,
		variationRepo: variationRepo,
		deliveryRepo:  deliveryRepo,
		shipping:      shipping,
		notifier:      notifier,
	}
}

const trackingIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateTrackingID 生成跟踪号 TRACK-<10位大写字母数字>
func generateTrackingID() (string, error) {
	buf := make([]byte, constants.TrackingIDLength)
	max := big.NewInt(int64(len(trackingIDCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = trackingIDCharset[n.Int64()]
	}
	return constants.TrackingIDPrefix + string(buf), nil
}

// PlaceOrder 下单：把用户购物车整体转为订单
// 每条购物车行生成一条订单，单价取下单时规格价格快照，
// 总额 = 数量*单价 + 运费，创建后不再重算。
// 整个结算在一个事务内完成：配送解析失败或任何一行失败都不会产生订单，
// 购物车与库存保持原样（库存在加购时已预留，下单不再扣减）。
func (s *OrderWorkflowService) PlaceOrder(userID, deliveryDetailID, shippingMethodID uint) ([]models.Order, error) {
	lines, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		logger.Errorw("order_place_cart_fetch_failed", "user_id", userID, "error", err)
		return nil, ErrOrderCreateFailed
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	detail, err := s.deliveryRepo.GetByIDAndUser(deliveryDetailID, userID)
	if err != nil {
		logger.Errorw("order_place_delivery_fetch_failed", "user_id", userID, "error", err)
		return nil, ErrOrderCreateFailed
	}
	if detail == nil {
		return nil, ErrDeliveryDetailNotFound
	}

	quote, err := s.shipping.Resolve(detail.Country, detail.State, detail.City, shippingMethodID)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(lines))
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		statusRepo := s.statusRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)
		variationRepo := s.variationRepo.WithTx(tx)

		for _, line := range lines {
			variation, err := variationRepo.GetByID(line.VariationID)
			if err != nil {
				return err
			}
			if variation == nil {
				return ErrProductNotAvailable
			}

			trackingID, err := generateTrackingID()
			if err != nil {
				return err
			}

			unitPrice := variation.PriceAmount
			total := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Add(quote.Cost.Decimal)
			order := models.Order{
				TrackingID:       trackingID,
				UserID:           userID,
				StoreID:          line.StoreID,
				ProductID:        line.ProductID,
				VariationID:      line.VariationID,
				Quantity:         line.Quantity,
				UnitPrice:        unitPrice,
				DeliveryDetailID: deliveryDetailID,
				ShippingMethodID: shippingMethodID,
				ShippingCost:     quote.Cost,
				TotalAmount:      models.NewMoneyFromDecimal(total),
			}
			if err := orderRepo.Create(&order); err != nil {
				return err
			}
			if err := statusRepo.Append(&models.OrderStatus{
				OrderID:     order.ID,
				Status:      constants.OrderStatusPlaced,
				Description: OrderStatusDescription(constants.OrderStatusPlaced),
				ActorID:     userID,
			}); err != nil {
				return err
			}
			if err := cartRepo.DeleteByID(line.ID); err != nil {
				return err
			}
			orders = append(orders, order)
		}
		return nil
	})
	if err != nil {
		switch err {
		case ErrProductNotAvailable:
			return nil, err
		default:
			logger.Errorw("order_place_failed", "user_id", userID, "error", err)
			return nil, ErrOrderCreateFailed
		}
	}

	for _, order := range orders {
		s.notify(&order, constants.OrderStatusPlaced)
	}
	return orders, nil
}

// CancelOrder 买家取消订单（OrderPlaced -> Cancelled）
func (s *OrderWorkflowService) CancelOrder(orderID, userID uint) (*models.Order, error) {
	return s.transition(orderID, OrderOpCancel, userID, userID, 0)
}

// RequestRefund 买家申请退款（Delivered -> RefundRequested）
func (s *OrderWorkflowService) RequestRefund(orderID, userID uint) (*models.Order, error) {
	return s.transition(orderID, OrderOpRequestRefund, userID, userID, 0)
}

// AcceptOrder 卖家确认订单（OrderPlaced -> OrderConfirmed）
func (s *OrderWorkflowService) AcceptOrder(orderID, actorID, storeID uint) (*models.Order, error) {
	return s.transition(orderID, OrderOpAccept, actorID, 0, storeID)
}

// DeclineOrder 卖家拒绝订单（OrderPlaced -> OrderDeclined）
func (s *OrderWorkflowService) DeclineOrder(orderID, actorID, storeID uint) (*models.Order, error) {
	return s.transition(orderID, OrderOpDecline, actorID, 0, storeID)
}

// ProcessOrder 卖家开始备货（OrderConfirmed -> Processing）
func (s *OrderWorkflowService) ProcessOrder(orderID, actorID, storeID uint) (*models.Order, error) {
	return s.transition(orderID, OrderOpProcess, actorID, 0, storeID)
}

// ShipOrder 卖家发货（Processing -> Shipped）
func (s *OrderWorkflowService) ShipOrder(orderID, actorID, storeID uint) (*models.Order, error) {
	return s.transition(orderID, OrderOpShip, actorID, 0, storeID)
}

// OutForDelivery 配送员开始派送（Shipped -> OutForDelivery）
func (s *OrderWorkflowService) OutForDelivery(orderID, actorID, storeID uint) (*models.Order, error) {
	return s.transition(orderID, OrderOpOutForDelivery, actorID, 0, storeID)
}

// MarkAsDelivered 配送员确认送达（OutForDelivery -> Delivered）
func (s *OrderWorkflowService) MarkAsDelivered(orderID, actorID, storeID uint) (*models.Order, error) {
	return s.transition(orderID, OrderOpMarkDelivered, actorID, 0, storeID)
}

// ApproveRefund 管理员批准退款（RefundRequested -> RefundApproved）
func (s *OrderWorkflowService) ApproveRefund(orderID, actorID, storeID uint) (*models.Order, error) {
	return s.transition(orderID, OrderOpApproveRefund, actorID, 0, storeID)
}

// DeclineRefund 管理员拒绝退款（RefundRequested -> RefundDeclined）
func (s *OrderWorkflowService) DeclineRefund(orderID, actorID, storeID uint) (*models.Order, error) {
	return s.transition(orderID, OrderOpDeclineRefund, actorID, 0, storeID)
}

// transition 通用状态迁移
// requireOwner > 0 时要求订单属于该用户（买家侧操作）；
// requireStore > 0 时要求订单属于该店铺（绑定店铺的管理员账号），
// 范围外的订单一律按不存在处理。
// 迁移表固定：操作的前置状态不匹配当前状态（最新状态行）即失败，不做重试。
func (s *OrderWorkflowService) transition(orderID uint, op string, actorID, requireOwner, requireStore uint) (*models.Order, error) {
	rule, ok := orderTransitions[op]
	if !ok {
		return nil, ErrUnknownOrderStatus
	}

	var updated *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		statusRepo := s.statusRepo.WithTx(tx)

		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if requireOwner > 0 && order.UserID != requireOwner {
			return ErrOrderNotFound
		}
		if requireStore > 0 && order.StoreID != requireStore {
			return ErrOrderNotFound
		}

		latest, err := statusRepo.LatestByOrderID(order.ID)
		if err != nil {
			return err
		}
		current := ""
		if latest != nil {
			current = latest.Status
		}
		if current != rule.Required {
			return ErrInvalidStatusTransition
		}

		// 乐观锁：版本号未命中说明另一迁移已先行提交
		rows, err := orderRepo.BumpStatusVersion(order.ID, order.StatusVersion)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrOrderConflict
		}

		if err := statusRepo.Append(&models.OrderStatus{
			OrderID:     order.ID,
			Status:      rule.Target,
			Description: OrderStatusDescription(rule.Target),
			ActorID:     actorID,
		}); err != nil {
			return err
		}

		if restockOrderStatuses[rule.Target] {
			variationRepo := s.variationRepo.WithTx(tx)
			if _, err := variationRepo.ReleaseStock(order.VariationID, order.Quantity); err != nil {
				return err
			}
		}

		// 返回迁移后的订单快照：状态历史与版本号都取追加后的值
		refreshed, err := orderRepo.GetByID(order.ID)
		if err != nil {
			return err
		}
		updated = refreshed
		return nil
	})
	if err != nil {
		switch err {
		case ErrOrderNotFound, ErrInvalidStatusTransition, ErrOrderConflict:
			return nil, err
		default:
			logger.Errorw("order_transition_failed", "order_id", orderID, "op", op, "error", err)
			return nil, ErrOrderUpdateFailed
		}
	}

	s.notify(updated, rule.Target)
	return updated, nil
}

func (s *OrderWorkflowService) notify(order *models.Order, status string) {
	if s.notifier == nil || order == nil {
		return
	}
	s.notifier.NotifyOrderStatus(order.ID, order.UserID, order.TrackingID, status, OrderStatusDescription(status))
}
