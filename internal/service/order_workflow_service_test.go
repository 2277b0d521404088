package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"gorm.io/gorm"
)

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) NotifyOrderStatus(_, _ uint, _, status, _ string) {
	n.events = append(n.events, status)
}

type workflowTestEnv struct {
	svc       *OrderWorkflowService
	cartSvc   *CartService
	orderRepo repository.OrderRepository
	db        *gorm.DB
	notifier  *recordingNotifier
	userID    uint
	detailID  uint
	methodID  uint
}

func setupOrderWorkflowTest(t *testing.T) *workflowTestEnv {
	t.Helper()
	db := openServiceTestDB(t, "order_workflow_test")

	orderRepo := repository.NewOrderRepository(db)
	statusRepo := repository.NewOrderStatusRepository(db)
	cartRepo := repository.NewCartRepository(db)
	variationRepo := repository.NewProductVariationRepository(db)
	deliveryRepo := repository.NewDeliveryDetailRepository(db)
	shippingSvc := NewShippingService(repository.NewShippingRepository(db))
	notifier := &recordingNotifier{}

	svc := NewOrderWorkflowService(orderRepo, statusRepo, cartRepo, variationRepo, deliveryRepo, shippingSvc, notifier)
	cartSvc := NewCartService(cartRepo, variationRepo, newMemGuestStore())

	user := models.User{Email: "buyer@example.com", PasswordHash: "hash", Status: constants.UserStatusActive}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	detail := models.DeliveryDetail{
		UserID:  user.ID,
		Name:    "Buyer",
		Country: "Malaysia",
		State:   "Selangor",
		City:    "Shah Alam",
	}
	if err := db.Create(&detail).Error; err != nil {
		t.Fatalf("create delivery detail failed: %v", err)
	}
	method := seedMethod(t, db, "Standard", true)
	zone := seedZone(t, db, "Malaysia", "", "")
	seedRate(t, db, method.ID, zone.ID, "5.50", 2, 4)

	return &workflowTestEnv{
		svc:       svc,
		cartSvc:   cartSvc,
		orderRepo: orderRepo,
		db:        db,
		notifier:  notifier,
		userID:    user.ID,
		detailID:  detail.ID,
		methodID:  method.ID,
	}
}

func (e *workflowTestEnv) addToCart(t *testing.T, variationID, productID uint, quantity int) {
	t.Helper()
	if err := e.cartSvc.Add(context.Background(), UserIdentity(e.userID), AddToCartInput{
		ProductID:   productID,
		VariationID: variationID,
		Quantity:    quantity,
	}); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
}

func (e *workflowTestEnv) placeSingleOrder(t *testing.T, quantity int) *models.Order {
	t.Helper()
	variation := seedVariation(t, e.db, 1, "9.90", 50)
	e.addToCart(t, variation.ID, variation.ProductID, quantity)
	orders, err := e.svc.PlaceOrder(e.userID, e.detailID, e.methodID)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	return &orders[0]
}

var trackingIDPattern = regexp.MustCompile(`^TRACK-[A-Z0-9]{10}$`)

func TestPlaceOrderComputesTotals(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	order := env.placeSingleOrder(t, 2)

	if !trackingIDPattern.MatchString(order.TrackingID) {
		t.Fatalf("unexpected tracking id format: %s", order.TrackingID)
	}
	if order.UnitPrice.String() != "9.90" {
		t.Fatalf("expected unit price snapshot 9.90, got %s", order.UnitPrice.String())
	}
	if order.ShippingCost.String() != "5.50" {
		t.Fatalf("expected shipping cost 5.50, got %s", order.ShippingCost.String())
	}
	// 2 * 9.90 + 5.50
	if order.TotalAmount.String() != "25.30" {
		t.Fatalf("expected total 25.30, got %s", order.TotalAmount.String())
	}

	var cartCount int64
	if err := env.db.Model(&models.CartLine{}).Where("user_id = ?", env.userID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("cart must be cleared after placement, got %d lines", cartCount)
	}

	loaded, err := env.orderRepo.GetByID(order.ID)
	if err != nil || loaded == nil {
		t.Fatalf("load order failed: %v", err)
	}
	if got := CurrentOrderStatus(loaded); got != constants.OrderStatusPlaced {
		t.Fatalf("expected initial status OrderPlaced, got %s", got)
	}
}

func TestPlaceOrderOnePerCartLine(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	first := seedVariation(t, env.db, 1, "9.90", 50)
	second := seedVariation(t, env.db, 2, "3.00", 50)
	env.addToCart(t, first.ID, first.ProductID, 1)
	env.addToCart(t, second.ID, second.ProductID, 2)

	orders, err := env.svc.PlaceOrder(env.userID, env.detailID, env.methodID)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected one order per cart line, got %d", len(orders))
	}
	if orders[0].TrackingID == orders[1].TrackingID {
		t.Fatalf("tracking ids must be unique")
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	if _, err := env.svc.PlaceOrder(env.userID, env.detailID, env.methodID); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestPlaceOrderUnknownDeliveryDetail(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	variation := seedVariation(t, env.db, 1, "9.90", 50)
	env.addToCart(t, variation.ID, variation.ProductID, 1)

	if _, err := env.svc.PlaceOrder(env.userID, 9999, env.methodID); !errors.Is(err, ErrDeliveryDetailNotFound) {
		t.Fatalf("expected ErrDeliveryDetailNotFound, got %v", err)
	}
}

func TestPlaceOrderNoShippingRate(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	variation := seedVariation(t, env.db, 1, "9.90", 50)
	env.addToCart(t, variation.ID, variation.ProductID, 1)
	otherMethod := seedMethod(t, env.db, "Express", true)

	if _, err := env.svc.PlaceOrder(env.userID, env.detailID, otherMethod.ID); !errors.Is(err, ErrNoShippingRate) {
		t.Fatalf("expected ErrNoShippingRate, got %v", err)
	}
}

func TestOrderLifecycleHappyPath(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	order := env.placeSingleOrder(t, 1)
	actorID := uint(100)

	steps := []struct {
		op     func(orderID, actorID, storeID uint) (*models.Order, error)
		target string
	}{
		{env.svc.AcceptOrder, constants.OrderStatusConfirmed},
		{env.svc.ProcessOrder, constants.OrderStatusProcessing},
		{env.svc.ShipOrder, constants.OrderStatusShipped},
		{env.svc.OutForDelivery, constants.OrderStatusOutForDelivery},
		{env.svc.MarkAsDelivered, constants.OrderStatusDelivered},
	}
	for _, step := range steps {
		updated, err := step.op(order.ID, actorID, 0)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", step.target, err)
		}
		if got := CurrentOrderStatus(updated); got != step.target {
			t.Fatalf("expected status %s, got %s", step.target, got)
		}
	}

	if _, err := env.svc.RequestRefund(order.ID, env.userID); err != nil {
		t.Fatalf("refund request failed: %v", err)
	}
	if _, err := env.svc.ApproveRefund(order.ID, actorID, 0); err != nil {
		t.Fatalf("refund approval failed: %v", err)
	}

	// 下单 + 5 次迁移 + 退款两步
	if len(env.notifier.events) != 8 {
		t.Fatalf("expected 8 notifications, got %d: %v", len(env.notifier.events), env.notifier.events)
	}
}

func TestDeclinedOrderRejectsFurtherTransitions(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	order := env.placeSingleOrder(t, 1)

	if _, err := env.svc.DeclineOrder(order.ID, 100, 0); err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if _, err := env.svc.AcceptOrder(order.ID, 100, 0); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition after decline, got %v", err)
	}
}

func TestSkippingStatesIsRejected(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	order := env.placeSingleOrder(t, 1)

	if _, err := env.svc.ShipOrder(order.ID, 100, 0); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition for skipped state, got %v", err)
	}
	if _, err := env.svc.RequestRefund(order.ID, env.userID); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("refund before delivery must fail, got %v", err)
	}
}

func TestCancelRestoresStock(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	variation := seedVariation(t, env.db, 1, "9.90", 10)
	env.addToCart(t, variation.ID, variation.ProductID, 3)
	orders, err := env.svc.PlaceOrder(env.userID, env.detailID, env.methodID)
	if err != nil || len(orders) != 1 {
		t.Fatalf("place order failed: %v", err)
	}
	if got := variationStock(t, env.db, variation.ID); got != 7 {
		t.Fatalf("expected reserved stock 7, got %d", got)
	}

	if _, err := env.svc.CancelOrder(orders[0].ID, env.userID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got := variationStock(t, env.db, variation.ID); got != 10 {
		t.Fatalf("cancel must restock, got %d", got)
	}
}

func TestDeclineRestoresStock(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	variation := seedVariation(t, env.db, 1, "9.90", 10)
	env.addToCart(t, variation.ID, variation.ProductID, 2)
	orders, err := env.svc.PlaceOrder(env.userID, env.detailID, env.methodID)
	if err != nil || len(orders) != 1 {
		t.Fatalf("place order failed: %v", err)
	}

	if _, err := env.svc.DeclineOrder(orders[0].ID, 100, 0); err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if got := variationStock(t, env.db, variation.ID); got != 10 {
		t.Fatalf("decline must restock, got %d", got)
	}
}

func TestTransitionReturnsUpdatedOrder(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	order := env.placeSingleOrder(t, 1)

	updated, err := env.svc.AcceptOrder(order.ID, 100, 0)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if got := CurrentOrderStatus(updated); got != constants.OrderStatusConfirmed {
		t.Fatalf("returned order must carry the new status, got %s", got)
	}
	if updated.StatusVersion != order.StatusVersion+1 {
		t.Fatalf("returned order must carry the bumped version, got %d", updated.StatusVersion)
	}
}

func TestAdminTransitionScopedToStore(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	order := env.placeSingleOrder(t, 1)

	// 订单属于店铺 1，绑定其他店铺的账号不可见
	if _, err := env.svc.AcceptOrder(order.ID, 100, order.StoreID+1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign store, got %v", err)
	}
	loaded, err := env.orderRepo.GetByID(order.ID)
	if err != nil || loaded == nil {
		t.Fatalf("load order failed: %v", err)
	}
	if got := CurrentOrderStatus(loaded); got != constants.OrderStatusPlaced {
		t.Fatalf("foreign store attempt must not transition, got %s", got)
	}

	if _, err := env.svc.AcceptOrder(order.ID, 100, order.StoreID); err != nil {
		t.Fatalf("own store accept failed: %v", err)
	}
}

func TestBuyerTransitionRequiresOwnership(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	order := env.placeSingleOrder(t, 1)

	if _, err := env.svc.CancelOrder(order.ID, env.userID+1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign order, got %v", err)
	}
}

func TestTransitionUnknownOrder(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	if _, err := env.svc.AcceptOrder(12345, 100, 0); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestStatusVersionGuardsConcurrentTransitions(t *testing.T) {
	env := setupOrderWorkflowTest(t)
	order := env.placeSingleOrder(t, 1)

	// 版本号不匹配时条件更新不命中
	rows, err := env.orderRepo.BumpStatusVersion(order.ID, order.StatusVersion+1)
	if err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("stale version must not match, got %d rows", rows)
	}
	rows, err = env.orderRepo.BumpStatusVersion(order.ID, order.StatusVersion)
	if err != nil {
		t.Fatalf("bump failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected exact version match to update, got %d rows", rows)
	}
}

func TestGenerateTrackingIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := generateTrackingID()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if !trackingIDPattern.MatchString(id) {
			t.Fatalf("unexpected tracking id: %s", id)
		}
		if seen[id] {
			t.Fatalf("duplicate tracking id: %s", id)
		}
		seen[id] = true
	}
}
