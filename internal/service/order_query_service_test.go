package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderQueryTest(t *testing.T) (*OrderQueryService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "order_query_test")
	svc := NewOrderQueryService(
		repository.NewOrderRepository(db),
		repository.NewOrderStatusRepository(db),
		20,
	)
	return svc, db
}

func seedOrder(t *testing.T, db *gorm.DB, userID, storeID uint, statuses ...string) *models.Order {
	t.Helper()
	variation := seedVariation(t, db, storeID, "9.90", 10)
	order := models.Order{
		TrackingID:  fmt.Sprintf("TRACK-SEED%06d", variation.ID),
		UserID:      userID,
		StoreID:     storeID,
		ProductID:   variation.ProductID,
		VariationID: variation.ID,
		Quantity:    1,
		UnitPrice:   models.NewMoneyFromDecimal(decimal.RequireFromString("9.90")),
		TotalAmount: models.NewMoneyFromDecimal(decimal.RequireFromString("9.90")),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	for _, status := range statuses {
		row := models.OrderStatus{OrderID: order.ID, Status: status, ActorID: userID}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("create status failed: %v", err)
		}
	}
	return &order
}

func TestCurrentOrderStatusUsesLatestRow(t *testing.T) {
	svc, db := setupOrderQueryTest(t)
	order := seedOrder(t, db, 7, 1, constants.OrderStatusPlaced, constants.OrderStatusConfirmed)

	loaded, err := svc.GetUserOrder(order.ID, 7)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got := CurrentOrderStatus(loaded); got != constants.OrderStatusConfirmed {
		t.Fatalf("expected latest status OrderConfirmed, got %s", got)
	}
}

func TestCurrentOrderStatusEmpty(t *testing.T) {
	if got := CurrentOrderStatus(nil); got != "" {
		t.Fatalf("expected empty status for nil order, got %s", got)
	}
	if got := CurrentOrderStatus(&models.Order{}); got != "" {
		t.Fatalf("expected empty status for order without history, got %s", got)
	}
}

func TestGetUserOrderScopedToOwner(t *testing.T) {
	svc, db := setupOrderQueryTest(t)
	order := seedOrder(t, db, 7, 1, constants.OrderStatusPlaced)

	if _, err := svc.GetUserOrder(order.ID, 8); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign user, got %v", err)
	}
}

func TestGetStoreOrderScoping(t *testing.T) {
	svc, db := setupOrderQueryTest(t)
	order := seedOrder(t, db, 7, 3, constants.OrderStatusPlaced)

	loaded, err := svc.GetStoreOrder(order.ID, 3)
	if err != nil || loaded == nil {
		t.Fatalf("store scoped fetch failed: %v", err)
	}

	// storeID 为 0 表示平台侧不限店铺
	loaded, err = svc.GetStoreOrder(order.ID, 0)
	if err != nil || loaded == nil {
		t.Fatalf("unscoped fetch failed: %v", err)
	}

	if _, err := svc.GetStoreOrder(order.ID, 4); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign store, got %v", err)
	}
}

func TestGetByTrackingIDNormalizesInput(t *testing.T) {
	svc, db := setupOrderQueryTest(t)
	order := seedOrder(t, db, 7, 1, constants.OrderStatusPlaced)

	loaded, err := svc.GetByTrackingID("  " + order.TrackingID + " ")
	if err != nil || loaded == nil {
		t.Fatalf("trimmed lookup failed: %v", err)
	}
	loaded, err = svc.GetByTrackingID("track-seed" + order.TrackingID[len("TRACK-SEED"):])
	if err != nil || loaded == nil || loaded.ID != order.ID {
		t.Fatalf("lowercase lookup failed: %v %+v", err, loaded)
	}
}

func TestGetByTrackingIDRejectsBadPrefix(t *testing.T) {
	svc, _ := setupOrderQueryTest(t)
	for _, input := range []string{"", "  ", "ORDER-ABCDEF1234", "SEED000001"} {
		if _, err := svc.GetByTrackingID(input); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound for %q, got %v", input, err)
		}
	}
}

func TestGetByTrackingIDUnknown(t *testing.T) {
	svc, _ := setupOrderQueryTest(t)
	if _, err := svc.GetByTrackingID("TRACK-ZZZZZZZZZZ"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestListUserOrdersFiltersByUser(t *testing.T) {
	svc, db := setupOrderQueryTest(t)
	seedOrder(t, db, 7, 1, constants.OrderStatusPlaced)
	seedOrder(t, db, 7, 2, constants.OrderStatusPlaced)
	seedOrder(t, db, 8, 1, constants.OrderStatusPlaced)

	orders, total, err := svc.ListUserOrders(7, repository.OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders for user, got total=%d len=%d", total, len(orders))
	}
	for _, order := range orders {
		if order.UserID != 7 {
			t.Fatalf("foreign order leaked into listing: %+v", order)
		}
	}
}

func TestListStoreOrdersFiltersByStore(t *testing.T) {
	svc, db := setupOrderQueryTest(t)
	seedOrder(t, db, 7, 5, constants.OrderStatusPlaced)
	seedOrder(t, db, 8, 5, constants.OrderStatusPlaced)
	seedOrder(t, db, 7, 6, constants.OrderStatusPlaced)

	orders, total, err := svc.ListStoreOrders(5, repository.OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders for store, got total=%d len=%d", total, len(orders))
	}
}
