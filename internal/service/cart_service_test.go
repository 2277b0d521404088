package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/vendora-next/internal/cache"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memGuestStore 内存版访客存储，测试共用
type memGuestStore struct {
	collections map[string][]cache.GuestEntry
	tokens      map[string]string
	mergeFlags  map[string]bool
}

func newMemGuestStore() *memGuestStore {
	return &memGuestStore{
		collections: make(map[string][]cache.GuestEntry),
		tokens:      make(map[string]string),
		mergeFlags:  make(map[string]bool),
	}
}

func guestKey(guestID, kind string) string {
	return guestID + "_" + kind
}

func (m *memGuestStore) List(_ context.Context, guestID, kind string) ([]cache.GuestEntry, error) {
	entries := m.collections[guestKey(guestID, kind)]
	out := make([]cache.GuestEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (m *memGuestStore) Save(_ context.Context, guestID, kind string, entries []cache.GuestEntry) error {
	m.collections[guestKey(guestID, kind)] = entries
	return nil
}

func (m *memGuestStore) Delete(_ context.Context, guestID, kind string) error {
	delete(m.collections, guestKey(guestID, kind))
	return nil
}

func (m *memGuestStore) GetPushToken(_ context.Context, guestID string) (string, error) {
	return m.tokens[guestID], nil
}

func (m *memGuestStore) SetPushToken(_ context.Context, guestID, token string) error {
	m.tokens[guestID] = token
	return nil
}

func (m *memGuestStore) DelPushToken(_ context.Context, guestID string) error {
	delete(m.tokens, guestID)
	return nil
}

func (m *memGuestStore) AcquireMergeFlag(_ context.Context, userID uint, guestID string, _ time.Duration) (bool, error) {
	key := fmt.Sprintf("%d:%s", userID, guestID)
	if m.mergeFlags[key] {
		return false, nil
	}
	m.mergeFlags[key] = true
	return true, nil
}

func openServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariation{},
		&models.CartLine{},
		&models.WishlistEntry{},
		&models.RecentlyViewed{},
		&models.Order{},
		&models.OrderStatus{},
		&models.DeliveryDetail{},
		&models.ShippingMethod{},
		&models.ShippingZone{},
		&models.ShippingRate{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func seedVariation(t *testing.T, db *gorm.DB, storeID uint, price string, stock int) *models.ProductVariation {
	t.Helper()
	product := models.Product{
		StoreID:    storeID,
		CategoryID: 1,
		Slug:       fmt.Sprintf("product-%d", time.Now().UnixNano()),
		TitleJSON:  models.JSON(map[string]interface{}{"en-US": "Product"}),
		IsActive:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variation := models.ProductVariation{
		ProductID:     product.ID,
		Name:          "Default",
		PriceAmount:   models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := db.Create(&variation).Error; err != nil {
		t.Fatalf("create variation failed: %v", err)
	}
	return &variation
}

func variationStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var variation models.ProductVariation
	if err := db.First(&variation, id).Error; err != nil {
		t.Fatalf("load variation failed: %v", err)
	}
	return variation.StockQuantity
}

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB, *memGuestStore) {
	t.Helper()
	db := openServiceTestDB(t, "cart_service_test")
	store := newMemGuestStore()
	svc := NewCartService(
		repository.NewCartRepository(db),
		repository.NewProductVariationRepository(db),
		store,
	)
	return svc, db, store
}

func TestCartAddReservesStock(t *testing.T) {
	svc, db, _ := setupCartServiceTest(t)
	variation := seedVariation(t, db, 1, "9.90", 10)

	err := svc.Add(context.Background(), UserIdentity(7), AddToCartInput{
		ProductID:   variation.ProductID,
		VariationID: variation.ID,
		Quantity:    3,
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if got := variationStock(t, db, variation.ID); got != 7 {
		t.Fatalf("expected stock 7 after reserve, got %d", got)
	}
	views, err := svc.List(context.Background(), UserIdentity(7))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 1 || views[0].Quantity != 3 {
		t.Fatalf("unexpected cart: %+v", views)
	}
}

func TestCartAddSameKeyIncrementsQuantity(t *testing.T) {
	svc, db, _ := setupCartServiceTest(t)
	variation := seedVariation(t, db, 1, "9.90", 10)
	identity := UserIdentity(7)

	input := AddToCartInput{ProductID: variation.ProductID, VariationID: variation.ID, Quantity: 2}
	if err := svc.Add(context.Background(), identity, input); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := svc.Add(context.Background(), identity, input); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	views, err := svc.List(context.Background(), identity)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected single line after dedup, got %d", len(views))
	}
	if views[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", views[0].Quantity)
	}
	if got := variationStock(t, db, variation.ID); got != 6 {
		t.Fatalf("expected stock 6, got %d", got)
	}
}

func TestCartAddInsufficientStock(t *testing.T) {
	svc, db, _ := setupCartServiceTest(t)
	variation := seedVariation(t, db, 1, "9.90", 2)

	err := svc.Add(context.Background(), UserIdentity(7), AddToCartInput{
		ProductID:   variation.ProductID,
		VariationID: variation.ID,
		Quantity:    3,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := variationStock(t, db, variation.ID); got != 2 {
		t.Fatalf("stock must stay untouched on failure, got %d", got)
	}
}

func TestCartAddInactiveProduct(t *testing.T) {
	svc, db, _ := setupCartServiceTest(t)
	variation := seedVariation(t, db, 1, "9.90", 5)
	if err := db.Model(&models.Product{}).Where("id = ?", variation.ProductID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	err := svc.Add(context.Background(), UserIdentity(7), AddToCartInput{
		ProductID:   variation.ProductID,
		VariationID: variation.ID,
		Quantity:    1,
	})
	if !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}
}

func TestCartRemoveRestoresStock(t *testing.T) {
	svc, db, _ := setupCartServiceTest(t)
	variation := seedVariation(t, db, 1, "9.90", 10)
	identity := UserIdentity(7)

	if err := svc.Add(context.Background(), identity, AddToCartInput{
		ProductID:   variation.ProductID,
		VariationID: variation.ID,
		Quantity:    4,
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	views, err := svc.List(context.Background(), identity)
	if err != nil || len(views) != 1 {
		t.Fatalf("unexpected cart state: %v %v", views, err)
	}
	if err := svc.Remove(context.Background(), identity, views[0].ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if got := variationStock(t, db, variation.ID); got != 10 {
		t.Fatalf("expected stock restored to 10, got %d", got)
	}
	views, err = svc.List(context.Background(), identity)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty cart, got %+v", views)
	}
}

func TestCartRemoveUnknownLine(t *testing.T) {
	svc, _, _ := setupCartServiceTest(t)
	err := svc.Remove(context.Background(), UserIdentity(7), "9999")
	if !errors.Is(err, ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound, got %v", err)
	}
}

func TestCartUpdateSetsQuantityWithoutTouchingStock(t *testing.T) {
	svc, db, _ := setupCartServiceTest(t)
	variation := seedVariation(t, db, 1, "9.90", 10)
	identity := UserIdentity(7)

	if err := svc.Add(context.Background(), identity, AddToCartInput{
		ProductID:   variation.ProductID,
		VariationID: variation.ID,
		Quantity:    2,
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := svc.Update(context.Background(), identity, []UpdateCartItemInput{
		{ProductID: variation.ProductID, VariationID: variation.ID, Quantity: 5},
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	views, err := svc.List(context.Background(), identity)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 1 || views[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %+v", views)
	}
	if got := variationStock(t, db, variation.ID); got != 8 {
		t.Fatalf("bulk update must not touch stock, got %d", got)
	}
}

func TestCartUpdateRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _ := setupCartServiceTest(t)
	err := svc.Update(context.Background(), UserIdentity(7), []UpdateCartItemInput{
		{ProductID: 1, VariationID: 1, Quantity: 0},
	})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestCartGuestAddAndRemove(t *testing.T) {
	svc, db, _ := setupCartServiceTest(t)
	variation := seedVariation(t, db, 1, "9.90", 10)
	identity := GuestIdentity("guest-abc")

	if err := svc.Add(context.Background(), identity, AddToCartInput{
		ProductID:   variation.ProductID,
		VariationID: variation.ID,
		Quantity:    2,
	}); err != nil {
		t.Fatalf("guest add failed: %v", err)
	}
	if got := variationStock(t, db, variation.ID); got != 8 {
		t.Fatalf("guest add must reserve stock, got %d", got)
	}

	views, err := svc.List(context.Background(), identity)
	if err != nil || len(views) != 1 {
		t.Fatalf("unexpected guest cart: %v %v", views, err)
	}
	if _, err := strconv.ParseUint(views[0].ID, 10, 64); err == nil {
		t.Fatalf("guest line id must be a uuid, got %s", views[0].ID)
	}

	if err := svc.Remove(context.Background(), identity, views[0].ID); err != nil {
		t.Fatalf("guest remove failed: %v", err)
	}
	if got := variationStock(t, db, variation.ID); got != 10 {
		t.Fatalf("guest remove must release stock, got %d", got)
	}
}

func TestCartRequiresIdentity(t *testing.T) {
	svc, _, _ := setupCartServiceTest(t)
	if _, err := svc.List(context.Background(), Identity{}); !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("expected ErrIdentityRequired, got %v", err)
	}
}
