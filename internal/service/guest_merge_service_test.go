package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vendora-next/internal/cache"
	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupGuestMergeTest(t *testing.T, recentCap int) (*GuestMergeService, *gorm.DB, *memGuestStore) {
	t.Helper()
	db := openServiceTestDB(t, "guest_merge_test")
	store := newMemGuestStore()
	svc := NewGuestMergeService(
		store,
		repository.NewCartRepository(db),
		repository.NewWishlistRepository(db),
		repository.NewRecentlyViewedRepository(db),
		repository.NewUserRepository(db),
		nil,
		recentCap,
		30,
	)
	return svc, db, store
}

func TestGuestMergeCartSetsQuantityOnCollision(t *testing.T) {
	svc, db, store := setupGuestMergeTest(t, 10)
	guestID := uuid.NewString()
	userID := uint(7)

	colliding := seedVariation(t, db, 1, "9.90", 50)
	fresh := seedVariation(t, db, 1, "3.00", 50)

	if err := db.Create(&models.CartLine{
		UserID:      userID,
		ProductID:   colliding.ProductID,
		VariationID: colliding.ID,
		StoreID:     1,
		Quantity:    1,
	}).Error; err != nil {
		t.Fatalf("seed cart line failed: %v", err)
	}
	if err := store.Save(context.Background(), guestID, constants.GuestCollectionCart, []cache.GuestEntry{
		{ID: uuid.NewString(), ProductID: colliding.ProductID, VariationID: colliding.ID, StoreID: 1, Quantity: 5},
		{ID: uuid.NewString(), ProductID: fresh.ProductID, VariationID: fresh.ID, StoreID: 1, Quantity: 2},
	}); err != nil {
		t.Fatalf("seed guest cart failed: %v", err)
	}

	if err := svc.Merge(context.Background(), userID, guestID); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	var lines []models.CartLine
	if err := db.Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after merge, got %d", len(lines))
	}
	// 命中相同 (商品, 规格) 时数量取访客侧值
	if lines[0].Quantity != 5 {
		t.Fatalf("expected colliding line quantity 5, got %d", lines[0].Quantity)
	}
	if lines[1].VariationID != fresh.ID || lines[1].Quantity != 2 {
		t.Fatalf("unexpected new line: %+v", lines[1])
	}

	entries, err := store.List(context.Background(), guestID, constants.GuestCollectionCart)
	if err != nil {
		t.Fatalf("list guest cart failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("guest cart must be cleared after merge, got %d entries", len(entries))
	}
}

func TestGuestMergeWishlistDeduplicates(t *testing.T) {
	svc, db, store := setupGuestMergeTest(t, 10)
	guestID := uuid.NewString()
	userID := uint(7)

	existing := seedVariation(t, db, 1, "9.90", 50)
	fresh := seedVariation(t, db, 1, "3.00", 50)

	if err := db.Create(&models.WishlistEntry{
		UserID:      userID,
		ProductID:   existing.ProductID,
		VariationID: existing.ID,
	}).Error; err != nil {
		t.Fatalf("seed wishlist failed: %v", err)
	}
	if err := store.Save(context.Background(), guestID, constants.GuestCollectionWishlist, []cache.GuestEntry{
		{ID: uuid.NewString(), ProductID: existing.ProductID, VariationID: existing.ID},
		{ID: uuid.NewString(), ProductID: fresh.ProductID, VariationID: fresh.ID},
	}); err != nil {
		t.Fatalf("seed guest wishlist failed: %v", err)
	}

	if err := svc.Merge(context.Background(), userID, guestID); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.WishlistEntry{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count wishlist failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 wishlist entries after dedup merge, got %d", count)
	}
}

func TestGuestMergeRecentlyViewedTrimsToCap(t *testing.T) {
	svc, db, store := setupGuestMergeTest(t, 2)
	guestID := uuid.NewString()
	userID := uint(7)

	entries := make([]cache.GuestEntry, 0, 3)
	for i := 0; i < 3; i++ {
		variation := seedVariation(t, db, 1, "9.90", 50)
		entries = append(entries, cache.GuestEntry{ID: uuid.NewString(), ProductID: variation.ProductID})
	}
	if err := store.Save(context.Background(), guestID, constants.GuestCollectionRecentlyViewed, entries); err != nil {
		t.Fatalf("seed guest views failed: %v", err)
	}

	if err := svc.Merge(context.Background(), userID, guestID); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.RecentlyViewed{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count views failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected views trimmed to cap 2, got %d", count)
	}
}

func TestGuestMergeMovesPushToken(t *testing.T) {
	svc, db, store := setupGuestMergeTest(t, 10)
	guestID := uuid.NewString()

	user := models.User{Email: "push@example.com", PasswordHash: "hash"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if err := store.SetPushToken(context.Background(), guestID, "fcm-token-1"); err != nil {
		t.Fatalf("set token failed: %v", err)
	}

	if err := svc.Merge(context.Background(), user.ID, guestID); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	var loaded models.User
	if err := db.First(&loaded, user.ID).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if loaded.PushToken != "fcm-token-1" {
		t.Fatalf("expected push token moved to user, got %q", loaded.PushToken)
	}
	token, err := store.GetPushToken(context.Background(), guestID)
	if err != nil {
		t.Fatalf("get token failed: %v", err)
	}
	if token != "" {
		t.Fatalf("guest token must be deleted after merge, got %q", token)
	}
}

func TestGuestMergeIsIdempotentPerSession(t *testing.T) {
	svc, db, store := setupGuestMergeTest(t, 10)
	guestID := uuid.NewString()
	userID := uint(7)

	if err := svc.Merge(context.Background(), userID, guestID); err != nil {
		t.Fatalf("first merge failed: %v", err)
	}

	// 标记已占用后，再次合并不得动任何数据
	variation := seedVariation(t, db, 1, "9.90", 50)
	if err := store.Save(context.Background(), guestID, constants.GuestCollectionCart, []cache.GuestEntry{
		{ID: uuid.NewString(), ProductID: variation.ProductID, VariationID: variation.ID, StoreID: 1, Quantity: 1},
	}); err != nil {
		t.Fatalf("seed guest cart failed: %v", err)
	}
	if err := svc.Merge(context.Background(), userID, guestID); err != nil {
		t.Fatalf("repeat merge failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.CartLine{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("repeat merge must be a no-op, got %d lines", count)
	}
}

func TestGuestMergeValidatesInput(t *testing.T) {
	svc, _, _ := setupGuestMergeTest(t, 10)

	if err := svc.Merge(context.Background(), 0, uuid.NewString()); !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("expected ErrIdentityRequired, got %v", err)
	}
	if err := svc.Merge(context.Background(), 7, "not-a-uuid"); !errors.Is(err, ErrGuestIDInvalid) {
		t.Fatalf("expected ErrGuestIDInvalid, got %v", err)
	}
}
