package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"gorm.io/gorm"
)

func setupRecentlyViewedTest(t *testing.T, cap int) (*RecentlyViewedService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "recently_viewed_test")
	svc := NewRecentlyViewedService(
		repository.NewRecentlyViewedRepository(db),
		newMemGuestStore(),
		cap,
	)
	return svc, db
}

func TestRecentlyViewedDeduplicatesByProduct(t *testing.T) {
	svc, db := setupRecentlyViewedTest(t, 10)
	identity := UserIdentity(7)
	variation := seedVariation(t, db, 1, "9.90", 5)

	if err := svc.Record(context.Background(), identity, variation.ProductID); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	if err := svc.Record(context.Background(), identity, variation.ProductID); err != nil {
		t.Fatalf("repeat record failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.RecentlyViewed{}).Where("user_id = ?", 7).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single row per product, got %d", count)
	}
}

func TestRecentlyViewedTrimsToCap(t *testing.T) {
	svc, db := setupRecentlyViewedTest(t, 2)
	identity := UserIdentity(7)

	for i := 0; i < 3; i++ {
		variation := seedVariation(t, db, 1, "9.90", 5)
		if err := svc.Record(context.Background(), identity, variation.ProductID); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	var count int64
	if err := db.Model(&models.RecentlyViewed{}).Where("user_id = ?", 7).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected rows trimmed to cap 2, got %d", count)
	}
}

func TestRecentlyViewedGuestNewestFirst(t *testing.T) {
	svc, db := setupRecentlyViewedTest(t, 2)
	identity := GuestIdentity("guest-rv")

	var productIDs []uint
	for i := 0; i < 3; i++ {
		variation := seedVariation(t, db, 1, "9.90", 5)
		productIDs = append(productIDs, variation.ProductID)
		if err := svc.Record(context.Background(), identity, variation.ProductID); err != nil {
			t.Fatalf("guest record failed: %v", err)
		}
	}

	_, entries, err := svc.List(context.Background(), identity)
	if err != nil {
		t.Fatalf("guest list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected guest entries trimmed to cap 2, got %d", len(entries))
	}
	if entries[0].ProductID != productIDs[2] || entries[1].ProductID != productIDs[1] {
		t.Fatalf("expected newest first ordering, got %+v", entries)
	}
}

func TestRecentlyViewedRejectsInvalidInput(t *testing.T) {
	svc, _ := setupRecentlyViewedTest(t, 10)

	if err := svc.Record(context.Background(), Identity{}, 1); !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("expected ErrIdentityRequired, got %v", err)
	}
	if err := svc.Record(context.Background(), UserIdentity(7), 0); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable for zero product, got %v", err)
	}
}
