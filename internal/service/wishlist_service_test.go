package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vendora-next/internal/repository"

	"gorm.io/gorm"
)

func setupWishlistServiceTest(t *testing.T) (*WishlistService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "wishlist_service_test")
	svc := NewWishlistService(
		repository.NewWishlistRepository(db),
		repository.NewProductVariationRepository(db),
		newMemGuestStore(),
	)
	return svc, db
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	svc, db := setupWishlistServiceTest(t)
	variation := seedVariation(t, db, 1, "19.90", 5)
	identity := UserIdentity(3)

	if err := svc.Add(context.Background(), identity, variation.ProductID, variation.ID); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := svc.Add(context.Background(), identity, variation.ProductID, variation.ID); err != nil {
		t.Fatalf("repeat add failed: %v", err)
	}

	views, err := svc.List(context.Background(), identity)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected single entry after repeated add, got %d", len(views))
	}
}

func TestWishlistAddUnknownVariation(t *testing.T) {
	svc, _ := setupWishlistServiceTest(t)
	err := svc.Add(context.Background(), UserIdentity(3), 1, 999)
	if !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}
}

func TestWishlistRemoveByKey(t *testing.T) {
	svc, db := setupWishlistServiceTest(t)
	variation := seedVariation(t, db, 1, "19.90", 5)
	identity := UserIdentity(3)

	if err := svc.Add(context.Background(), identity, variation.ProductID, variation.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.Remove(context.Background(), identity, RemoveWishlistInput{
		ProductID:   variation.ProductID,
		VariationID: variation.ID,
	}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	views, err := svc.List(context.Background(), identity)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty wishlist, got %+v", views)
	}
}

func TestWishlistRemoveMissingEntry(t *testing.T) {
	svc, _ := setupWishlistServiceTest(t)
	err := svc.Remove(context.Background(), UserIdentity(3), RemoveWishlistInput{ProductID: 1, VariationID: 2})
	if !errors.Is(err, ErrWishlistEntryNotFound) {
		t.Fatalf("expected ErrWishlistEntryNotFound, got %v", err)
	}
}

func TestWishlistGuestAddDeduplicates(t *testing.T) {
	svc, db := setupWishlistServiceTest(t)
	variation := seedVariation(t, db, 1, "19.90", 5)
	identity := GuestIdentity("guest-w")

	if err := svc.Add(context.Background(), identity, variation.ProductID, variation.ID); err != nil {
		t.Fatalf("guest add failed: %v", err)
	}
	if err := svc.Add(context.Background(), identity, variation.ProductID, variation.ID); err != nil {
		t.Fatalf("guest repeat add failed: %v", err)
	}

	views, err := svc.List(context.Background(), identity)
	if err != nil {
		t.Fatalf("guest list failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected single guest entry, got %d", len(views))
	}

	if err := svc.Remove(context.Background(), identity, RemoveWishlistInput{EntryID: views[0].ID}); err != nil {
		t.Fatalf("guest remove failed: %v", err)
	}
	views, err = svc.List(context.Background(), identity)
	if err != nil {
		t.Fatalf("guest list failed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty guest wishlist, got %+v", views)
	}
}
