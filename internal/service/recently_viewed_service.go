package service

import (
	"context"
	"time"

	"github.com/vendora-next/internal/cache"
	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/google/uuid"
)

// RecentlyViewedService 最近浏览服务（双模式）
// 同一商品只保留一条记录，重复浏览刷新时间；最多保留 cap 条。
type RecentlyViewedService struct {
	recentRepo repository.RecentlyViewedRepository
	guestStore GuestStore
	cap        int
}

// NewRecentlyViewedService 创建最近浏览服务
func NewRecentlyViewedService(recentRepo repository.RecentlyViewedRepository, guestStore GuestStore, cap int) *RecentlyViewedService {
	if cap <= 0 {
		cap = constants.RecentlyViewedCapDefault
	}
	return &RecentlyViewedService{
		recentRepo: recentRepo,
		guestStore: guestStore,
		cap:        cap,
	}
}

// Record 记录一次商品浏览
func (s *RecentlyViewedService) Record(ctx context.Context, identity Identity, productID uint) error {
	if !identity.Valid() {
		return ErrIdentityRequired
	}
	if productID == 0 {
		return ErrProductNotAvailable
	}
	now := time.Now()

	if identity.IsUser() {
		if err := s.recentRepo.Touch(identity.UserID, productID, now); err != nil {
			return err
		}
		return s.recentRepo.TrimToLatest(identity.UserID, s.cap)
	}

	entries, err := s.guestStore.List(ctx, identity.GuestID, constants.GuestCollectionRecentlyViewed)
	if err != nil {
		return err
	}
	filtered := make([]cache.GuestEntry, 0, len(entries)+1)
	for _, entry := range entries {
		if entry.ProductID == productID {
			continue
		}
		filtered = append(filtered, entry)
	}
	filtered = append([]cache.GuestEntry{{
		ID:        uuid.NewString(),
		ProductID: productID,
		ViewedAt:  now,
		CreatedAt: now,
	}}, filtered...)
	if len(filtered) > s.cap {
		filtered = filtered[:s.cap]
	}
	return s.guestStore.Save(ctx, identity.GuestID, constants.GuestCollectionRecentlyViewed, filtered)
}

// List 获取最近浏览（新到旧）
func (s *RecentlyViewedService) List(ctx context.Context, identity Identity) ([]models.RecentlyViewed, []cache.GuestEntry, error) {
	if !identity.Valid() {
		return nil, nil, ErrIdentityRequired
	}
	if identity.IsUser() {
		rows, err := s.recentRepo.ListByUser(identity.UserID, s.cap)
		if err != nil {
			return nil, nil, err
		}
		return rows, nil, nil
	}
	entries, err := s.guestStore.List(ctx, identity.GuestID, constants.GuestCollectionRecentlyViewed)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) > s.cap {
		entries = entries[:s.cap]
	}
	return nil, entries, nil
}
