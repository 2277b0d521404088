package service

import (
	"context"
	"time"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/queue"
	"github.com/vendora-next/internal/repository"
)

// GuestMergeService 访客数据合并服务
// 登录/注册成功且请求携带访客ID时触发，把访客集合并入用户持久化记录。
// 通过 SETNX 标记保证同一会话只合并一次；四类集合各自独立失败，
// 某一类失败只记录告警，不影响其余集合；失败的集合保留在缓存中等待 TTL。
type GuestMergeService struct {
	guestStore   GuestStore
	cartRepo     repository.CartRepository
	wishlistRepo repository.WishlistRepository
	recentRepo   repository.RecentlyViewedRepository
	userRepo     repository.UserRepository
	queueClient  *queue.Client
	recentCap    int
	mergeFlagTTL time.Duration
}

// NewGuestMergeService 创建访客数据合并服务
func NewGuestMergeService(
	guestStore GuestStore,
	cartRepo repository.CartRepository,
	wishlistRepo repository.WishlistRepository,
	recentRepo repository.RecentlyViewedRepository,
	userRepo repository.UserRepository,
	queueClient *queue.Client,
	recentCap int,
	mergeFlagTTLMinutes int,
) *GuestMergeService {
	if recentCap <= 0 {
		recentCap = constants.RecentlyViewedCapDefault
	}
	if mergeFlagTTLMinutes <= 0 {
		mergeFlagTTLMinutes = constants.GuestMergeFlagTTLMinutes
	}
	return &GuestMergeService{
		guestStore:   guestStore,
		cartRepo:     cartRepo,
		wishlistRepo: wishlistRepo,
		recentRepo:   recentRepo,
		userRepo:     userRepo,
		queueClient:  queueClient,
		recentCap:    recentCap,
		mergeFlagTTL: time.Duration(mergeFlagTTLMinutes) * time.Minute,
	}
}

// Merge 把访客数据并入用户记录
// 同一 (用户, 访客) 会话内重复调用为空操作（合并标记已占用）。
func (s *GuestMergeService) Merge(ctx context.Context, userID uint, guestID string) error {
	if userID == 0 {
		return ErrIdentityRequired
	}
	normalized, err := NormalizeGuestID(guestID)
	if err != nil {
		return err
	}

	acquired, err := s.guestStore.AcquireMergeFlag(ctx, userID, normalized, s.mergeFlagTTL)
	if err != nil {
		logger.Warnw("guest_merge_flag_failed", "user_id", userID, "guest_id", normalized, "error", err)
		return err
	}
	if !acquired {
		logger.Debugw("guest_merge_skipped_already_done", "user_id", userID, "guest_id", normalized)
		return nil
	}

	if err := s.mergeCart(ctx, userID, normalized); err != nil {
		logger.Warnw("guest_merge_collection_failed", "collection", constants.GuestCollectionCart,
			"user_id", userID, "guest_id", normalized, "error", err)
	}
	if err := s.mergeWishlist(ctx, userID, normalized); err != nil {
		logger.Warnw("guest_merge_collection_failed", "collection", constants.GuestCollectionWishlist,
			"user_id", userID, "guest_id", normalized, "error", err)
	}
	if err := s.mergeRecentlyViewed(ctx, userID, normalized); err != nil {
		logger.Warnw("guest_merge_collection_failed", "collection", constants.GuestCollectionRecentlyViewed,
			"user_id", userID, "guest_id", normalized, "error", err)
	}
	if err := s.mergePushToken(ctx, userID, normalized); err != nil {
		logger.Warnw("guest_merge_push_token_failed", "user_id", userID, "guest_id", normalized, "error", err)
	}

	// 合并后该访客ID不再使用，延迟清理缓存残留键
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueGuestStorePurge(queue.GuestStorePurgePayload{GuestID: normalized}, s.mergeFlagTTL); err != nil {
			logger.Warnw("guest_store_purge_enqueue_failed", "guest_id", normalized, "error", err)
		}
	}

	logger.Infow("guest_merge_done", "user_id", userID, "guest_id", normalized)
	return nil
}

// mergeCart 购物车合并：按 (商品, 规格) 命中时直接设置数量（后写覆盖），
// 未命中时新建行。库存在访客加购时已预留，这里不再调整。
func (s *GuestMergeService) mergeCart(ctx context.Context, userID uint, guestID string) error {
	entries, err := s.guestStore.List(ctx, guestID, constants.GuestCollectionCart)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		existing, err := s.cartRepo.GetByKey(userID, entry.ProductID, entry.VariationID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := s.cartRepo.UpdateQuantity(existing.ID, entry.Quantity); err != nil {
				return err
			}
			continue
		}
		if err := s.cartRepo.Create(&models.CartLine{
			UserID:           userID,
			ProductID:        entry.ProductID,
			VariationID:      entry.VariationID,
			StoreID:          entry.StoreID,
			Quantity:         entry.Quantity,
			DeliveryDetailID: entry.DeliveryDetailID,
		}); err != nil {
			return err
		}
	}
	return s.guestStore.Delete(ctx, guestID, constants.GuestCollectionCart)
}

// mergeWishlist 心愿单合并：按 (商品, 规格) 去重写入
func (s *GuestMergeService) mergeWishlist(ctx context.Context, userID uint, guestID string) error {
	entries, err := s.guestStore.List(ctx, guestID, constants.GuestCollectionWishlist)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		existing, err := s.wishlistRepo.GetByKey(userID, entry.ProductID, entry.VariationID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := s.wishlistRepo.Create(&models.WishlistEntry{
			UserID:      userID,
			ProductID:   entry.ProductID,
			VariationID: entry.VariationID,
		}); err != nil {
			return err
		}
	}
	return s.guestStore.Delete(ctx, guestID, constants.GuestCollectionWishlist)
}

// mergeRecentlyViewed 最近浏览合并：按商品去重、时间取合并时刻，合并后裁剪
func (s *GuestMergeService) mergeRecentlyViewed(ctx context.Context, userID uint, guestID string) error {
	entries, err := s.guestStore.List(ctx, guestID, constants.GuestCollectionRecentlyViewed)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, entry := range entries {
		if err := s.recentRepo.Touch(userID, entry.ProductID, now); err != nil {
			return err
		}
	}
	if err := s.recentRepo.TrimToLatest(userID, s.recentCap); err != nil {
		return err
	}
	return s.guestStore.Delete(ctx, guestID, constants.GuestCollectionRecentlyViewed)
}

// mergePushToken 推送令牌合并：从共享 hash 挪到用户档案
func (s *GuestMergeService) mergePushToken(ctx context.Context, userID uint, guestID string) error {
	token, err := s.guestStore.GetPushToken(ctx, guestID)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	if err := s.userRepo.UpdatePushToken(userID, token); err != nil {
		return err
	}
	return s.guestStore.DelPushToken(ctx, guestID)
}
