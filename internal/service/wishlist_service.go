package service

import (
	"context"
	"strconv"
	"time"

	"github.com/vendora-next/internal/cache"
	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/google/uuid"
)

// WishlistEntryView 心愿单条目视图（用户与访客统一结构）
type WishlistEntryView struct {
	ID          string          `json:"id"` // 用户为数据库主键，访客为条目 uuid
	ProductID   uint            `json:"product_id"`
	VariationID uint            `json:"variation_id"`
	Product     *models.Product `json:"product,omitempty"`
}

// RemoveWishlistInput 移除心愿单条目输入
// 二选一：显式条目ID，或 (商品, 规格) 键。
type RemoveWishlistInput struct {
	EntryID     string
	ProductID   uint
	VariationID uint
}

// WishlistService 心愿单服务（双模式）
// 同一 (商品, 规格) 不重复：已存在时添加为幂等空操作。
type WishlistService struct {
	wishlistRepo  repository.WishlistRepository
	variationRepo repository.ProductVariationRepository
	guestStore    GuestStore
}

// NewWishlistService 创建心愿单服务
func NewWishlistService(wishlistRepo repository.WishlistRepository, variationRepo repository.ProductVariationRepository, guestStore GuestStore) *WishlistService {
	return &WishlistService{
		wishlistRepo:  wishlistRepo,
		variationRepo: variationRepo,
		guestStore:    guestStore,
	}
}

// List 获取心愿单
func (s *WishlistService) List(ctx context.Context, identity Identity) ([]WishlistEntryView, error) {
	if !identity.Valid() {
		return nil, ErrIdentityRequired
	}
	if identity.IsUser() {
		entries, err := s.wishlistRepo.ListByUser(identity.UserID)
		if err != nil {
			return nil, err
		}
		views := make([]WishlistEntryView, 0, len(entries))
		for _, entry := range entries {
			views = append(views, WishlistEntryView{
				ID:          strconv.FormatUint(uint64(entry.ID), 10),
				ProductID:   entry.ProductID,
				VariationID: entry.VariationID,
				Product:     entry.Product,
			})
		}
		return views, nil
	}

	entries, err := s.guestStore.List(ctx, identity.GuestID, constants.GuestCollectionWishlist)
	if err != nil {
		return nil, err
	}
	views := make([]WishlistEntryView, 0, len(entries))
	for _, entry := range entries {
		view := WishlistEntryView{
			ID:          entry.ID,
			ProductID:   entry.ProductID,
			VariationID: entry.VariationID,
		}
		variation, err := s.variationRepo.GetByID(entry.VariationID)
		if err != nil {
			return nil, err
		}
		if variation != nil {
			view.Product = variation.Product
		}
		views = append(views, view)
	}
	return views, nil
}

// Add 添加心愿单条目（已存在相同键则幂等返回）
func (s *WishlistService) Add(ctx context.Context, identity Identity, productID, variationID uint) error {
	if !identity.Valid() {
		return ErrIdentityRequired
	}
	if productID == 0 || variationID == 0 {
		return ErrProductNotAvailable
	}

	variation, err := s.variationRepo.GetActiveByID(variationID)
	if err != nil {
		return err
	}
	if variation == nil || variation.ProductID != productID {
		return ErrProductNotAvailable
	}

	if identity.IsUser() {
		existing, err := s.wishlistRepo.GetByKey(identity.UserID, productID, variationID)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		return s.wishlistRepo.Create(&models.WishlistEntry{
			UserID:      identity.UserID,
			ProductID:   productID,
			VariationID: variationID,
		})
	}

	entries, err := s.guestStore.List(ctx, identity.GuestID, constants.GuestCollectionWishlist)
	if err != nil {
		return err
	}
	// 先剔除相同键的旧条目再插到队首，与数据库侧的唯一约束等效
	filtered := make([]cache.GuestEntry, 0, len(entries)+1)
	for _, entry := range entries {
		if entry.ProductID == productID && entry.VariationID == variationID {
			continue
		}
		filtered = append(filtered, entry)
	}
	filtered = append([]cache.GuestEntry{{
		ID:          uuid.NewString(),
		ProductID:   productID,
		VariationID: variationID,
		CreatedAt:   time.Now(),
	}}, filtered...)
	return s.guestStore.Save(ctx, identity.GuestID, constants.GuestCollectionWishlist, filtered)
}

// Remove 移除心愿单条目
// 优先按显式条目ID查找，否则按 (商品, 规格) 键查找；无命中返回未找到。
func (s *WishlistService) Remove(ctx context.Context, identity Identity, input RemoveWishlistInput) error {
	if !identity.Valid() {
		return ErrIdentityRequired
	}

	if identity.IsUser() {
		var entry *models.WishlistEntry
		var err error
		if input.EntryID != "" {
			id, parseErr := strconv.ParseUint(input.EntryID, 10, 64)
			if parseErr != nil || id == 0 {
				return ErrWishlistEntryNotFound
			}
			entry, err = s.wishlistRepo.GetByIDAndUser(uint(id), identity.UserID)
		} else {
			entry, err = s.wishlistRepo.GetByKey(identity.UserID, input.ProductID, input.VariationID)
		}
		if err != nil {
			return err
		}
		if entry == nil {
			return ErrWishlistEntryNotFound
		}
		return s.wishlistRepo.DeleteByID(entry.ID)
	}

	entries, err := s.guestStore.List(ctx, identity.GuestID, constants.GuestCollectionWishlist)
	if err != nil {
		return err
	}
	for i, entry := range entries {
		matched := false
		if input.EntryID != "" {
			matched = entry.ID == input.EntryID
		} else {
			matched = entry.ProductID == input.ProductID && entry.VariationID == input.VariationID
		}
		if !matched {
			continue
		}
		remaining := append(append([]cache.GuestEntry{}, entries[:i]...), entries[i+1:]...)
		return s.guestStore.Save(ctx, identity.GuestID, constants.GuestCollectionWishlist, remaining)
	}
	return ErrWishlistEntryNotFound
}
