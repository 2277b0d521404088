package service

import (
	"context"
	"strconv"
	"time"

	"github.com/vendora-next/internal/cache"
	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartLineView 购物车行视图（用户与访客统一结构）
type CartLineView struct {
	ID          string          `json:"id"` // 用户为数据库主键，访客为条目 uuid
	ProductID   uint            `json:"product_id"`
	VariationID uint            `json:"variation_id"`
	StoreID     uint            `json:"store_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   models.Money    `json:"unit_price"`
	Product     *models.Product `json:"product,omitempty"`
}

// AddToCartInput 加购输入
type AddToCartInput struct {
	ProductID        uint
	VariationID      uint
	Quantity         int
	DeliveryDetailID *uint
}

// UpdateCartItemInput 批量改数量输入
type UpdateCartItemInput struct {
	ProductID   uint
	VariationID uint
	Quantity    int
}

// CartService 购物车服务（双模式）
// 已登录用户写 cart_lines 表，访客写访客缓存集合；
// 库存在加购时原子预留，移除时对称回补，批量改数量不动库存。
type CartService struct {
	cartRepo      repository.CartRepository
	variationRepo repository.ProductVariationRepository
	guestStore    GuestStore
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, variationRepo repository.ProductVariationRepository, guestStore GuestStore) *CartService {
	return &CartService{
		cartRepo:      cartRepo,
		variationRepo: variationRepo,
		guestStore:    guestStore,
	}
}

// List 获取购物车
func (s *CartService) List(ctx context.Context, identity Identity) ([]CartLineView, error) {
	if !identity.Valid() {
		return nil, ErrIdentityRequired
	}
	if identity.IsUser() {
		lines, err := s.cartRepo.ListByUser(identity.UserID)
		if err != nil {
			return nil, err
		}
		views := make([]CartLineView, 0, len(lines))
		for _, line := range lines {
			view := CartLineView{
				ID:          strconv.FormatUint(uint64(line.ID), 10),
				ProductID:   line.ProductID,
				VariationID: line.VariationID,
				StoreID:     line.StoreID,
				Quantity:    line.Quantity,
				Product:     line.Product,
			}
			if line.Variation != nil {
				view.UnitPrice = line.Variation.PriceAmount
			}
			views = append(views, view)
		}
		return views, nil
	}

	entries, err := s.guestStore.List(ctx, identity.GuestID, constants.GuestCollectionCart)
	if err != nil {
		return nil, err
	}
	views := make([]CartLineView, 0, len(entries))
	for _, entry := range entries {
		view := CartLineView{
			ID:          entry.ID,
			ProductID:   entry.ProductID,
			VariationID: entry.VariationID,
			StoreID:     entry.StoreID,
			Quantity:    entry.Quantity,
		}
		variation, err := s.variationRepo.GetByID(entry.VariationID)
		if err != nil {
			return nil, err
		}
		if variation != nil {
			view.UnitPrice = variation.PriceAmount
			view.Product = variation.Product
		}
		views = append(views, view)
	}
	return views, nil
}

// Add 加购
// 校验请求数量不超过当前库存并立即原子扣减（加购即预留）；
// 已存在相同 (商品, 规格) 行时累加数量，否则新建。
func (s *CartService) Add(ctx context.Context, identity Identity, input AddToCartInput) error {
	if !identity.Valid() {
		return ErrIdentityRequired
	}
	if input.ProductID == 0 || input.VariationID == 0 || input.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	variation, err := s.variationRepo.GetActiveByID(input.VariationID)
	if err != nil {
		return err
	}
	if variation == nil || variation.ProductID != input.ProductID ||
		variation.Product == nil || !variation.Product.IsActive {
		return ErrProductNotAvailable
	}
	storeID := variation.Product.StoreID

	if identity.IsUser() {
		return models.DB.Transaction(func(tx *gorm.DB) error {
			variationRepo := s.variationRepo.WithTx(tx)
			cartRepo := s.cartRepo.WithTx(tx)

			rows, err := variationRepo.ReserveStock(input.VariationID, input.Quantity)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrInsufficientStock
			}

			existing, err := cartRepo.GetByKey(identity.UserID, input.ProductID, input.VariationID)
			if err != nil {
				return err
			}
			if existing != nil {
				return cartRepo.UpdateQuantity(existing.ID, existing.Quantity+input.Quantity)
			}
			return cartRepo.Create(&models.CartLine{
				UserID:           identity.UserID,
				ProductID:        input.ProductID,
				VariationID:      input.VariationID,
				StoreID:          storeID,
				Quantity:         input.Quantity,
				DeliveryDetailID: input.DeliveryDetailID,
			})
		})
	}

	rows, err := s.variationRepo.ReserveStock(input.VariationID, input.Quantity)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInsufficientStock
	}

	entries, err := s.guestStore.List(ctx, identity.GuestID, constants.GuestCollectionCart)
	if err != nil {
		// 库存已扣，缓存读失败必须回补，否则预留泄漏
		if _, releaseErr := s.variationRepo.ReleaseStock(input.VariationID, input.Quantity); releaseErr != nil {
			logger.Errorw("guest_cart_stock_release_failed", "variation_id", input.VariationID, "error", releaseErr)
		}
		return err
	}
	found := false
	for i := range entries {
		if entries[i].ProductID == input.ProductID && entries[i].VariationID == input.VariationID {
			entries[i].Quantity += input.Quantity
			found = true
			break
		}
	}
	if !found {
		entry := cache.GuestEntry{
			ID:               uuid.NewString(),
			ProductID:        input.ProductID,
			VariationID:      input.VariationID,
			StoreID:          storeID,
			Quantity:         input.Quantity,
			DeliveryDetailID: input.DeliveryDetailID,
			CreatedAt:        time.Now(),
		}
		entries = append([]cache.GuestEntry{entry}, entries...)
	}
	if err := s.guestStore.Save(ctx, identity.GuestID, constants.GuestCollectionCart, entries); err != nil {
		if _, releaseErr := s.variationRepo.ReleaseStock(input.VariationID, input.Quantity); releaseErr != nil {
			logger.Errorw("guest_cart_stock_release_failed", "variation_id", input.VariationID, "error", releaseErr)
		}
		return err
	}
	return nil
}

// Remove 移除购物车行并回补预留库存
// lineID 对用户是数据库主键，对访客是条目 uuid。
func (s *CartService) Remove(ctx context.Context, identity Identity, lineID string) error {
	if !identity.Valid() {
		return ErrIdentityRequired
	}

	if identity.IsUser() {
		id, err := strconv.ParseUint(lineID, 10, 64)
		if err != nil || id == 0 {
			return ErrCartLineNotFound
		}
		line, err := s.cartRepo.GetByIDAndUser(uint(id), identity.UserID)
		if err != nil {
			return err
		}
		if line == nil {
			return ErrCartLineNotFound
		}
		return models.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.cartRepo.WithTx(tx).DeleteByID(line.ID); err != nil {
				return err
			}
			_, err := s.variationRepo.WithTx(tx).ReleaseStock(line.VariationID, line.Quantity)
			return err
		})
	}

	entries, err := s.guestStore.List(ctx, identity.GuestID, constants.GuestCollectionCart)
	if err != nil {
		return err
	}
	for i, entry := range entries {
		if entry.ID != lineID {
			continue
		}
		remaining := append(append([]cache.GuestEntry{}, entries[:i]...), entries[i+1:]...)
		if err := s.guestStore.Save(ctx, identity.GuestID, constants.GuestCollectionCart, remaining); err != nil {
			return err
		}
		if _, err := s.variationRepo.ReleaseStock(entry.VariationID, entry.Quantity); err != nil {
			logger.Errorw("guest_cart_stock_release_failed", "variation_id", entry.VariationID, "error", err)
		}
		return nil
	}
	return ErrCartLineNotFound
}

// Update 批量设置数量
// 只改数量不动库存；未命中的键静默跳过。
func (s *CartService) Update(ctx context.Context, identity Identity, items []UpdateCartItemInput) error {
	if !identity.Valid() {
		return ErrIdentityRequired
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}

	if identity.IsUser() {
		for _, item := range items {
			if _, err := s.cartRepo.SetQuantityByKey(identity.UserID, item.ProductID, item.VariationID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	}

	entries, err := s.guestStore.List(ctx, identity.GuestID, constants.GuestCollectionCart)
	if err != nil {
		return err
	}
	changed := false
	for _, item := range items {
		for i := range entries {
			if entries[i].ProductID == item.ProductID && entries[i].VariationID == item.VariationID {
				entries[i].Quantity = item.Quantity
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return s.guestStore.Save(ctx, identity.GuestID, constants.GuestCollectionCart, entries)
}
