package repository

import (
	"errors"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// WishlistRepository 心愿单数据访问接口
type WishlistRepository interface {
	ListByUser(userID uint) ([]models.WishlistEntry, error)
	GetByIDAndUser(id, userID uint) (*models.WishlistEntry, error)
	GetByKey(userID, productID, variationID uint) (*models.WishlistEntry, error)
	Create(entry *models.WishlistEntry) error
	DeleteByID(id uint) error
	WithTx(tx *gorm.DB) *GormWishlistRepository
}

// GormWishlistRepository GORM 实现
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建心愿单仓库
func NewWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// WithTx 绑定事务
func (r *GormWishlistRepository) WithTx(tx *gorm.DB) *GormWishlistRepository {
	if tx == nil {
		return r
	}
	return &GormWishlistRepository{db: tx}
}

// ListByUser 获取用户心愿单
func (r *GormWishlistRepository) ListByUser(userID uint) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	if err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByIDAndUser 获取用户心愿单条目
func (r *GormWishlistRepository) GetByIDAndUser(id, userID uint) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetByKey 按 (用户, 商品, 规格) 获取心愿单条目
func (r *GormWishlistRepository) GetByKey(userID, productID, variationID uint) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	err := r.db.Where("user_id = ? AND product_id = ? AND variation_id = ?", userID, productID, variationID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create 创建心愿单条目
func (r *GormWishlistRepository) Create(entry *models.WishlistEntry) error {
	return r.db.Create(entry).Error
}

// DeleteByID 删除心愿单条目
func (r *GormWishlistRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.WishlistEntry{}, id).Error
}
