package repository

import (
	"errors"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartLine, error)
	GetByIDAndUser(id, userID uint) (*models.CartLine, error)
	GetByKey(userID, productID, variationID uint) (*models.CartLine, error)
	Create(line *models.CartLine) error
	UpdateQuantity(id uint, quantity int) error
	SetQuantityByKey(userID, productID, variationID uint, quantity int) (int64, error)
	DeleteByID(id uint) error
	ClearByUser(userID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser 获取用户购物车行
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.Preload("Product").Preload("Variation").
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// GetByIDAndUser 获取用户购物车行
func (r *GormCartRepository) GetByIDAndUser(id, userID uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// GetByKey 按 (用户, 商品, 规格) 获取购物车行
func (r *GormCartRepository) GetByKey(userID, productID, variationID uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.Where("user_id = ? AND product_id = ? AND variation_id = ?", userID, productID, variationID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// Create 创建购物车行
func (r *GormCartRepository) Create(line *models.CartLine) error {
	return r.db.Create(line).Error
}

// UpdateQuantity 设置购物车行数量
func (r *GormCartRepository) UpdateQuantity(id uint, quantity int) error {
	return r.db.Model(&models.CartLine{}).Where("id = ?", id).
		Update("quantity", quantity).Error
}

// SetQuantityByKey 按键直接设置数量，返回命中行数
func (r *GormCartRepository) SetQuantityByKey(userID, productID, variationID uint, quantity int) (int64, error) {
	result := r.db.Model(&models.CartLine{}).
		Where("user_id = ? AND product_id = ? AND variation_id = ?", userID, productID, variationID).
		Update("quantity", quantity)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByID 删除购物车行
func (r *GormCartRepository) DeleteByID(id uint) error {
	return r.db.Delete(&models.CartLine{}, id).Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error
}
