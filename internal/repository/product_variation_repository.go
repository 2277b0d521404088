package repository

import (
	"errors"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// ProductVariationRepository 商品规格数据访问接口
type ProductVariationRepository interface {
	GetByID(id uint) (*models.ProductVariation, error)
	GetActiveByID(id uint) (*models.ProductVariation, error)
	ReserveStock(id uint, quantity int) (int64, error)
	ReleaseStock(id uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) *GormProductVariationRepository
}

// GormProductVariationRepository GORM 实现
type GormProductVariationRepository struct {
	db *gorm.DB
}

// NewProductVariationRepository 创建商品规格仓库
func NewProductVariationRepository(db *gorm.DB) *GormProductVariationRepository {
	return &GormProductVariationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductVariationRepository) WithTx(tx *gorm.DB) *GormProductVariationRepository {
	if tx == nil {
		return r
	}
	return &GormProductVariationRepository{db: tx}
}

// GetByID 根据 ID 获取规格
func (r *GormProductVariationRepository) GetByID(id uint) (*models.ProductVariation, error) {
	var variation models.ProductVariation
	if err := r.db.Preload("Product").First(&variation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variation, nil
}

// GetActiveByID 根据 ID 获取启用中的规格
func (r *GormProductVariationRepository) GetActiveByID(id uint) (*models.ProductVariation, error) {
	var variation models.ProductVariation
	err := r.db.Preload("Product").Where("id = ? AND is_active = ?", id, true).First(&variation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &variation, nil
}

// ReserveStock 条件扣减库存（库存充足时才命中），返回命中行数。
// 库存增减必须走该原子 UPDATE，禁止读改写。
func (r *GormProductVariationRepository) ReserveStock(id uint, quantity int) (int64, error) {
	if id == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.ProductVariation{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseStock 回补库存，返回命中行数
func (r *GormProductVariationRepository) ReleaseStock(id uint, quantity int) (int64, error) {
	if id == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock release params")
	}
	result := r.db.Model(&models.ProductVariation{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
