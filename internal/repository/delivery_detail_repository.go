package repository

import (
	"errors"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// DeliveryDetailRepository 收货地址数据访问接口
type DeliveryDetailRepository interface {
	ListByUser(userID uint) ([]models.DeliveryDetail, error)
	GetByIDAndUser(id, userID uint) (*models.DeliveryDetail, error)
	Create(detail *models.DeliveryDetail) error
	Update(detail *models.DeliveryDetail) error
	DeleteByIDAndUser(id, userID uint) error
	ClearDefaultByUser(userID uint) error
	WithTx(tx *gorm.DB) *GormDeliveryDetailRepository
}

// GormDeliveryDetailRepository GORM 实现
type GormDeliveryDetailRepository struct {
	db *gorm.DB
}

// NewDeliveryDetailRepository 创建收货地址仓库
func NewDeliveryDetailRepository(db *gorm.DB) *GormDeliveryDetailRepository {
	return &GormDeliveryDetailRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryDetailRepository) WithTx(tx *gorm.DB) *GormDeliveryDetailRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryDetailRepository{db: tx}
}

// ListByUser 获取用户收货地址列表（默认地址在前）
func (r *GormDeliveryDetailRepository) ListByUser(userID uint) ([]models.DeliveryDetail, error) {
	var details []models.DeliveryDetail
	if err := r.db.Where("user_id = ?", userID).
		Order("is_default desc, updated_at desc").
		Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// GetByIDAndUser 获取用户收货地址
func (r *GormDeliveryDetailRepository) GetByIDAndUser(id, userID uint) (*models.DeliveryDetail, error) {
	var detail models.DeliveryDetail
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create 创建收货地址
func (r *GormDeliveryDetailRepository) Create(detail *models.DeliveryDetail) error {
	return r.db.Create(detail).Error
}

// Update 更新收货地址
func (r *GormDeliveryDetailRepository) Update(detail *models.DeliveryDetail) error {
	return r.db.Save(detail).Error
}

// DeleteByIDAndUser 删除用户收货地址
func (r *GormDeliveryDetailRepository) DeleteByIDAndUser(id, userID uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.DeliveryDetail{}).Error
}

// ClearDefaultByUser 清除用户当前默认地址标记
func (r *GormDeliveryDetailRepository) ClearDefaultByUser(userID uint) error {
	return r.db.Model(&models.DeliveryDetail{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
