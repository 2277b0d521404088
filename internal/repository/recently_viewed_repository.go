package repository

import (
	"errors"
	"time"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// RecentlyViewedRepository 最近浏览数据访问接口
type RecentlyViewedRepository interface {
	ListByUser(userID uint, limit int) ([]models.RecentlyViewed, error)
	Touch(userID, productID uint, viewedAt time.Time) error
	TrimToLatest(userID uint, keep int) error
	WithTx(tx *gorm.DB) *GormRecentlyViewedRepository
}

// GormRecentlyViewedRepository GORM 实现
type GormRecentlyViewedRepository struct {
	db *gorm.DB
}

// NewRecentlyViewedRepository 创建最近浏览仓库
func NewRecentlyViewedRepository(db *gorm.DB) *GormRecentlyViewedRepository {
	return &GormRecentlyViewedRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRecentlyViewedRepository) WithTx(tx *gorm.DB) *GormRecentlyViewedRepository {
	if tx == nil {
		return r
	}
	return &GormRecentlyViewedRepository{db: tx}
}

// ListByUser 按最近浏览时间倒序获取记录
func (r *GormRecentlyViewedRepository) ListByUser(userID uint, limit int) ([]models.RecentlyViewed, error) {
	var rows []models.RecentlyViewed
	query := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("viewed_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Touch 记录一次浏览：已存在则刷新时间，否则新建
func (r *GormRecentlyViewedRepository) Touch(userID, productID uint, viewedAt time.Time) error {
	var existing models.RecentlyViewed
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&models.RecentlyViewed{
			UserID:    userID,
			ProductID: productID,
			ViewedAt:  viewedAt,
		}).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&existing).Update("viewed_at", viewedAt).Error
}

// TrimToLatest 仅保留用户最近 keep 条记录，其余删除
func (r *GormRecentlyViewedRepository) TrimToLatest(userID uint, keep int) error {
	if keep <= 0 {
		return r.db.Where("user_id = ?", userID).Delete(&models.RecentlyViewed{}).Error
	}
	var keepIDs []uint
	if err := r.db.Model(&models.RecentlyViewed{}).
		Where("user_id = ?", userID).
		Order("viewed_at desc").
		Limit(keep).
		Pluck("id", &keepIDs).Error; err != nil {
		return err
	}
	if len(keepIDs) == 0 {
		return nil
	}
	return r.db.Where("user_id = ? AND id NOT IN ?", userID, keepIDs).
		Delete(&models.RecentlyViewed{}).Error
}
