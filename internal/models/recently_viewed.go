package models

import "time"

// RecentlyViewed 最近浏览记录（已登录用户）
// 同一 (用户, 商品) 至多一条，重复浏览只刷新 viewed_at；每个用户保留最近 10 条。
type RecentlyViewed struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                            // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_recently_viewed_user_product" json:"user_id"`    // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_recently_viewed_user_product" json:"product_id"` // 商品ID
	ViewedAt  time.Time `gorm:"index;not null" json:"viewed_at"`                                 // 最近浏览时间
	CreatedAt time.Time `json:"created_at"`                                                      // 创建时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (RecentlyViewed) TableName() string {
	return "recently_viewed"
}
