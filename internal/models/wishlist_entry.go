package models

import (
	"time"

	"gorm.io/gorm"
)

// WishlistEntry 心愿单条目（已登录用户）
// 同一 (用户, 商品, 规格) 至多一条。
type WishlistEntry struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                                      // 主键
	UserID      uint           `gorm:"not null;uniqueIndex:idx_wishlist_user_product_variation" json:"user_id"`   // 用户ID
	ProductID   uint           `gorm:"not null;uniqueIndex:idx_wishlist_user_product_variation" json:"product_id"` // 商品ID
	VariationID uint           `gorm:"not null;uniqueIndex:idx_wishlist_user_product_variation" json:"variation_id"` // 规格ID
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                                   // 创建时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                            // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (WishlistEntry) TableName() string {
	return "wishlist_entries"
}
