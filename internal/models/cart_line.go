package models

import (
	"time"

	"gorm.io/gorm"
)

// CartLine 购物车行（已登录用户）
// 同一 (用户, 商品, 规格) 至多一行；重复加购累加数量。
type CartLine struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                                  // 主键
	UserID           uint           `gorm:"not null;uniqueIndex:idx_cart_user_product_variation" json:"user_id"`   // 用户ID
	ProductID        uint           `gorm:"not null;uniqueIndex:idx_cart_user_product_variation" json:"product_id"` // 商品ID
	VariationID      uint           `gorm:"not null;uniqueIndex:idx_cart_user_product_variation" json:"variation_id"` // 规格ID
	StoreID          uint           `gorm:"index;not null" json:"store_id"`                                        // 店铺ID
	Quantity         int            `gorm:"not null" json:"quantity"`                                              // 数量
	DeliveryDetailID *uint          `gorm:"index" json:"delivery_detail_id,omitempty"`                             // 预选收货地址ID
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                               // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                            // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                        // 软删除时间

	Product   *Product          `gorm:"foreignKey:ProductID" json:"product,omitempty"`     // 关联商品
	Variation *ProductVariation `gorm:"foreignKey:VariationID" json:"variation,omitempty"` // 关联规格
}

// TableName 指定表名
func (CartLine) TableName() string {
	return "cart_lines"
}
