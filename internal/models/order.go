package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
// 每条购物车行在下单时生成一条订单记录；状态只通过追加 OrderStatus 行变更，
// 订单本身除 status_version 外创建后不再改写。
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                       // 主键
	TrackingID       string         `gorm:"uniqueIndex;type:varchar(32);not null" json:"tracking_id"`   // 跟踪号（TRACK-XXXXXXXXXX）
	UserID           uint           `gorm:"index;not null" json:"user_id"`                              // 用户ID
	StoreID          uint           `gorm:"index;not null" json:"store_id"`                             // 店铺ID
	ProductID        uint           `gorm:"index;not null" json:"product_id"`                           // 商品ID
	VariationID      uint           `gorm:"index;not null" json:"variation_id"`                         // 商品规格ID
	Quantity         int            `gorm:"not null" json:"quantity"`                                   // 数量
	UnitPrice        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`    // 下单时规格单价快照
	DeliveryDetailID uint           `gorm:"index;not null" json:"delivery_detail_id"`                   // 收货地址ID
	ShippingMethodID uint           `gorm:"index;not null" json:"shipping_method_id"`                   // 配送方式ID
	ShippingCost     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"` // 运费（下单时费率快照）
	TotalAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`  // 总额（数量*单价+运费，创建后不变）
	StatusVersion    uint64         `gorm:"not null;default:0" json:"-"`                                // 状态乐观锁版本号
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	// 关联
	Statuses       []OrderStatus     `gorm:"foreignKey:OrderID" json:"statuses,omitempty"`                 // 状态历史（只追加）
	Product        *Product          `gorm:"foreignKey:ProductID" json:"product,omitempty"`                // 关联商品
	Variation      *ProductVariation `gorm:"foreignKey:VariationID" json:"variation,omitempty"`            // 关联规格
	DeliveryDetail *DeliveryDetail   `gorm:"foreignKey:DeliveryDetailID" json:"delivery_detail,omitempty"` // 关联收货地址
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
