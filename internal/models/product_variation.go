package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariation 商品规格表（价格+库存维度）
// 库存在加购时即扣减预留，移除购物车/取消订单时回补；
// 库存增减只允许通过条件 UPDATE 原子执行。
type ProductVariation struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                      // 主键
	ProductID     uint           `gorm:"not null;index" json:"product_id"`                          // 商品ID
	Name          string         `gorm:"type:varchar(120);not null" json:"name"`                    // 规格名称（如 颜色/尺码 组合）
	SpecJSON      JSON           `gorm:"type:json" json:"spec"`                                     // 规格值
	PriceAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // 规格单价
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                  // 可用库存
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`                       // 是否启用
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariation) TableName() string {
	return "product_variations"
}
