package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingMethod 配送方式表
type ShippingMethod struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // 主键
	Name        string         `gorm:"type:varchar(120);not null" json:"name"` // 方式名称（如 标准快递）
	Description string         `gorm:"type:varchar(255)" json:"description"`   // 描述
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`    // 是否启用
	CreatedAt   time.Time      `json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (ShippingMethod) TableName() string {
	return "shipping_methods"
}

// ShippingZone 配送区域表
// state/city 为 NULL 时表示该层级通配；匹配优先取最具体的区域。
type ShippingZone struct {
	ID        uint           `gorm:"primarykey" json:"id"`                            // 主键
	Country   string         `gorm:"type:varchar(64);not null;index" json:"country"`  // 国家
	State     *string        `gorm:"type:varchar(64);index" json:"state,omitempty"`   // 省/州（NULL 通配）
	City      *string        `gorm:"type:varchar(64);index" json:"city,omitempty"`    // 城市（NULL 通配）
	CreatedAt time.Time      `json:"created_at"`                                      // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                      // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间
}

// TableName 指定表名
func (ShippingZone) TableName() string {
	return "shipping_zones"
}

// ShippingRate 配送费率表
// 同一 (配送方式, 区域) 至多一条费率。
type ShippingRate struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                      // 主键
	ShippingMethodID uint           `gorm:"not null;uniqueIndex:idx_rate_method_zone" json:"shipping_method_id"` // 配送方式ID
	ZoneID           uint           `gorm:"not null;uniqueIndex:idx_rate_method_zone" json:"zone_id"`  // 区域ID
	Cost             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cost"`         // 运费
	DaysMin          int            `gorm:"not null;default:0" json:"days_min"`                        // 最短时效（天）
	DaysMax          int            `gorm:"not null;default:0" json:"days_max"`                        // 最长时效（天）
	CreatedAt        time.Time      `json:"created_at"`                                                // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Method *ShippingMethod `gorm:"foreignKey:ShippingMethodID" json:"method,omitempty"` // 关联配送方式
	Zone   *ShippingZone   `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`             // 关联区域
}

// TableName 指定表名
func (ShippingRate) TableName() string {
	return "shipping_rates"
}
