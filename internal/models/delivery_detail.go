package models

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryDetail 收货地址表
type DeliveryDetail struct {
	ID          uint           `gorm:"primarykey" json:"id"`                     // 主键
	UserID      uint           `gorm:"index;not null" json:"user_id"`            // 用户ID
	Name        string         `gorm:"type:varchar(120);not null" json:"name"`   // 收件人姓名
	Phone       string         `gorm:"type:varchar(32)" json:"phone"`            // 联系电话
	Country     string         `gorm:"type:varchar(64);not null" json:"country"` // 国家
	State       string         `gorm:"type:varchar(64)" json:"state"`            // 省/州
	City        string         `gorm:"type:varchar(64)" json:"city"`             // 城市
	AddressLine string         `gorm:"type:varchar(255)" json:"address_line"`    // 详细地址
	PostalCode  string         `gorm:"type:varchar(20)" json:"postal_code"`      // 邮编
	IsDefault   bool           `gorm:"default:false" json:"is_default"`          // 是否默认地址
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                               // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                           // 软删除时间
}

// TableName 指定表名
func (DeliveryDetail) TableName() string {
	return "delivery_details"
}
