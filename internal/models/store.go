package models

import (
	"time"

	"gorm.io/gorm"
)

// Store 店铺表（多商户）
type Store struct {
	ID          uint           `gorm:"primarykey" json:"id"`                    // 主键
	OwnerUserID uint           `gorm:"index;not null" json:"owner_user_id"`     // 店主用户ID
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`        // 唯一标识
	Name        string         `gorm:"type:varchar(120);not null" json:"name"`  // 店铺名称
	Description string         `gorm:"type:varchar(500)" json:"description"`    // 店铺简介
	Logo        string         `gorm:"type:varchar(500)" json:"logo"`           // 店铺 Logo（图片路径）
	Status      string         `gorm:"type:varchar(20);default:'active';index" json:"status"` // 店铺状态
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}
