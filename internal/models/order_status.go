package models

import "time"

// OrderStatus 订单状态历史表（只追加，不更新不删除）
// 订单当前状态定义为该订单按 (created_at, id) 最新的一条记录。
type OrderStatus struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                       // 主键
	OrderID     uint      `gorm:"not null;index:idx_order_status_order_time" json:"order_id"` // 订单ID
	Status      string    `gorm:"type:varchar(32);not null;index" json:"status"`              // 状态值
	Description string    `gorm:"type:varchar(255)" json:"description"`                       // 状态说明文案
	ActorID     uint      `gorm:"index" json:"actor_id"`                                      // 触发者ID（买家/卖家/代理/管理员）
	CreatedAt   time.Time `gorm:"index:idx_order_status_order_time" json:"created_at"`        // 创建时间
}

// TableName 指定表名
func (OrderStatus) TableName() string {
	return "order_statuses"
}
