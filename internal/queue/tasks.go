package queue

import (
	"encoding/json"

	"github.com/vendora-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusPush 订单状态推送通知任务
	TaskOrderStatusPush = constants.TaskOrderStatusPush
	// TaskGuestStorePurge 访客数据清理任务
	TaskGuestStorePurge = constants.TaskGuestStorePurge
)

// OrderStatusPushPayload 订单状态推送任务载荷
type OrderStatusPushPayload struct {
	OrderID     uint   `json:"order_id"`
	UserID      uint   `json:"user_id"`
	TrackingID  string `json:"tracking_id"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// GuestStorePurgePayload 访客数据清理任务载荷
type GuestStorePurgePayload struct {
	GuestID string `json:"guest_id"`
}

// NewOrderStatusPushTask 创建订单状态推送任务
func NewOrderStatusPushTask(payload OrderStatusPushPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusPush, body), nil
}

// NewGuestStorePurgeTask 创建访客数据清理任务
func NewGuestStorePurgeTask(payload GuestStorePurgePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGuestStorePurge, body), nil
}
