package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/provider"
	"github.com/vendora-next/internal/queue"
	"github.com/vendora-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusPush, c.handleOrderStatusPush)
	mux.HandleFunc(queue.TaskGuestStorePurge, c.handleGuestStorePurge)
}

func (c *Consumer) handleOrderStatusPush(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_push_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusPushPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_push_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 || payload.UserID == 0 {
		logger.Debugw("worker_order_status_push_skip_invalid_payload", "order_id", payload.OrderID, "user_id", payload.UserID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_order_status_push_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.NotificationService.Dispatch(ctx, payload); err != nil {
		if errors.Is(err, service.ErrPushNotConfigured) {
			logger.Debugw("worker_order_status_push_skip_not_configured", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_status_push_failed",
			"order_id", payload.OrderID,
			"user_id", payload.UserID,
			"status", payload.Status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleGuestStorePurge(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_guest_store_purge_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.GuestStorePurgePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_guest_store_purge_unmarshal_failed", "error", err)
		return err
	}
	if payload.GuestID == "" {
		logger.Debugw("worker_guest_store_purge_skip_invalid_payload")
		return nil
	}
	if c.GuestStore == nil {
		logger.Warnw("worker_guest_store_purge_skip_store_nil", "guest_id", payload.GuestID)
		return nil
	}
	kinds := []string{
		constants.GuestCollectionCart,
		constants.GuestCollectionWishlist,
		constants.GuestCollectionRecentlyViewed,
	}
	for _, kind := range kinds {
		if err := c.GuestStore.Delete(ctx, payload.GuestID, kind); err != nil {
			logger.Warnw("worker_guest_store_purge_failed", "guest_id", payload.GuestID, "collection", kind, "error", err)
			return err
		}
	}
	if err := c.GuestStore.DelPushToken(ctx, payload.GuestID); err != nil {
		logger.Warnw("worker_guest_store_purge_token_failed", "guest_id", payload.GuestID, "error", err)
		return err
	}
	return nil
}
