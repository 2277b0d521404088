package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vendora-next/internal/config"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/queue"
	"github.com/vendora-next/internal/repository"

	"github.com/hibiken/asynq"
)

// PushSender 推送发送器接口
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMPushSender 基于 FCM HTTP 接口的推送发送器
type FCMPushSender struct {
	cfg        config.PushConfig
	httpClient *http.Client
}

// NewFCMPushSender 创建推送发送器
func NewFCMPushSender(cfg config.PushConfig) *FCMPushSender {
	timeout := cfg.TimeoutMS
	if timeout < 500 || timeout > 10000 {
		timeout = 3000
	}
	return &FCMPushSender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Millisecond},
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// Send 发送单条推送
func (s *FCMPushSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if s == nil || !s.cfg.Enabled {
		return nil
	}
	serverKey := strings.TrimSpace(s.cfg.ServerKey)
	if serverKey == "" {
		return ErrPushNotConfigured
	}
	endpoint := strings.TrimSpace(s.cfg.Endpoint)
	if endpoint == "" {
		endpoint = "https://fcm.googleapis.com/fcm/send"
	}

	payload, err := json.Marshal(fcmMessage{
		To:           token,
		Notification: fcmNotification{Title: title, Body: body},
		Data:         data,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPushSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPushSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+serverKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPushSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrPushSendFailed, resp.StatusCode)
	}
	var result fcmResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&result); decodeErr != nil {
		return fmt.Errorf("%w: %v", ErrPushSendFailed, decodeErr)
	}
	if result.Success == 0 && result.Failure > 0 {
		return ErrPushSendFailed
	}
	return nil
}

// NotificationService 订单状态推送服务
// 队列启用时走异步任务，未启用时降级为同步发送；
// 收件人没有推送令牌时静默跳过。
type NotificationService struct {
	userRepo    repository.UserRepository
	guestStore  GuestStore
	queueClient *queue.Client
	pushSender  PushSender
}

// NewNotificationService 创建推送服务
func NewNotificationService(userRepo repository.UserRepository, guestStore GuestStore, queueClient *queue.Client, pushSender PushSender) *NotificationService {
	return &NotificationService{
		userRepo:    userRepo,
		guestStore:  guestStore,
		queueClient: queueClient,
		pushSender:  pushSender,
	}
}

// RegisterPushToken 登记推送令牌
// 用户写入档案字段，访客写入共享 hash，登录合并时随其他集合一起迁移。
func (s *NotificationService) RegisterPushToken(ctx context.Context, identity Identity, token string) error {
	if !identity.Valid() {
		return ErrIdentityRequired
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrPushTokenEmpty
	}
	if identity.IsUser() {
		return s.userRepo.UpdatePushToken(identity.UserID, token)
	}
	return s.guestStore.SetPushToken(ctx, identity.GuestID, token)
}

// NotifyOrderStatus 通知订单状态变更
func (s *NotificationService) NotifyOrderStatus(orderID, userID uint, trackingID, status, description string) {
	if s == nil || orderID == 0 || userID == 0 {
		return
	}
	payload := queue.OrderStatusPushPayload{
		OrderID:     orderID,
		UserID:      userID,
		TrackingID:  trackingID,
		Status:      status,
		Description: description,
	}
	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderStatusPush(payload, asynq.MaxRetry(5)); err != nil {
			logger.Warnw("order_status_push_enqueue_failed", "order_id", orderID, "status", status, "error", err)
		}
		return
	}
	if err := s.Dispatch(context.Background(), payload); err != nil {
		logger.Warnw("order_status_push_send_failed", "order_id", orderID, "status", status, "error", err)
	}
}

// Dispatch 处理订单状态推送任务
func (s *NotificationService) Dispatch(ctx context.Context, payload queue.OrderStatusPushPayload) error {
	if s == nil || payload.UserID == 0 {
		return nil
	}
	user, err := s.userRepo.GetByID(payload.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		logger.Debugw("order_status_push_skip_user_not_found", "order_id", payload.OrderID, "user_id", payload.UserID)
		return nil
	}
	token := strings.TrimSpace(user.PushToken)
	if token == "" {
		logger.Debugw("order_status_push_skip_no_token", "order_id", payload.OrderID, "user_id", payload.UserID)
		return nil
	}
	if s.pushSender == nil {
		return nil
	}

	title := fmt.Sprintf("Order %s", payload.TrackingID)
	body := strings.TrimSpace(payload.Description)
	if body == "" {
		body = payload.Status
	}
	data := map[string]string{
		"order_id":    fmt.Sprintf("%d", payload.OrderID),
		"tracking_id": payload.TrackingID,
		"status":      payload.Status,
	}
	return s.pushSender.Send(ctx, token, title, body, data)
}
