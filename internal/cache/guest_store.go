package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vendora-next/internal/constants"

	"github.com/redis/go-redis/v9"
)

// GuestEntry 访客集合条目
// 购物车条目使用 quantity/store_id/delivery_detail_id；
// 心愿单条目使用 product_id/variation_id；最近浏览只使用 product_id/viewed_at。
type GuestEntry struct {
	ID               string    `json:"id"`                           // 条目ID（uuid，用于定点删除）
	ProductID        uint      `json:"product_id"`                   // 商品ID
	VariationID      uint      `json:"variation_id,omitempty"`       // 规格ID
	StoreID          uint      `json:"store_id,omitempty"`           // 店铺ID
	Quantity         int       `json:"quantity,omitempty"`           // 数量
	DeliveryDetailID *uint     `json:"delivery_detail_id,omitempty"` // 预选收货地址ID
	ViewedAt         time.Time `json:"viewed_at,omitempty"`          // 最近浏览时间
	CreatedAt        time.Time `json:"created_at"`                   // 创建时间
}

// RedisGuestStore 访客数据存储（Redis）
// 集合键为 guest_<guestId>_<kind>，条目按新到旧排列；
// 每次写入刷新 TTL（滑动过期），长期不活跃的访客数据整体过期。
type RedisGuestStore struct {
	ttl time.Duration
}

// NewRedisGuestStore 创建访客数据存储
func NewRedisGuestStore(ttlDays int) *RedisGuestStore {
	if ttlDays <= 0 {
		ttlDays = constants.GuestTTLDaysDefault
	}
	return &RedisGuestStore{ttl: time.Duration(ttlDays) * 24 * time.Hour}
}

func guestCollectionKey(guestID, kind string) string {
	return fmt.Sprintf("guest_%s_%s", guestID, kind)
}

func guestMergeFlagKey(userID uint, guestID string) string {
	return fmt.Sprintf("guest_merge:%d:%s", userID, guestID)
}

// List 获取访客集合条目（新到旧）
func (s *RedisGuestStore) List(ctx context.Context, guestID, kind string) ([]GuestEntry, error) {
	var entries []GuestEntry
	hit, err := GetJSON(ctx, guestCollectionKey(guestID, kind), &entries)
	if err != nil {
		return nil, err
	}
	if !hit {
		return []GuestEntry{}, nil
	}
	return entries, nil
}

// Save 整体写回访客集合并刷新滑动 TTL
func (s *RedisGuestStore) Save(ctx context.Context, guestID, kind string, entries []GuestEntry) error {
	if entries == nil {
		entries = []GuestEntry{}
	}
	return SetJSON(ctx, guestCollectionKey(guestID, kind), entries, s.ttl)
}

// Delete 整体删除访客集合（合并完成后立即释放，不等 TTL）
func (s *RedisGuestStore) Delete(ctx context.Context, guestID, kind string) error {
	return Del(ctx, guestCollectionKey(guestID, kind))
}

// GetPushToken 读取访客推送令牌（共享 hash，按访客ID取值）
func (s *RedisGuestStore) GetPushToken(ctx context.Context, guestID string) (string, error) {
	if !Enabled() {
		return "", nil
	}
	token, err := Client().HGet(ctx, buildKey(constants.FirebaseTokenHashKey), guestID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// SetPushToken 写入访客推送令牌
func (s *RedisGuestStore) SetPushToken(ctx context.Context, guestID, token string) error {
	if !Enabled() {
		return nil
	}
	return Client().HSet(ctx, buildKey(constants.FirebaseTokenHashKey), guestID, token).Err()
}

// DelPushToken 删除访客推送令牌
func (s *RedisGuestStore) DelPushToken(ctx context.Context, guestID string) error {
	if !Enabled() {
		return nil
	}
	return Client().HDel(ctx, buildKey(constants.FirebaseTokenHashKey), guestID).Err()
}

// AcquireMergeFlag 获取合并标记（SETNX）
// 返回 true 表示本次获取成功，可以执行合并；false 表示本会话已合并过。
func (s *RedisGuestStore) AcquireMergeFlag(ctx context.Context, userID uint, guestID string, ttl time.Duration) (bool, error) {
	if !Enabled() {
		return true, nil
	}
	if ttl <= 0 {
		ttl = time.Duration(constants.GuestMergeFlagTTLMinutes) * time.Minute
	}
	payload, err := json.Marshal(time.Now().Unix())
	if err != nil {
		return false, err
	}
	return Client().SetNX(ctx, buildKey(guestMergeFlagKey(userID, guestID)), payload, ttl).Result()
}
