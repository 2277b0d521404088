package service

import (
	"context"
	"time"

	"github.com/vendora-next/internal/cache"
)

// GuestStore 访客数据存储接口
// 集合按 guest_<guestId>_<kind> 寻址，条目新到旧排列，每次写入刷新滑动 TTL；
// 推送令牌保存在共享 hash 中，按访客ID取值。
type GuestStore interface {
	List(ctx context.Context, guestID, kind string) ([]cache.GuestEntry, error)
	Save(ctx context.Context, guestID, kind string, entries []cache.GuestEntry) error
	Delete(ctx context.Context, guestID, kind string) error
	GetPushToken(ctx context.Context, guestID string) (string, error)
	SetPushToken(ctx context.Context, guestID, token string) error
	DelPushToken(ctx context.Context, guestID string) error
	AcquireMergeFlag(ctx context.Context, userID uint, guestID string, ttl time.Duration) (bool, error)
}
