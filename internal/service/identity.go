package service

import (
	"strings"

	"github.com/google/uuid"
)

// IdentityKind 身份类型
type IdentityKind string

const (
	// IdentityUser 已登录用户
	IdentityUser IdentityKind = "user"
	// IdentityGuest 访客
	IdentityGuest IdentityKind = "guest"
)

// Identity 请求身份
// 中间件在请求入口解析一次（Bearer Token 优先，其次 X-Guest-ID 头），
// 各服务据此分发到持久化存储或访客缓存，不再各自判断登录态。
type Identity struct {
	Kind    IdentityKind
	UserID  uint
	GuestID string
}

// UserIdentity 构建已登录身份
func UserIdentity(userID uint) Identity {
	return Identity{Kind: IdentityUser, UserID: userID}
}

// GuestIdentity 构建访客身份
func GuestIdentity(guestID string) Identity {
	return Identity{Kind: IdentityGuest, GuestID: guestID}
}

// IsUser 是否已登录用户
func (i Identity) IsUser() bool {
	return i.Kind == IdentityUser && i.UserID > 0
}

// IsGuest 是否访客
func (i Identity) IsGuest() bool {
	return i.Kind == IdentityGuest && i.GuestID != ""
}

// Valid 身份是否可用
func (i Identity) Valid() bool {
	return i.IsUser() || i.IsGuest()
}

// NormalizeGuestID 校验并规整访客ID（要求标准 uuid 格式）
func NormalizeGuestID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrGuestIDInvalid
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return "", ErrGuestIDInvalid
	}
	return parsed.String(), nil
}
