package public

import (
	handlershared "github.com/vendora-next/internal/http/handlers/shared"
	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// getIdentity 读取中间件解析出的请求身份（登录用户或访客）。
func getIdentity(c *gin.Context) (service.Identity, bool) {
	if value, ok := c.Get("user_id"); ok {
		if userID, ok := value.(uint); ok && userID > 0 {
			return service.UserIdentity(userID), true
		}
	}
	if value, ok := c.Get("guest_id"); ok {
		if guestID, ok := value.(string); ok && guestID != "" {
			return service.GuestIdentity(guestID), true
		}
	}
	respondError(c, response.CodeUnauthorized, "missing identity", nil)
	return service.Identity{}, false
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
