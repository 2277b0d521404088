package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vendora-next/internal/authz"
	"github.com/vendora-next/internal/cache"
	"github.com/vendora-next/internal/config"
	adminhandlers "github.com/vendora-next/internal/http/handlers/admin"
	publichandlers "github.com/vendora-next/internal/http/handlers/public"
	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vn"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts, retry in %d seconds",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts, retry in %d seconds",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口（无需任何身份）
		public := apiV1.Group("/public")
		{
			public.GET("/shipping/methods", publicHandler.ListShippingMethods)
			public.POST("/shipping/quote", publicHandler.QuoteShipping)
			public.GET("/orders/track/:tracking_id", publicHandler.TrackOrder)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 双身份接口（登录用户 Bearer Token 或访客 X-Guest-ID）
		dual := apiV1.Group("")
		dual.Use(AuthOrGuestMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			dual.GET("/cart", publicHandler.GetCart)
			dual.POST("/cart/items", publicHandler.AddCartItem)
			dual.PUT("/cart", publicHandler.UpdateCart)
			dual.DELETE("/cart/items/:id", publicHandler.DeleteCartLine)
			dual.GET("/wishlist", publicHandler.GetWishlist)
			dual.POST("/wishlist", publicHandler.AddWishlistEntry)
			dual.POST("/wishlist/remove", publicHandler.RemoveWishlistEntry)
			dual.GET("/recently-viewed", publicHandler.ListRecentlyViewed)
			dual.POST("/recently-viewed", publicHandler.RecordRecentlyViewed)
			dual.POST("/push-token", publicHandler.RegisterPushToken)
		}

		// 用户接口（需登录）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateUserProfile)
			user.PUT("/me/password", publicHandler.ChangeUserPassword)
			user.GET("/delivery-details", publicHandler.ListDeliveryDetails)
			user.POST("/delivery-details", publicHandler.CreateDeliveryDetail)
			user.GET("/delivery-details/:id", publicHandler.GetDeliveryDetail)
			user.PUT("/delivery-details/:id", publicHandler.UpdateDeliveryDetail)
			user.DELETE("/delivery-details/:id", publicHandler.DeleteDeliveryDetail)
			user.POST("/orders", publicHandler.PlaceOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			user.POST("/orders/:id/refund", publicHandler.RequestRefund)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetAdminProfile)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 订单管理（接单到派送的全链路操作）
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/activity", adminHandler.AdminOrderActivity)
				authorized.GET("/orders/category-breakdown", adminHandler.AdminCategoryBreakdown)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.POST("/orders/:id/accept", adminHandler.AdminAcceptOrder)
				authorized.POST("/orders/:id/decline", adminHandler.AdminDeclineOrder)
				authorized.POST("/orders/:id/process", adminHandler.AdminProcessOrder)
				authorized.POST("/orders/:id/ship", adminHandler.AdminShipOrder)
				authorized.POST("/orders/:id/out-for-delivery", adminHandler.AdminOutForDelivery)
				authorized.POST("/orders/:id/deliver", adminHandler.AdminMarkAsDelivered)
				authorized.POST("/orders/:id/refund/approve", adminHandler.AdminApproveRefund)
				authorized.POST("/orders/:id/refund/decline", adminHandler.AdminDeclineRefund)

				// 配送配置
				authorized.GET("/shipping/methods", adminHandler.AdminListShippingMethods)
				authorized.POST("/shipping/methods", adminHandler.AdminCreateShippingMethod)
				authorized.PUT("/shipping/methods/:id", adminHandler.AdminUpdateShippingMethod)
				authorized.DELETE("/shipping/methods/:id", adminHandler.AdminDeleteShippingMethod)
				authorized.GET("/shipping/zones", adminHandler.AdminListShippingZones)
				authorized.POST("/shipping/zones", adminHandler.AdminCreateShippingZone)
				authorized.DELETE("/shipping/zones/:id", adminHandler.AdminDeleteShippingZone)
				authorized.GET("/shipping/rates", adminHandler.AdminListShippingRates)
				authorized.POST("/shipping/rates", adminHandler.AdminCreateShippingRate)
				authorized.DELETE("/shipping/rates/:id", adminHandler.AdminDeleteShippingRate)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
				authorized.PUT("/authz/admins/:id", adminHandler.UpdateAuthzAdmin)
				authorized.DELETE("/authz/admins/:id", adminHandler.DeleteAuthzAdmin)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
