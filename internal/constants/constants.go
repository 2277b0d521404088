package constants

// 订单状态常量（状态历史为只追加日志，最新一条即当前状态）
const (
	OrderStatusPlaced         = "OrderPlaced"
	OrderStatusConfirmed      = "OrderConfirmed"
	OrderStatusProcessing     = "Processing"
	OrderStatusShipped        = "Shipped"
	OrderStatusOutForDelivery = "OutForDelivery"
	OrderStatusDelivered      = "Delivered"
	OrderStatusCancelled      = "Cancelled"
	OrderStatusDeclined       = "OrderDeclined"
	OrderStatusRefundRequest  = "RefundRequested"
	OrderStatusRefundApproved = "RefundApproved"
	OrderStatusRefundDeclined = "RefundDeclined"
	OrderStatusReturned       = "Returned"
	OrderStatusRefunded       = "Refunded"
	OrderStatusFailed         = "Failed"
)

// 订单跟踪号常量
const (
	TrackingIDPrefix = "TRACK-"
	TrackingIDLength = 10
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 店铺状态常量
const (
	StoreStatusActive   = "active"
	StoreStatusDisabled = "disabled"
)

// 访客集合类型常量（缓存键 guest_<guestId>_<kind>）
const (
	GuestCollectionCart           = "cart"
	GuestCollectionWishlist       = "wishlist"
	GuestCollectionRecentlyViewed = "recently_viewed"
)

// 访客数据默认配置常量
const (
	GuestTTLDaysDefault      = 30
	RecentlyViewedCapDefault = 10
	GuestMergeFlagTTLMinutes = 120
	FirebaseTokenHashKey     = "firebase_tokens"
	GuestIDHeaderName        = "X-Guest-ID"
)

// 角色常量（casbin 主体）
const (
	RoleAdmin  = "admin"
	RoleAgent  = "agent"
	RoleSeller = "seller"
)

// 队列常量
const (
	QueueDefault        = "default"
	TaskOrderStatusPush = "order:status_push"
	TaskGuestStorePurge = "guest:store_purge"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "vn"
)
