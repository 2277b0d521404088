package service

import "errors"

// 订单相关错误
var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderFetchFailed        = errors.New("order fetch failed")
	ErrOrderCreateFailed       = errors.New("order create failed")
	ErrOrderUpdateFailed       = errors.New("order update failed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrOrderConflict           = errors.New("order status modified concurrently")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrUnknownOrderStatus      = errors.New("unknown order status")
)

// 购物车/心愿单相关错误
var (
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrCartLineNotFound      = errors.New("cart line not found")
	ErrWishlistEntryNotFound = errors.New("wishlist entry not found")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrProductNotAvailable   = errors.New("product not available")
)

// 配送相关错误
var (
	ErrDeliveryDetailNotFound = errors.New("delivery detail not found")
	ErrDeliveryDetailInvalid  = errors.New("delivery detail invalid")
	ErrNoShippingZoneMatch    = errors.New("no shipping zone matches the address")
	ErrNoShippingRate         = errors.New("no shipping rate for zone and method")
	ErrShippingMethodNotFound = errors.New("shipping method not found")
	ErrShippingZoneNotFound   = errors.New("shipping zone not found")
	ErrShippingRateNotFound   = errors.New("shipping rate not found")
)

// 身份与认证相关错误
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password too weak")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailTaken         = errors.New("email already registered")
	ErrProfileEmpty       = errors.New("profile update empty")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDisabled       = errors.New("user disabled")
	ErrGuestIDInvalid     = errors.New("guest id invalid")
	ErrIdentityRequired   = errors.New("identity required")
)

// 推送相关错误
var (
	ErrPushNotConfigured = errors.New("push sender not configured")
	ErrPushSendFailed    = errors.New("push send failed")
	ErrPushTokenEmpty    = errors.New("push token empty")
)
