package service

import "github.com/vendora-next/internal/constants"

// orderStatusDescriptions 状态对应的用户可读文案，随状态行一起落库
var orderStatusDescriptions = map[string]string{
	constants.OrderStatusPlaced:         "Pending confirmation.",
	constants.OrderStatusConfirmed:      "Your order is confirmed and will be processed shortly.",
	constants.OrderStatusProcessing:     "Your order is being prepared for shipment.",
	constants.OrderStatusShipped:        "Your order is on the way.",
	constants.OrderStatusOutForDelivery: "Your order is out for delivery and will arrive soon.",
	constants.OrderStatusDelivered:      "Order successfully delivered.",
	constants.OrderStatusCancelled:      "Your order has been cancelled.",
	constants.OrderStatusDeclined:       "Your order has been declined by the seller.",
	constants.OrderStatusRefundRequest:  "Refund request received and is under review.",
	constants.OrderStatusRefundApproved: "Your refund request has been approved.",
	constants.OrderStatusRefundDeclined: "Your refund request has been declined.",
	constants.OrderStatusReturned:       "Return request received. Awaiting pickup.",
	constants.OrderStatusRefunded:       "Refund successfully processed.",
	constants.OrderStatusFailed:         "Order failed. Please try again.",
}

// OrderStatusDescription 获取状态文案
func OrderStatusDescription(status string) string {
	return orderStatusDescriptions[status]
}

// transitionRule 状态迁移规则：操作要求的当前状态与目标状态
type transitionRule struct {
	Required string
	Target   string
}

// 订单操作名
const (
	OrderOpCancel         = "cancel"
	OrderOpRequestRefund  = "request_refund"
	OrderOpAccept         = "accept"
	OrderOpDecline        = "decline"
	OrderOpProcess        = "process"
	OrderOpShip           = "ship"
	OrderOpOutForDelivery = "out_for_delivery"
	OrderOpMarkDelivered  = "mark_delivered"
	OrderOpApproveRefund  = "approve_refund"
	OrderOpDeclineRefund  = "decline_refund"
)

// orderTransitions 固定迁移表：每个操作只接受一个前置状态
var orderTransitions = map[string]transitionRule{
	OrderOpCancel:         {Required: constants.OrderStatusPlaced, Target: constants.OrderStatusCancelled},
	OrderOpRequestRefund:  {Required: constants.OrderStatusDelivered, Target: constants.OrderStatusRefundRequest},
	OrderOpAccept:         {Required: constants.OrderStatusPlaced, Target: constants.OrderStatusConfirmed},
	OrderOpDecline:        {Required: constants.OrderStatusPlaced, Target: constants.OrderStatusDeclined},
	OrderOpProcess:        {Required: constants.OrderStatusConfirmed, Target: constants.OrderStatusProcessing},
	OrderOpShip:           {Required: constants.OrderStatusProcessing, Target: constants.OrderStatusShipped},
	OrderOpOutForDelivery: {Required: constants.OrderStatusShipped, Target: constants.OrderStatusOutForDelivery},
	OrderOpMarkDelivered:  {Required: constants.OrderStatusOutForDelivery, Target: constants.OrderStatusDelivered},
	OrderOpApproveRefund:  {Required: constants.OrderStatusRefundRequest, Target: constants.OrderStatusRefundApproved},
	OrderOpDeclineRefund:  {Required: constants.OrderStatusRefundRequest, Target: constants.OrderStatusRefundDeclined},
}

// restockOrderStatuses 需要回补库存的目标状态
var restockOrderStatuses = map[string]bool{
	constants.OrderStatusCancelled: true,
	constants.OrderStatusDeclined:  true,
}
