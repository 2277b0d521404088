package public

import (
	"errors"

	handlershared "github.com/vendora-next/internal/http/handlers/shared"
	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "insufficient stock"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "invalid quantity"},
	{target: service.ErrCartLineNotFound, code: response.CodeNotFound, msg: "cart line not found"},
}

var wishlistErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrWishlistEntryNotFound, code: response.CodeNotFound, msg: "wishlist entry not found"},
}

var orderPlaceErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrDeliveryDetailNotFound, code: response.CodeBadRequest, msg: "delivery detail not found"},
	{target: service.ErrShippingMethodNotFound, code: response.CodeBadRequest, msg: "shipping method not found"},
	{target: service.ErrNoShippingZoneMatch, code: response.CodeBadRequest, msg: "address not covered by any shipping zone"},
	{target: service.ErrNoShippingRate, code: response.CodeBadRequest, msg: "no shipping rate for this method and zone"},
	{target: service.ErrOrderCreateFailed, code: response.CodeInternal, msg: "order create failed"},
}

var orderTransitionErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrInvalidStatusTransition, code: response.CodeBadRequest, msg: "status transition not allowed"},
	{target: service.ErrOrderConflict, code: response.CodeConflict, msg: "order modified concurrently, retry"},
}

var deliveryDetailErrorRules = []mappedHandlerError{
	{target: service.ErrDeliveryDetailNotFound, code: response.CodeNotFound, msg: "delivery detail not found"},
	{target: service.ErrDeliveryDetailInvalid, code: response.CodeBadRequest, msg: "delivery detail invalid"},
}
