package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	claimdomain "github.com/haulaware/driverpay/internal/claim/domain"
	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
	orderdomain "github.com/haulaware/driverpay/internal/order/domain"
	reportdomain "github.com/haulaware/driverpay/internal/payoutreport/domain"
	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	settlementdomain "github.com/haulaware/driverpay/internal/settlement/domain"
	"github.com/haulaware/driverpay/pkg/db"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// validationErrs map to 400: the request was understood but violates a
// domain precondition.
var validationErrs = []error{
	ErrInvalidRequest,
	plandomain.ErrInvalidDriver,
	plandomain.ErrInvalidWindow,
	plandomain.ErrInvalidAmount,
	plandomain.ErrInvalidRateBand,
	plandomain.ErrMultipleUnbounded,
	plandomain.ErrInvalidBonusKind,
	claimdomain.ErrInvalidAmount,
	claimdomain.ErrInvalidDriver,
	claimdomain.ErrNotPending,
	claimdomain.ErrOrderUnassigned,
	dailyrundomain.ErrCountOrdering,
	dailyrundomain.ErrNegativeCount,
	dailyrundomain.ErrMalformedRow,
	settlementdomain.ErrInvalidPeriod,
	settlementdomain.ErrInvalidDriver,
	reportdomain.ErrInvalidRange,
}

var notFoundErrs = []error{
	plandomain.ErrNotFound,
	claimdomain.ErrNotFound,
	orderdomain.ErrNotFound,
	driverdomain.ErrNotFound,
	settlementdomain.ErrNotFound,
	settlementdomain.ErrUnknownDriver,
	dailyrundomain.ErrUnknownDriver,
	gorm.ErrRecordNotFound,
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	for _, target := range validationErrs {
		if errors.Is(err, target) {
			return http.StatusBadRequest, errorPayload{
				Type:    "validation_error",
				Message: target.Error(),
			}
		}
	}
	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			return http.StatusNotFound, errorPayload{
				Type:    "not_found",
				Message: target.Error(),
			}
		}
	}
	if errors.Is(err, settlementdomain.ErrDuplicateSettlement) || db.IsDuplicateKeyErr(err) {
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: settlementdomain.ErrDuplicateSettlement.Error(),
		}
	}
	if errors.Is(err, settlementdomain.ErrEmptyPeriod) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "empty_period",
			Message: settlementdomain.ErrEmptyPeriod.Error(),
		}
	}
	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}
