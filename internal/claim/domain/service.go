package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*DriverClaim, error)
	// CreateFromOrder opens a pending claim against the order's assigned
	// driver; it fails when the order has no driver.
	CreateFromOrder(ctx context.Context, orderID, claimType, amount, description string) (*DriverClaim, error)
	Approve(ctx context.Context, id, reviewer, notes string) (*DriverClaim, error)
	Reject(ctx context.Context, id, reviewer, notes string) (*DriverClaim, error)
	List(ctx context.Context, driverID string, status ClaimStatus) ([]DriverClaim, error)
	PendingForSettlement(ctx context.Context, driverID snowflake.ID, start, end time.Time) ([]DriverClaim, error)
	// ApplyToSettlement links every eligible claim to the settlement inside
	// the caller's transaction and returns the full set of claims linked to
	// it afterwards. Safe to call repeatedly.
	ApplyToSettlement(ctx context.Context, tx *gorm.DB, settlementID, driverID snowflake.ID, start, end time.Time) ([]DriverClaim, error)
	// CreateFromFailedOrders opens pending claims for failed orders that
	// carry none yet, valued at the order's goods value.
	CreateFromFailedOrders(ctx context.Context, limit int) (int, error)
}

type CreateRequest struct {
	DriverID    string    `json:"driver_id"`
	OrderID     *string   `json:"order_id"`
	ClaimType   string    `json:"claim_type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

var (
	ErrNotFound        = errors.New("claim_not_found")
	ErrNotPending      = errors.New("claim_not_pending")
	ErrOrderUnassigned = errors.New("order_has_no_driver")
	ErrInvalidAmount   = errors.New("invalid_claim_amount")
	ErrInvalidDriver   = errors.New("invalid_driver")
)
