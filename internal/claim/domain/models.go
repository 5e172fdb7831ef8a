package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
	ClaimStatusAppealed ClaimStatus = "appealed"
)

const (
	ClaimTypeDamage         = "damage"
	ClaimTypeLoss           = "loss"
	ClaimTypeFailedDelivery = "failed_delivery"
	ClaimTypeOther          = "other"
)

// DriverClaim is an approvable monetary deduction against a driver's future
// settlement. SettlementID stays null until a settlement consumes the claim;
// the null check is the idempotency guard for consumption.
type DriverClaim struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	DriverID    snowflake.ID    `json:"driver_id" gorm:"column:driver_id;not null;index"`
	OrderID     *snowflake.ID   `json:"order_id,omitempty" gorm:"column:order_id;index"`
	ClaimType   string          `json:"claim_type" gorm:"type:text;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric;not null"`
	Description string          `json:"description" gorm:"type:text"`
	OccurredAt  time.Time       `json:"occurred_at" gorm:"not null;index"`
	Status      ClaimStatus     `json:"status" gorm:"type:text;not null;index"`

	SettlementID *snowflake.ID `json:"settlement_id,omitempty" gorm:"column:settlement_id;index"`

	ReviewedBy  string     `json:"reviewed_by,omitempty" gorm:"type:text"`
	ReviewNotes string     `json:"review_notes,omitempty" gorm:"type:text"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DriverClaim) TableName() string { return "driver_claims" }
