package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type PeriodType string

const (
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
)

type SettlementStatus string

const (
	StatusDraft      SettlementStatus = "draft"
	StatusCalculated SettlementStatus = "calculated"
	StatusApproved   SettlementStatus = "approved"
	StatusPaid       SettlementStatus = "paid"
	StatusDisputed   SettlementStatus = "disputed"
)

// DriverSettlement is the computed payout for one driver over one period,
// optionally scoped to a single partner. At most one settlement exists per
// (driver, period type, period start, partner).
type DriverSettlement struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	DriverID   snowflake.ID `json:"driver_id" gorm:"column:driver_id;not null;uniqueIndex:idx_settlement_period"`
	Partner    string       `json:"partner" gorm:"type:text;not null;default:'';uniqueIndex:idx_settlement_period"`
	PeriodType PeriodType   `json:"period_type" gorm:"type:text;not null;uniqueIndex:idx_settlement_period"`

	PeriodStart time.Time `json:"period_start" gorm:"not null;uniqueIndex:idx_settlement_period"`
	PeriodEnd   time.Time `json:"period_end" gorm:"not null"`

	TotalOrders     int64   `json:"total_orders" gorm:"not null"`
	DeliveredOrders int64   `json:"delivered_orders" gorm:"not null"`
	FailedOrders    int64   `json:"failed_orders" gorm:"not null"`
	SuccessRate     float64 `json:"success_rate" gorm:"not null"`

	GrossAmount     decimal.Decimal `json:"gross_amount" gorm:"type:numeric;not null"`
	BonusAmount     decimal.Decimal `json:"bonus_amount" gorm:"type:numeric;not null"`
	FuelDeduction   decimal.Decimal `json:"fuel_deduction" gorm:"type:numeric;not null"`
	ClaimsDeducted  decimal.Decimal `json:"claims_deducted" gorm:"type:numeric;not null"`
	OtherDeductions decimal.Decimal `json:"other_deductions" gorm:"type:numeric;not null"`
	NetAmount       decimal.Decimal `json:"net_amount" gorm:"type:numeric;not null"`

	Status    SettlementStatus `json:"status" gorm:"type:text;not null"`
	CreatedAt time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DriverSettlement) TableName() string { return "driver_settlements" }

// RecomputeNet rebuilds the net payout from the settlement's own buckets:
// gross + bonus − (fuel + claims + other).
func (s *DriverSettlement) RecomputeNet() {
	s.NetAmount = s.GrossAmount.
		Add(s.BonusAmount).
		Sub(s.FuelDeduction).
		Sub(s.ClaimsDeducted).
		Sub(s.OtherDeductions)
}
