package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyRunRecord is one calendar day's raw delivery facts for a driver under
// a client/area. Records arrive through daily imports and are upserted by
// (driver, date, client, area). Totals are derived on every save.
type DailyRunRecord struct {
	ID       snowflake.ID `json:"id" gorm:"primaryKey"`
	DriverID snowflake.ID `json:"driver_id" gorm:"column:driver_id;not null;uniqueIndex:idx_daily_run_key"`
	Date     time.Time    `json:"date" gorm:"not null;uniqueIndex:idx_daily_run_key"`
	Client   string       `json:"client" gorm:"type:text;not null;default:'';uniqueIndex:idx_daily_run_key"`
	Area     string       `json:"area" gorm:"type:text;not null;default:'';uniqueIndex:idx_daily_run_key"`

	SentCount      int64 `json:"sent_count" gorm:"not null"`
	PlannedCount   int64 `json:"planned_count" gorm:"not null"`
	DeliveredCount int64 `json:"delivered_count" gorm:"not null"`

	UnitPrice            decimal.Decimal `json:"unit_price" gorm:"type:numeric;not null"`
	FuelDeduction        decimal.Decimal `json:"fuel_deduction" gorm:"type:numeric;not null"`
	TicketDiscount       decimal.Decimal `json:"ticket_discount" gorm:"type:numeric;not null"`
	TicketReconciliation decimal.Decimal `json:"ticket_reconciliation" gorm:"type:numeric;not null"`
	OtherDeduction       decimal.Decimal `json:"other_deduction" gorm:"type:numeric;not null"`

	GrossFromUnitPrice decimal.Decimal `json:"gross_from_unit_price" gorm:"type:numeric;not null"`
	Net                decimal.Decimal `json:"net" gorm:"type:numeric;not null"`

	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DailyRunRecord) TableName() string { return "daily_run_records" }

// Validate enforces the count-ordering invariant. A violation is a hard
// precondition failure, never auto-corrected.
func (r *DailyRunRecord) Validate() error {
	if r.SentCount < 0 || r.PlannedCount < 0 || r.DeliveredCount < 0 {
		return ErrNegativeCount
	}
	if r.DeliveredCount > r.PlannedCount || r.PlannedCount > r.SentCount {
		return ErrCountOrdering
	}
	return nil
}

// ComputeTotals derives the per-day gross and net from the record's raw facts.
func (r *DailyRunRecord) ComputeTotals() {
	r.GrossFromUnitPrice = r.UnitPrice.Mul(decimal.NewFromInt(r.DeliveredCount))
	r.Net = r.GrossFromUnitPrice.Sub(r.Deductions())
}

// Deductions is the sum of the record's four deduction buckets.
func (r *DailyRunRecord) Deductions() decimal.Decimal {
	return r.FuelDeduction.
		Add(r.TicketDiscount).
		Add(r.TicketReconciliation).
		Add(r.OtherDeduction)
}

// BeforeSave recomputes derived totals so a record can never be persisted
// with stale gross/net values.
func (r *DailyRunRecord) BeforeSave(tx *gorm.DB) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.ComputeTotals()
	return nil
}

// GroupTotals is the per (client, area) aggregate of a driver's records over
// a period, the unit at which plans are resolved.
type GroupTotals struct {
	DriverID       snowflake.ID
	Client         string
	Area           string
	Delivered      int64
	Fuel           decimal.Decimal
	OtherDeduction decimal.Decimal
}

// DriverTotals is the per-driver aggregate used by the payout report.
type DriverTotals struct {
	DriverID             snowflake.ID
	Delivered            int64
	Fuel                 decimal.Decimal
	TicketDiscount       decimal.Decimal
	TicketReconciliation decimal.Decimal
	OtherDeduction       decimal.Decimal
}

var (
	ErrCountOrdering = errors.New("count_ordering_violation")
	ErrNegativeCount = errors.New("negative_count")
	ErrUnknownDriver = errors.New("unknown_driver")
	ErrMalformedRow  = errors.New("malformed_import_row")
)
