package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusFailed    OrderStatus = "failed"
)

// Order is a read-only fact from the order lifecycle subsystem. The engine
// counts orders for success rates, uses failed orders to seed claims, and
// falls back to flat per-order pricing when no plan tariff resolves.
type Order struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	DriverID    *snowflake.ID   `json:"driver_id,omitempty" gorm:"column:driver_id;index"`
	Partner     string          `json:"partner" gorm:"type:text;index"`
	Area        string          `json:"area" gorm:"type:text"`
	Status      OrderStatus     `json:"status" gorm:"type:text;not null;index"`
	Value       decimal.Decimal `json:"value" gorm:"type:numeric;not null"`
	OccurredAt  time.Time       `json:"occurred_at" gorm:"not null;index"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) Delivered() bool { return o.Status == OrderStatusDelivered }

// PeriodCounts aggregates one driver's orders inside a settlement period.
type PeriodCounts struct {
	Total     int64
	Delivered int64
	Failed    int64
}

// SuccessRate is delivered/total as a percentage, zero for an empty period.
func (c PeriodCounts) SuccessRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Delivered) / float64(c.Total) * 100
}

var ErrNotFound = errors.New("order_not_found")
