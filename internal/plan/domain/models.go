package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CompensationPlan is a driver's pricing policy for an optional client/area
// scope inside a validity window. Plans are configured by the back office and
// read-only to the calculation engine.
type CompensationPlan struct {
	ID        snowflake.ID      `json:"id" gorm:"primaryKey"`
	DriverID  snowflake.ID      `json:"driver_id" gorm:"column:driver_id;not null;index"`
	Client    *string           `json:"client,omitempty" gorm:"type:text"`
	Area      *string           `json:"area,omitempty" gorm:"type:text"`
	StartsOn  time.Time         `json:"starts_on" gorm:"not null"`
	EndsOn    *time.Time        `json:"ends_on,omitempty"`
	BaseFixed decimal.Decimal   `json:"base_fixed" gorm:"type:numeric;not null"`
	Active    bool              `json:"active" gorm:"not null;default:true"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Rates   []PackageRate `json:"rates" gorm:"foreignKey:PlanID"`
	Bonuses []VolumeBonus `json:"bonuses" gorm:"foreignKey:PlanID"`
}

func (CompensationPlan) TableName() string { return "compensation_plans" }

// Covers reports whether the plan's validity window contains the given date.
func (p *CompensationPlan) Covers(on time.Time) bool {
	if p.StartsOn.After(on) {
		return false
	}
	return p.EndsOn == nil || !p.EndsOn.Before(on)
}

// Progressive reports whether the plan's package calculation runs in
// progressive mode. A single progressive rate row switches the whole plan.
func (p *CompensationPlan) Progressive() bool {
	for _, rate := range p.Rates {
		if rate.Progressive {
			return true
		}
	}
	return false
}

// PackageRate is one volume band of a plan. MaxDelivered nil means unbounded;
// a plan carries at most one unbounded row.
type PackageRate struct {
	ID           snowflake.ID    `json:"id" gorm:"primaryKey"`
	PlanID       snowflake.ID    `json:"plan_id" gorm:"column:plan_id;not null;index"`
	MinDelivered int64           `json:"min_delivered" gorm:"not null"`
	MaxDelivered *int64          `json:"max_delivered,omitempty"`
	Rate         decimal.Decimal `json:"rate" gorm:"type:numeric;not null"`
	Priority     int             `json:"priority" gorm:"not null;default:0"`
	Progressive  bool            `json:"progressive" gorm:"not null;default:false"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PackageRate) TableName() string { return "package_rates" }

type BonusKind string

const (
	BonusKindOnce     BonusKind = "once"
	BonusKindEachStep BonusKind = "each_step"
)

// VolumeBonus is a delivered-count threshold bonus. Kind once pays Amount a
// single time; each_step pays Amount for the threshold and again per Step
// packages above it.
type VolumeBonus struct {
	ID        snowflake.ID    `json:"id" gorm:"primaryKey"`
	PlanID    snowflake.ID    `json:"plan_id" gorm:"column:plan_id;not null;index"`
	Kind      BonusKind       `json:"kind" gorm:"type:text;not null"`
	StartAt   int64           `json:"start_at" gorm:"not null"`
	Step      int64           `json:"step" gorm:"not null;default:0"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric;not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (VolumeBonus) TableName() string { return "volume_bonuses" }
