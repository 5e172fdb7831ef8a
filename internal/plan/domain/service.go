package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Resolve picks the single applicable plan for a driver on a date using
	// the specificity waterfall: client+area, client, area, driver default.
	// A nil plan (no error) means no plan applies and the engine degrades to
	// zero rates.
	Resolve(ctx context.Context, req ResolveRequest) (*CompensationPlan, error)
	Create(ctx context.Context, req CreateRequest) (*CompensationPlan, error)
	List(ctx context.Context, driverID string) ([]CompensationPlan, error)
}

type ResolveRequest struct {
	DriverID string    `json:"driver_id"`
	Client   string    `json:"client"`
	Area     string    `json:"area"`
	OnDate   time.Time `json:"on_date"`
}

type CreateRequest struct {
	DriverID  string         `json:"driver_id"`
	Client    *string        `json:"client"`
	Area      *string        `json:"area"`
	StartsOn  time.Time      `json:"starts_on"`
	EndsOn    *time.Time     `json:"ends_on"`
	BaseFixed string         `json:"base_fixed"`
	Active    *bool          `json:"active"`
	Rates     []RateRequest  `json:"rates"`
	Bonuses   []BonusRequest `json:"bonuses"`
	Metadata  map[string]any `json:"metadata"`
}

type RateRequest struct {
	MinDelivered int64  `json:"min_delivered"`
	MaxDelivered *int64 `json:"max_delivered"`
	Rate         string `json:"rate"`
	Priority     int    `json:"priority"`
	Progressive  bool   `json:"progressive"`
}

type BonusRequest struct {
	Kind    BonusKind `json:"kind"`
	StartAt int64     `json:"start_at"`
	Step    int64     `json:"step"`
	Amount  string    `json:"amount"`
}

var (
	ErrInvalidDriver     = errors.New("invalid_driver")
	ErrInvalidWindow     = errors.New("invalid_validity_window")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidRateBand   = errors.New("invalid_rate_band")
	ErrMultipleUnbounded = errors.New("multiple_unbounded_rate_bands")
	ErrInvalidBonusKind  = errors.New("invalid_bonus_kind")
	ErrNotFound          = errors.New("plan_not_found")
)
