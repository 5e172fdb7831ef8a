package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Row is one driver's line in the payout report: plan-priced package revenue
// plus volume bonus and fixed base, minus the period's deductions.
type Row struct {
	DriverID   snowflake.ID `json:"driver_id"`
	DriverName string       `json:"driver_name"`

	PeriodFrom time.Time `json:"period_from"`
	PeriodTo   time.Time `json:"period_to"`
	Delivered  int64     `json:"delivered"`

	PackageGross decimal.Decimal `json:"package_gross"`
	Bonus        decimal.Decimal `json:"bonus"`
	FixedBase    decimal.Decimal `json:"fixed_base"`
	TotalGross   decimal.Decimal `json:"total_gross"`
	Deductions   decimal.Decimal `json:"deductions"`
	Net          decimal.Decimal `json:"net"`

	AvgNetPerPackage decimal.Decimal `json:"average_net_per_package"`
}

type Request struct {
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Client string    `json:"client"`
	Area   string    `json:"area"`
}

type Service interface {
	// Compute builds the report for the date range, one row per driver with
	// activity, sorted by net payout descending then driver name.
	Compute(ctx context.Context, req Request) ([]Row, error)
	WriteCSV(w io.Writer, rows []Row) error
	WriteXLSX(w io.Writer, rows []Row) error
}

var ErrInvalidRange = errors.New("invalid_report_range")
