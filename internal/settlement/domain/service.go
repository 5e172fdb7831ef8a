package domain

import (
	"context"
	"io"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Calculate computes a settlement for the requested period without
	// persisting anything. Claim deductions are a preview of the approved,
	// still-unlinked claims in the window.
	Calculate(ctx context.Context, req CalculateRequest) (*DriverSettlement, error)
	// CalculateAndStore persists the calculated settlement and links the
	// eligible claims to it. A settlement already stored for the same period
	// key is ErrDuplicateSettlement; a period with no orders and no daily
	// records is ErrEmptyPeriod.
	CalculateAndStore(ctx context.Context, req CalculateRequest) (*DriverSettlement, error)
	// ApplyClaims re-links eligible claims to an existing settlement and
	// rebuilds its claim deduction and net from the full linked set.
	ApplyClaims(ctx context.Context, settlementID string) (*DriverSettlement, error)
	// CalculateAll runs CalculateAndStore for every active driver. Duplicate
	// and empty periods count as skips; other failures are isolated per
	// driver.
	CalculateAll(ctx context.Context, periodType PeriodType, year, index int) (*BatchResult, error)
	Get(ctx context.Context, id string) (*DriverSettlement, error)
	List(ctx context.Context, req ListRequest) ([]DriverSettlement, error)
	// ExportCSV writes the settlements as semicolon-delimited CSV.
	ExportCSV(w io.Writer, settlements []DriverSettlement) error
}

type CalculateRequest struct {
	DriverID   string     `json:"driver_id"`
	PeriodType PeriodType `json:"period_type"`
	Year       int        `json:"year"`
	Index      int        `json:"index"`
	Partner    string     `json:"partner"`
}

type ListRequest struct {
	DriverID   string     `json:"driver_id"`
	PeriodType PeriodType `json:"period_type"`
	Year       int        `json:"year"`
	Index      int        `json:"index"`
}

type BatchResult struct {
	PeriodType PeriodType     `json:"period_type"`
	Year       int            `json:"year"`
	Index      int            `json:"index"`
	Calculated int            `json:"calculated"`
	Skipped    int            `json:"skipped"`
	Failed     []BatchFailure `json:"failed,omitempty"`
}

type BatchFailure struct {
	DriverID snowflake.ID `json:"driver_id"`
	Reason   string       `json:"reason"`
}
