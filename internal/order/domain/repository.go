package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	// CountsForPeriod aggregates order counts for a driver inside the period,
	// optionally filtered by partner.
	CountsForPeriod(ctx context.Context, db *gorm.DB, driverID snowflake.ID, partner string, start, end time.Time) (PeriodCounts, error)
	ListForPeriod(ctx context.Context, db *gorm.DB, driverID snowflake.ID, partner string, start, end time.Time) ([]Order, error)
	// ListFailedWithoutClaim returns failed orders that have no deduction
	// claim attached yet.
	ListFailedWithoutClaim(ctx context.Context, db *gorm.DB, limit int) ([]Order, error)
}
