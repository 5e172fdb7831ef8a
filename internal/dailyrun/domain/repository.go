package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Upsert inserts the record or replaces the raw facts of the existing
	// row keyed by (driver, date, client, area).
	Upsert(ctx context.Context, db *gorm.DB, record *DailyRunRecord) error
	ListRange(ctx context.Context, db *gorm.DB, driverID snowflake.ID, from, to time.Time) ([]DailyRunRecord, error)
	// GroupTotals aggregates a driver's records per (client, area) over the
	// period, optionally scoped to one client.
	GroupTotals(ctx context.Context, db *gorm.DB, driverID snowflake.ID, client string, from, to time.Time) ([]GroupTotals, error)
	// DriverTotals aggregates records per driver over the range, optionally
	// filtered by client and area.
	DriverTotals(ctx context.Context, db *gorm.DB, from, to time.Time, client, area string) ([]DriverTotals, error)
}
