package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, settlement *DriverSettlement) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*DriverSettlement, error)
	// FindByPeriod looks up the settlement for the exact period key. Partner
	// is part of the key; an empty partner is the all-partners settlement.
	FindByPeriod(ctx context.Context, db *gorm.DB, driverID snowflake.ID, periodType PeriodType, periodStart time.Time, partner string) (*DriverSettlement, error)
	List(ctx context.Context, db *gorm.DB, driverID snowflake.ID, periodType PeriodType, from, to time.Time) ([]DriverSettlement, error)
	Update(ctx context.Context, db *gorm.DB, settlement *DriverSettlement) error
}
