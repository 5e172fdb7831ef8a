package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, claim *DriverClaim) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*DriverClaim, error)
	List(ctx context.Context, db *gorm.DB, driverID snowflake.ID, status ClaimStatus) ([]DriverClaim, error)
	Update(ctx context.Context, db *gorm.DB, claim *DriverClaim) error
	// PendingForSettlement returns approved, unlinked claims whose
	// occurred_at falls inside the period.
	PendingForSettlement(ctx context.Context, db *gorm.DB, driverID snowflake.ID, start, end time.Time) ([]DriverClaim, error)
	// LinkPending atomically stamps the settlement onto every approved,
	// still-unlinked claim in the period and reports how many rows it
	// claimed. The `settlement_id IS NULL` predicate makes concurrent
	// invocations consume each claim at most once.
	LinkPending(ctx context.Context, db *gorm.DB, settlementID, driverID snowflake.ID, start, end time.Time) (int64, error)
	ListBySettlement(ctx context.Context, db *gorm.DB, settlementID snowflake.ID) ([]DriverClaim, error)
}
