package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, plan *CompensationPlan) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*CompensationPlan, error)
	ListByDriver(ctx context.Context, db *gorm.DB, driverID snowflake.ID) ([]CompensationPlan, error)
	// ListActiveCovering returns the driver's active plans whose validity
	// window contains on, rates and bonuses preloaded.
	ListActiveCovering(ctx context.Context, db *gorm.DB, driverID snowflake.ID, on time.Time) ([]CompensationPlan, error)
}
