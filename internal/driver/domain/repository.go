package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, driver *Driver) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Driver, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Driver, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]Driver, error)
}
