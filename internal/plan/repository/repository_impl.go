package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() plandomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, plan *plandomain.CompensationPlan) error {
	return db.WithContext(ctx).Create(plan).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*plandomain.CompensationPlan, error) {
	var plan plandomain.CompensationPlan
	err := db.WithContext(ctx).
		Preload("Rates").
		Preload("Bonuses").
		Where("id = ?", id).
		First(&plan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repo) ListByDriver(ctx context.Context, db *gorm.DB, driverID snowflake.ID) ([]plandomain.CompensationPlan, error) {
	var plans []plandomain.CompensationPlan
	err := db.WithContext(ctx).
		Preload("Rates").
		Preload("Bonuses").
		Where("driver_id = ?", driverID).
		Order("starts_on DESC").
		Find(&plans).Error
	return plans, err
}

func (r *repo) ListActiveCovering(ctx context.Context, db *gorm.DB, driverID snowflake.ID, on time.Time) ([]plandomain.CompensationPlan, error) {
	var plans []plandomain.CompensationPlan
	err := db.WithContext(ctx).
		Preload("Rates").
		Preload("Bonuses").
		Where("driver_id = ? AND active = ? AND starts_on <= ? AND (ends_on IS NULL OR ends_on >= ?)",
			driverID, true, on, on).
		Order("starts_on DESC, id ASC").
		Find(&plans).Error
	return plans, err
}
