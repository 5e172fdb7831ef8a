package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	settlementdomain "github.com/haulaware/driverpay/internal/settlement/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() settlementdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, settlement *settlementdomain.DriverSettlement) error {
	return db.WithContext(ctx).Create(settlement).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*settlementdomain.DriverSettlement, error) {
	var settlement settlementdomain.DriverSettlement
	err := db.WithContext(ctx).Where("id = ?", id).First(&settlement).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &settlement, nil
}

func (r *repo) FindByPeriod(ctx context.Context, db *gorm.DB, driverID snowflake.ID, periodType settlementdomain.PeriodType, periodStart time.Time, partner string) (*settlementdomain.DriverSettlement, error) {
	var settlement settlementdomain.DriverSettlement
	err := db.WithContext(ctx).
		Where("driver_id = ? AND period_type = ? AND period_start = ? AND partner = ?",
			driverID, periodType, periodStart, partner).
		First(&settlement).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &settlement, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, driverID snowflake.ID, periodType settlementdomain.PeriodType, from, to time.Time) ([]settlementdomain.DriverSettlement, error) {
	stmt := db.WithContext(ctx).Order("period_start DESC, driver_id ASC")
	if driverID != 0 {
		stmt = stmt.Where("driver_id = ?", driverID)
	}
	if periodType != "" {
		stmt = stmt.Where("period_type = ?", periodType)
	}
	if !from.IsZero() {
		stmt = stmt.Where("period_start >= ?", from)
	}
	if !to.IsZero() {
		stmt = stmt.Where("period_start <= ?", to)
	}
	var settlements []settlementdomain.DriverSettlement
	err := stmt.Find(&settlements).Error
	return settlements, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, settlement *settlementdomain.DriverSettlement) error {
	return db.WithContext(ctx).Save(settlement).Error
}
