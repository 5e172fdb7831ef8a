package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	claimdomain "github.com/haulaware/driverpay/internal/claim/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() claimdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, claim *claimdomain.DriverClaim) error {
	return db.WithContext(ctx).Create(claim).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*claimdomain.DriverClaim, error) {
	var claim claimdomain.DriverClaim
	err := db.WithContext(ctx).Where("id = ?", id).First(&claim).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, driverID snowflake.ID, status claimdomain.ClaimStatus) ([]claimdomain.DriverClaim, error) {
	stmt := db.WithContext(ctx).Order("occurred_at DESC, id DESC")
	if driverID != 0 {
		stmt = stmt.Where("driver_id = ?", driverID)
	}
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	var claims []claimdomain.DriverClaim
	err := stmt.Find(&claims).Error
	return claims, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, claim *claimdomain.DriverClaim) error {
	return db.WithContext(ctx).Save(claim).Error
}

func (r *repo) PendingForSettlement(ctx context.Context, db *gorm.DB, driverID snowflake.ID, start, end time.Time) ([]claimdomain.DriverClaim, error) {
	var claims []claimdomain.DriverClaim
	err := db.WithContext(ctx).
		Where("driver_id = ? AND status = ? AND settlement_id IS NULL AND occurred_at >= ? AND occurred_at <= ?",
			driverID, claimdomain.ClaimStatusApproved, start, end).
		Find(&claims).Error
	return claims, err
}

func (r *repo) LinkPending(ctx context.Context, db *gorm.DB, settlementID, driverID snowflake.ID, start, end time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE driver_claims
		 SET settlement_id = ?, updated_at = ?
		 WHERE driver_id = ? AND status = ? AND settlement_id IS NULL
		 AND occurred_at >= ? AND occurred_at <= ?`,
		settlementID,
		time.Now().UTC(),
		driverID,
		claimdomain.ClaimStatusApproved,
		start,
		end,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) ListBySettlement(ctx context.Context, db *gorm.DB, settlementID snowflake.ID) ([]claimdomain.DriverClaim, error) {
	var claims []claimdomain.DriverClaim
	err := db.WithContext(ctx).
		Where("settlement_id = ?", settlementID).
		Order("occurred_at ASC, id ASC").
		Find(&claims).Error
	return claims, err
}
