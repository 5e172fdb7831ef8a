package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/haulaware/driverpay/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() orderdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *orderdomain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) CountsForPeriod(ctx context.Context, db *gorm.DB, driverID snowflake.ID, partner string, start, end time.Time) (orderdomain.PeriodCounts, error) {
	var row struct {
		Total     int64
		Delivered int64
		Failed    int64
	}
	stmt := db.WithContext(ctx).Model(&orderdomain.Order{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS delivered, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS failed",
			orderdomain.OrderStatusDelivered,
			orderdomain.OrderStatusFailed,
		).
		Where("driver_id = ? AND occurred_at >= ? AND occurred_at <= ?", driverID, start, end)
	if partner != "" {
		stmt = stmt.Where("partner = ?", partner)
	}
	if err := stmt.Scan(&row).Error; err != nil {
		return orderdomain.PeriodCounts{}, err
	}
	return orderdomain.PeriodCounts{
		Total:     row.Total,
		Delivered: row.Delivered,
		Failed:    row.Failed,
	}, nil
}

func (r *repo) ListForPeriod(ctx context.Context, db *gorm.DB, driverID snowflake.ID, partner string, start, end time.Time) ([]orderdomain.Order, error) {
	var orders []orderdomain.Order
	stmt := db.WithContext(ctx).
		Where("driver_id = ? AND occurred_at >= ? AND occurred_at <= ?", driverID, start, end).
		Order("occurred_at ASC, id ASC")
	if partner != "" {
		stmt = stmt.Where("partner = ?", partner)
	}
	err := stmt.Find(&orders).Error
	return orders, err
}

func (r *repo) ListFailedWithoutClaim(ctx context.Context, db *gorm.DB, limit int) ([]orderdomain.Order, error) {
	var orders []orderdomain.Order
	stmt := db.WithContext(ctx).Raw(
		`SELECT o.* FROM orders o
		 LEFT JOIN driver_claims c ON c.order_id = o.id
		 WHERE o.status = ? AND o.driver_id IS NOT NULL AND c.id IS NULL
		 ORDER BY o.occurred_at ASC
		 LIMIT ?`,
		orderdomain.OrderStatusFailed,
		limit,
	)
	err := stmt.Scan(&orders).Error
	return orders, err
}
