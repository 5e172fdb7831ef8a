package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() dailyrundomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *dailyrundomain.DailyRunRecord) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "driver_id"}, {Name: "date"}, {Name: "client"}, {Name: "area"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"sent_count", "planned_count", "delivered_count",
			"unit_price", "fuel_deduction", "ticket_discount",
			"ticket_reconciliation", "other_deduction",
			"gross_from_unit_price", "net", "notes", "updated_at",
		}),
	}).Create(record).Error
}

func (r *repo) ListRange(ctx context.Context, db *gorm.DB, driverID snowflake.ID, from, to time.Time) ([]dailyrundomain.DailyRunRecord, error) {
	var records []dailyrundomain.DailyRunRecord
	err := db.WithContext(ctx).
		Where("driver_id = ? AND date >= ? AND date <= ?", driverID, from, to).
		Order("date ASC, id ASC").
		Find(&records).Error
	return records, err
}

func (r *repo) GroupTotals(ctx context.Context, db *gorm.DB, driverID snowflake.ID, client string, from, to time.Time) ([]dailyrundomain.GroupTotals, error) {
	var rows []struct {
		Client         string
		Area           string
		Delivered      int64
		Fuel           decimal.Decimal
		OtherDeduction decimal.Decimal
	}
	stmt := db.WithContext(ctx).Model(&dailyrundomain.DailyRunRecord{}).
		Select(`client, area,
			COALESCE(SUM(delivered_count), 0) AS delivered,
			COALESCE(SUM(fuel_deduction), 0) AS fuel,
			COALESCE(SUM(ticket_discount + ticket_reconciliation + other_deduction), 0) AS other_deduction`).
		Where("driver_id = ? AND date >= ? AND date <= ?", driverID, from, to).
		Group("client, area")
	if client != "" {
		stmt = stmt.Where("client = ?", client)
	}
	if err := stmt.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dailyrundomain.GroupTotals, 0, len(rows))
	for _, row := range rows {
		out = append(out, dailyrundomain.GroupTotals{
			DriverID:       driverID,
			Client:         row.Client,
			Area:           row.Area,
			Delivered:      row.Delivered,
			Fuel:           row.Fuel,
			OtherDeduction: row.OtherDeduction,
		})
	}
	return out, nil
}

func (r *repo) DriverTotals(ctx context.Context, db *gorm.DB, from, to time.Time, client, area string) ([]dailyrundomain.DriverTotals, error) {
	var rows []struct {
		DriverID             snowflake.ID
		Delivered            int64
		Fuel                 decimal.Decimal
		TicketDiscount       decimal.Decimal
		TicketReconciliation decimal.Decimal
		OtherDeduction       decimal.Decimal
	}
	stmt := db.WithContext(ctx).Model(&dailyrundomain.DailyRunRecord{}).
		Select(`driver_id,
			COALESCE(SUM(delivered_count), 0) AS delivered,
			COALESCE(SUM(fuel_deduction), 0) AS fuel,
			COALESCE(SUM(ticket_discount), 0) AS ticket_discount,
			COALESCE(SUM(ticket_reconciliation), 0) AS ticket_reconciliation,
			COALESCE(SUM(other_deduction), 0) AS other_deduction`).
		Where("date >= ? AND date <= ?", from, to).
		Group("driver_id")
	if client != "" {
		stmt = stmt.Where("client = ?", client)
	}
	if area != "" {
		stmt = stmt.Where("area = ?", area)
	}
	if err := stmt.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dailyrundomain.DriverTotals, 0, len(rows))
	for _, row := range rows {
		out = append(out, dailyrundomain.DriverTotals{
			DriverID:             row.DriverID,
			Delivered:            row.Delivered,
			Fuel:                 row.Fuel,
			TicketDiscount:       row.TicketDiscount,
			TicketReconciliation: row.TicketReconciliation,
			OtherDeduction:       row.OtherDeduction,
		})
	}
	return out, nil
}
