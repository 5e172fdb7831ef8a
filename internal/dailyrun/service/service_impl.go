package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
	"github.com/haulaware/driverpay/internal/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Import column layout of the daily operations export. Semicolon-delimited;
// the client scope is carried per import batch, not per row, so records land
// under the default (empty) client.
const importColumns = 12

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       dailyrundomain.Repository
	DriverRepo driverdomain.Repository
	Metrics    *metrics.Instruments
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       dailyrundomain.Repository
	driverRepo driverdomain.Repository
	metrics    *metrics.Instruments
}

func New(p Params) dailyrundomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("dailyrun.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		driverRepo: p.DriverRepo,
		metrics:    p.Metrics,
	}
}

func (s *Service) Upsert(ctx context.Context, req dailyrundomain.UpsertRequest) (*dailyrundomain.DailyRunRecord, error) {
	driverID, err := snowflake.ParseString(strings.TrimSpace(req.DriverID))
	if err != nil {
		return nil, dailyrundomain.ErrUnknownDriver
	}
	driver, err := s.driverRepo.FindByID(ctx, s.db, driverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, dailyrundomain.ErrUnknownDriver
	}

	record, err := s.buildRecord(driverID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, s.db, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*dailyrundomain.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	summary := &dailyrundomain.ImportSummary{BatchID: uuid.NewString()}
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "driver") {
			continue // header
		}

		if err := s.importRow(ctx, row); err != nil {
			summary.Failed = append(summary.Failed, dailyrundomain.RowError{
				Line:   line,
				Reason: err.Error(),
			})
			continue
		}
		summary.Imported++
	}

	s.metrics.AddImportRows("imported", summary.Imported)
	s.metrics.AddImportRows("failed", len(summary.Failed))
	s.log.Info("daily run import finished",
		zap.String("batch_id", summary.BatchID),
		zap.Int("imported", summary.Imported),
		zap.Int("failed", len(summary.Failed)),
	)
	return summary, nil
}

func (s *Service) importRow(ctx context.Context, row []string) error {
	if len(row) < importColumns-1 {
		return dailyrundomain.ErrMalformedRow
	}

	name := strings.TrimSpace(row[0])
	driver, err := s.driverRepo.FindByName(ctx, s.db, name)
	if err != nil {
		return err
	}
	if driver == nil {
		return fmt.Errorf("%w: %s", dailyrundomain.ErrUnknownDriver, name)
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(row[2]))
	if err != nil {
		return dailyrundomain.ErrMalformedRow
	}

	counts := make([]int64, 3)
	for i, field := range row[3:6] {
		counts[i], err = strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			return dailyrundomain.ErrMalformedRow
		}
	}

	notes := ""
	if len(row) >= importColumns {
		notes = strings.TrimSpace(row[11])
	}

	req := dailyrundomain.UpsertRequest{
		Date:                 date,
		Area:                 strings.TrimSpace(row[1]),
		SentCount:            counts[0],
		PlannedCount:         counts[1],
		DeliveredCount:       counts[2],
		UnitPrice:            row[6],
		FuelDeduction:        row[7],
		TicketDiscount:       row[8],
		TicketReconciliation: row[9],
		OtherDeduction:       row[10],
		Notes:                notes,
	}
	record, err := s.buildRecord(driver.ID, req)
	if err != nil {
		return err
	}
	return s.repo.Upsert(ctx, s.db, record)
}

func (s *Service) buildRecord(driverID snowflake.ID, req dailyrundomain.UpsertRequest) (*dailyrundomain.DailyRunRecord, error) {
	now := time.Now().UTC()
	record := &dailyrundomain.DailyRunRecord{
		ID:             s.genID.Generate(),
		DriverID:       driverID,
		Date:           truncateToDay(req.Date),
		Client:         strings.TrimSpace(req.Client),
		Area:           strings.TrimSpace(req.Area),
		SentCount:      req.SentCount,
		PlannedCount:   req.PlannedCount,
		DeliveredCount: req.DeliveredCount,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	fields := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{req.UnitPrice, &record.UnitPrice},
		{req.FuelDeduction, &record.FuelDeduction},
		{req.TicketDiscount, &record.TicketDiscount},
		{req.TicketReconciliation, &record.TicketReconciliation},
		{req.OtherDeduction, &record.OtherDeduction},
	}
	for _, field := range fields {
		raw := strings.TrimSpace(field.raw)
		if raw == "" {
			*field.dst = decimal.Zero
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			return nil, dailyrundomain.ErrMalformedRow
		}
		*field.dst = value
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}
	record.ComputeTotals()
	return record, nil
}

func (s *Service) ListRange(ctx context.Context, driverID string, from, to time.Time) ([]dailyrundomain.DailyRunRecord, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(driverID))
	if err != nil {
		return nil, dailyrundomain.ErrUnknownDriver
	}
	return s.repo.ListRange(ctx, s.db, id, from, to)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
