package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
	reportdomain "github.com/haulaware/driverpay/internal/payoutreport/domain"
	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	"github.com/haulaware/driverpay/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var csvHeader = []string{
	"driver", "period_from", "period_to", "delivered",
	"package_gross", "bonus", "fixed_base", "total_gross",
	"deductions", "net", "average_net_per_package",
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	DriverRepo  driverdomain.Repository
	RunRepo     dailyrundomain.Repository
	PlanService plandomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	driverRepo driverdomain.Repository
	runRepo    dailyrundomain.Repository
	planSvc    plandomain.Service
}

func New(p Params) reportdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payoutreport.service"),
		driverRepo: p.DriverRepo,
		runRepo:    p.RunRepo,
		planSvc:    p.PlanService,
	}
}

func (s *Service) Compute(ctx context.Context, req reportdomain.Request) ([]reportdomain.Row, error) {
	if req.From.IsZero() || req.To.IsZero() || req.To.Before(req.From) {
		return nil, reportdomain.ErrInvalidRange
	}

	totals, err := s.runRepo.DriverTotals(ctx, s.db, req.From, req.To, req.Client, req.Area)
	if err != nil {
		return nil, err
	}

	rows := make([]reportdomain.Row, 0, len(totals))
	for _, total := range totals {
		driver, err := s.driverRepo.FindByID(ctx, s.db, total.DriverID)
		if err != nil {
			return nil, err
		}
		name := total.DriverID.String()
		if driver != nil {
			name = driver.Name
		}

		plan, err := s.planSvc.Resolve(ctx, plandomain.ResolveRequest{
			DriverID: total.DriverID.String(),
			Client:   req.Client,
			Area:     req.Area,
			OnDate:   req.To,
		})
		if err != nil {
			return nil, err
		}

		gross := pricing.PackageRevenue(plan, total.Delivered)
		bonus := pricing.VolumeBonus(plan, total.Delivered)
		var fixed decimal.Decimal
		if plan != nil {
			fixed = plan.BaseFixed
		}
		deductions := total.Fuel.
			Add(total.TicketDiscount).
			Add(total.TicketReconciliation).
			Add(total.OtherDeduction)

		totalGross := gross.Add(bonus).Add(fixed)
		net := totalGross.Sub(deductions)

		var avg decimal.Decimal
		if total.Delivered > 0 {
			avg = net.Div(decimal.NewFromInt(total.Delivered)).Round(2)
		}

		rows = append(rows, reportdomain.Row{
			DriverID:         total.DriverID,
			DriverName:       name,
			PeriodFrom:       req.From,
			PeriodTo:         req.To,
			Delivered:        total.Delivered,
			PackageGross:     gross,
			Bonus:            bonus,
			FixedBase:        fixed,
			TotalGross:       totalGross,
			Deductions:       deductions,
			Net:              net,
			AvgNetPerPackage: avg,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if cmp := rows[i].Net.Cmp(rows[j].Net); cmp != 0 {
			return cmp > 0
		}
		return rows[i].DriverName < rows[j].DriverName
	})
	return rows, nil
}

func (s *Service) WriteCSV(w io.Writer, rows []reportdomain.Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.DriverName,
			row.PeriodFrom.Format(dateLayout),
			row.PeriodTo.Format(dateLayout),
			strconv.FormatInt(row.Delivered, 10),
			row.PackageGross.String(),
			row.Bonus.String(),
			row.FixedBase.String(),
			row.TotalGross.String(),
			row.Deductions.String(),
			row.Net.String(),
			row.AvgNetPerPackage.String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) WriteXLSX(w io.Writer, rows []reportdomain.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Payout Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	for col, header := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	for i, row := range rows {
		values := []any{
			row.DriverName,
			row.PeriodFrom.Format(dateLayout),
			row.PeriodTo.Format(dateLayout),
			row.Delivered,
			row.PackageGross.InexactFloat64(),
			row.Bonus.InexactFloat64(),
			row.FixedBase.InexactFloat64(),
			row.TotalGross.InexactFloat64(),
			row.Deductions.InexactFloat64(),
			row.Net.InexactFloat64(),
			row.AvgNetPerPackage.InexactFloat64(),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
