package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	claimdomain "github.com/haulaware/driverpay/internal/claim/domain"
	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
	"github.com/haulaware/driverpay/internal/metrics"
	orderdomain "github.com/haulaware/driverpay/internal/order/domain"
	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	"github.com/haulaware/driverpay/internal/pricing"
	settlementdomain "github.com/haulaware/driverpay/internal/settlement/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        settlementdomain.Repository
	DriverRepo  driverdomain.Repository
	OrderRepo   orderdomain.Repository
	RunRepo     dailyrundomain.Repository
	PlanService plandomain.Service
	ClaimSvc    claimdomain.Service
	Metrics     *metrics.Instruments
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       settlementdomain.Repository
	driverRepo driverdomain.Repository
	orderRepo  orderdomain.Repository
	runRepo    dailyrundomain.Repository
	planSvc    plandomain.Service
	claimSvc   claimdomain.Service
	metrics    *metrics.Instruments
}

func New(p Params) settlementdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("settlement.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		driverRepo: p.DriverRepo,
		orderRepo:  p.OrderRepo,
		runRepo:    p.RunRepo,
		planSvc:    p.PlanService,
		claimSvc:   p.ClaimSvc,
		metrics:    p.Metrics,
	}
}

func (s *Service) Calculate(ctx context.Context, req settlementdomain.CalculateRequest) (*settlementdomain.DriverSettlement, error) {
	settlement, _, err := s.calculate(ctx, req)
	return settlement, err
}

// calculate builds the settlement in memory. The second return reports
// whether the period had any activity at all (orders or daily records).
func (s *Service) calculate(ctx context.Context, req settlementdomain.CalculateRequest) (*settlementdomain.DriverSettlement, bool, error) {
	driverID, err := parseID(req.DriverID)
	if err != nil {
		return nil, false, settlementdomain.ErrInvalidDriver
	}
	driver, err := s.driverRepo.FindByID(ctx, s.db, driverID)
	if err != nil {
		return nil, false, err
	}
	if driver == nil {
		return nil, false, settlementdomain.ErrUnknownDriver
	}

	start, end, err := settlementdomain.PeriodBounds(req.PeriodType, req.Year, req.Index)
	if err != nil {
		return nil, false, err
	}

	counts, err := s.orderRepo.CountsForPeriod(ctx, s.db, driverID, req.Partner, start, end)
	if err != nil {
		return nil, false, err
	}
	groups, err := s.runRepo.GroupTotals(ctx, s.db, driverID, req.Partner, start, end)
	if err != nil {
		return nil, false, err
	}

	var (
		gross decimal.Decimal
		fuel  decimal.Decimal
		other decimal.Decimal
	)
	// Base fixed counts once per resolved plan even when the plan covers
	// several record groups.
	seenPlans := make(map[snowflake.ID]bool)
	for _, group := range groups {
		fuel = fuel.Add(group.Fuel)
		other = other.Add(group.OtherDeduction)

		plan, err := s.planSvc.Resolve(ctx, plandomain.ResolveRequest{
			DriverID: req.DriverID,
			Client:   group.Client,
			Area:     group.Area,
			OnDate:   end,
		})
		if err != nil {
			return nil, false, err
		}
		if plan == nil {
			continue
		}
		if !seenPlans[plan.ID] {
			seenPlans[plan.ID] = true
			gross = gross.Add(plan.BaseFixed)
		}
		gross = gross.Add(pricing.PackageRevenue(plan, group.Delivered))
	}

	// Without a single resolvable plan the period is priced per order at the
	// flat fallback rates.
	if len(seenPlans) == 0 {
		orders, err := s.orderRepo.ListForPeriod(ctx, s.db, driverID, req.Partner, start, end)
		if err != nil {
			return nil, false, err
		}
		for _, order := range orders {
			gross = gross.Add(pricing.FlatOrderFallback(order.Delivered()))
		}
	}

	successRate := counts.SuccessRate()
	bonus := pricing.SuccessRateBonus(gross, successRate)

	pending, err := s.claimSvc.PendingForSettlement(ctx, driverID, start, end)
	if err != nil {
		return nil, false, err
	}
	var claimsDeducted decimal.Decimal
	for _, claim := range pending {
		claimsDeducted = claimsDeducted.Add(claim.Amount)
	}

	now := time.Now().UTC()
	settlement := &settlementdomain.DriverSettlement{
		ID:              s.genID.Generate(),
		DriverID:        driverID,
		Partner:         strings.TrimSpace(req.Partner),
		PeriodType:      req.PeriodType,
		PeriodStart:     start,
		PeriodEnd:       end,
		TotalOrders:     counts.Total,
		DeliveredOrders: counts.Delivered,
		FailedOrders:    counts.Failed,
		SuccessRate:     successRate,
		GrossAmount:     gross,
		BonusAmount:     bonus,
		FuelDeduction:   fuel,
		ClaimsDeducted:  claimsDeducted,
		OtherDeductions: other,
		Status:          settlementdomain.StatusCalculated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	settlement.RecomputeNet()

	hasActivity := counts.Total > 0 || len(groups) > 0
	return settlement, hasActivity, nil
}

func (s *Service) CalculateAndStore(ctx context.Context, req settlementdomain.CalculateRequest) (*settlementdomain.DriverSettlement, error) {
	driverID, err := parseID(req.DriverID)
	if err != nil {
		return nil, settlementdomain.ErrInvalidDriver
	}
	start, _, err := settlementdomain.PeriodBounds(req.PeriodType, req.Year, req.Index)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByPeriod(ctx, s.db, driverID, req.PeriodType, start, strings.TrimSpace(req.Partner))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.metrics.IncSettlementCalculated("duplicate")
		return nil, settlementdomain.ErrDuplicateSettlement
	}

	settlement, hasActivity, err := s.calculate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !hasActivity {
		s.metrics.IncSettlementCalculated("empty")
		return nil, settlementdomain.ErrEmptyPeriod
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, settlement); err != nil {
			return err
		}
		linked, err := s.claimSvc.ApplyToSettlement(ctx, tx, settlement.ID, settlement.DriverID, settlement.PeriodStart, settlement.PeriodEnd)
		if err != nil {
			return err
		}
		settlement.ClaimsDeducted = sumClaims(linked)
		settlement.RecomputeNet()
		settlement.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, tx, settlement)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSettlementCalculated("stored")
	s.log.Info("settlement stored",
		zap.String("settlement_id", settlement.ID.String()),
		zap.String("driver_id", settlement.DriverID.String()),
		zap.String("period_type", string(settlement.PeriodType)),
		zap.Time("period_start", settlement.PeriodStart),
		zap.String("net", settlement.NetAmount.String()),
	)
	return settlement, nil
}

func (s *Service) ApplyClaims(ctx context.Context, settlementID string) (*settlementdomain.DriverSettlement, error) {
	id, err := parseID(settlementID)
	if err != nil {
		return nil, settlementdomain.ErrNotFound
	}
	settlement, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, settlementdomain.ErrNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		linked, err := s.claimSvc.ApplyToSettlement(ctx, tx, settlement.ID, settlement.DriverID, settlement.PeriodStart, settlement.PeriodEnd)
		if err != nil {
			return err
		}
		settlement.ClaimsDeducted = sumClaims(linked)
		settlement.RecomputeNet()
		settlement.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, tx, settlement)
	})
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

func (s *Service) CalculateAll(ctx context.Context, periodType settlementdomain.PeriodType, year, index int) (*settlementdomain.BatchResult, error) {
	if _, _, err := settlementdomain.PeriodBounds(periodType, year, index); err != nil {
		return nil, err
	}
	drivers, err := s.driverRepo.ListActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	result := &settlementdomain.BatchResult{
		PeriodType: periodType,
		Year:       year,
		Index:      index,
	}
	for _, driver := range drivers {
		_, err := s.CalculateAndStore(ctx, settlementdomain.CalculateRequest{
			DriverID:   driver.ID.String(),
			PeriodType: periodType,
			Year:       year,
			Index:      index,
		})
		switch {
		case err == nil:
			result.Calculated++
		case errors.Is(err, settlementdomain.ErrDuplicateSettlement),
			errors.Is(err, settlementdomain.ErrEmptyPeriod):
			result.Skipped++
		default:
			s.metrics.IncSettlementCalculated("error")
			s.log.Warn("settlement batch item failed",
				zap.String("driver_id", driver.ID.String()),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, settlementdomain.BatchFailure{
				DriverID: driver.ID,
				Reason:   err.Error(),
			})
		}
	}
	s.log.Info("settlement batch finished",
		zap.String("period_type", string(periodType)),
		zap.Int("year", year),
		zap.Int("index", index),
		zap.Int("calculated", result.Calculated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*settlementdomain.DriverSettlement, error) {
	settlementID, err := parseID(id)
	if err != nil {
		return nil, settlementdomain.ErrNotFound
	}
	settlement, err := s.repo.FindByID(ctx, s.db, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, settlementdomain.ErrNotFound
	}
	return settlement, nil
}

func (s *Service) List(ctx context.Context, req settlementdomain.ListRequest) ([]settlementdomain.DriverSettlement, error) {
	var driverID snowflake.ID
	if strings.TrimSpace(req.DriverID) != "" {
		parsed, err := parseID(req.DriverID)
		if err != nil {
			return nil, settlementdomain.ErrInvalidDriver
		}
		driverID = parsed
	}

	var from, to time.Time
	if req.Year != 0 && req.Index != 0 {
		start, end, err := settlementdomain.PeriodBounds(req.PeriodType, req.Year, req.Index)
		if err != nil {
			return nil, err
		}
		from, to = start, end
	}
	return s.repo.List(ctx, s.db, driverID, req.PeriodType, from, to)
}

var exportHeader = []string{
	"driver_id", "partner", "period_type", "period_from", "period_to",
	"total_orders", "delivered_orders", "failed_orders", "success_rate",
	"gross", "bonus", "fuel_deduction", "claims_deducted", "other_deductions",
	"net", "status",
}

func (s *Service) ExportCSV(w io.Writer, settlements []settlementdomain.DriverSettlement) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i := range settlements {
		st := &settlements[i]
		row := []string{
			st.DriverID.String(),
			st.Partner,
			string(st.PeriodType),
			st.PeriodStart.Format("2006-01-02"),
			st.PeriodEnd.Format("2006-01-02"),
			strconv.FormatInt(st.TotalOrders, 10),
			strconv.FormatInt(st.DeliveredOrders, 10),
			strconv.FormatInt(st.FailedOrders, 10),
			strconv.FormatFloat(st.SuccessRate, 'f', 2, 64),
			st.GrossAmount.String(),
			st.BonusAmount.String(),
			st.FuelDeduction.String(),
			st.ClaimsDeducted.String(),
			st.OtherDeductions.String(),
			st.NetAmount.String(),
			string(st.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func sumClaims(claims []claimdomain.DriverClaim) decimal.Decimal {
	var total decimal.Decimal
	for _, claim := range claims {
		total = total.Add(claim.Amount)
	}
	return total
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
