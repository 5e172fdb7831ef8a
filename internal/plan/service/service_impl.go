package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  plandomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  plandomain.Repository
}

func New(p Params) plandomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("plan.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Resolve walks the specificity waterfall over the driver's active plans
// covering the date: client+area, then client-only, then area-only, then the
// driver-level default. Candidates inside one level are ordered most recent
// starts_on first, then lowest id, so resolution never depends on storage
// iteration order.
func (s *Service) Resolve(ctx context.Context, req plandomain.ResolveRequest) (*plandomain.CompensationPlan, error) {
	driverID, err := parseID(req.DriverID)
	if err != nil {
		return nil, plandomain.ErrInvalidDriver
	}

	plans, err := s.repo.ListActiveCovering(ctx, s.db, driverID, req.OnDate)
	if err != nil {
		return nil, err
	}

	client := strings.TrimSpace(req.Client)
	area := strings.TrimSpace(req.Area)

	levels := []func(p *plandomain.CompensationPlan) bool{
		func(p *plandomain.CompensationPlan) bool {
			return client != "" && area != "" && matches(p.Client, client) && matches(p.Area, area)
		},
		func(p *plandomain.CompensationPlan) bool {
			return client != "" && matches(p.Client, client) && p.Area == nil
		},
		func(p *plandomain.CompensationPlan) bool {
			return area != "" && matches(p.Area, area) && p.Client == nil
		},
		func(p *plandomain.CompensationPlan) bool {
			return p.Client == nil && p.Area == nil
		},
	}

	for _, level := range levels {
		for i := range plans {
			if level(&plans[i]) {
				return &plans[i], nil
			}
		}
	}
	return nil, nil
}

func (s *Service) Create(ctx context.Context, req plandomain.CreateRequest) (*plandomain.CompensationPlan, error) {
	driverID, err := parseID(req.DriverID)
	if err != nil {
		return nil, plandomain.ErrInvalidDriver
	}

	if req.StartsOn.IsZero() {
		return nil, plandomain.ErrInvalidWindow
	}
	if req.EndsOn != nil && req.EndsOn.Before(req.StartsOn) {
		return nil, plandomain.ErrInvalidWindow
	}

	baseFixed := decimal.Zero
	if strings.TrimSpace(req.BaseFixed) != "" {
		baseFixed, err = decimal.NewFromString(req.BaseFixed)
		if err != nil || baseFixed.IsNegative() {
			return nil, plandomain.ErrInvalidAmount
		}
	}

	now := time.Now().UTC()
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	plan := &plandomain.CompensationPlan{
		ID:        s.genID.Generate(),
		DriverID:  driverID,
		Client:    normalizeScope(req.Client),
		Area:      normalizeScope(req.Area),
		StartsOn:  req.StartsOn,
		EndsOn:    req.EndsOn,
		BaseFixed: baseFixed,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Metadata != nil {
		plan.Metadata = datatypes.JSONMap(req.Metadata)
	}

	unbounded := 0
	for _, rate := range req.Rates {
		if rate.MinDelivered < 0 {
			return nil, plandomain.ErrInvalidRateBand
		}
		if rate.MaxDelivered != nil && *rate.MaxDelivered < rate.MinDelivered {
			return nil, plandomain.ErrInvalidRateBand
		}
		if rate.MaxDelivered == nil {
			unbounded++
		}
		amount, err := decimal.NewFromString(rate.Rate)
		if err != nil || amount.IsNegative() {
			return nil, plandomain.ErrInvalidAmount
		}
		plan.Rates = append(plan.Rates, plandomain.PackageRate{
			ID:           s.genID.Generate(),
			PlanID:       plan.ID,
			MinDelivered: rate.MinDelivered,
			MaxDelivered: rate.MaxDelivered,
			Rate:         amount,
			Priority:     rate.Priority,
			Progressive:  rate.Progressive,
			CreatedAt:    now,
		})
	}
	if unbounded > 1 {
		return nil, plandomain.ErrMultipleUnbounded
	}

	for _, bonus := range req.Bonuses {
		if bonus.Kind != plandomain.BonusKindOnce && bonus.Kind != plandomain.BonusKindEachStep {
			return nil, plandomain.ErrInvalidBonusKind
		}
		amount, err := decimal.NewFromString(bonus.Amount)
		if err != nil || amount.IsNegative() {
			return nil, plandomain.ErrInvalidAmount
		}
		plan.Bonuses = append(plan.Bonuses, plandomain.VolumeBonus{
			ID:        s.genID.Generate(),
			PlanID:    plan.ID,
			Kind:      bonus.Kind,
			StartAt:   bonus.StartAt,
			Step:      bonus.Step,
			Amount:    amount,
			CreatedAt: now,
		})
	}

	if err := s.repo.Insert(ctx, s.db, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *Service) List(ctx context.Context, driverID string) ([]plandomain.CompensationPlan, error) {
	id, err := parseID(driverID)
	if err != nil {
		return nil, plandomain.ErrInvalidDriver
	}
	return s.repo.ListByDriver(ctx, s.db, id)
}

func matches(scope *string, value string) bool {
	return scope != nil && *scope == value
}

func normalizeScope(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
