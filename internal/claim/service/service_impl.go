package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	claimdomain "github.com/haulaware/driverpay/internal/claim/domain"
	"github.com/haulaware/driverpay/internal/metrics"
	orderdomain "github.com/haulaware/driverpay/internal/order/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      claimdomain.Repository
	OrderRepo orderdomain.Repository
	Metrics   *metrics.Instruments
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      claimdomain.Repository
	orderRepo orderdomain.Repository
	metrics   *metrics.Instruments
}

func New(p Params) claimdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("claim.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		orderRepo: p.OrderRepo,
		metrics:   p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req claimdomain.CreateRequest) (*claimdomain.DriverClaim, error) {
	driverID, err := parseID(req.DriverID)
	if err != nil {
		return nil, claimdomain.ErrInvalidDriver
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || amount.IsNegative() {
		return nil, claimdomain.ErrInvalidAmount
	}

	var orderID *snowflake.ID
	if req.OrderID != nil {
		id, err := parseID(*req.OrderID)
		if err != nil {
			return nil, orderdomain.ErrNotFound
		}
		order, err := s.orderRepo.FindByID(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, orderdomain.ErrNotFound
		}
		orderID = &id
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	now := time.Now().UTC()
	claim := &claimdomain.DriverClaim{
		ID:          s.genID.Generate(),
		DriverID:    driverID,
		OrderID:     orderID,
		ClaimType:   normalizeClaimType(req.ClaimType),
		Amount:      amount,
		Description: strings.TrimSpace(req.Description),
		OccurredAt:  occurredAt,
		Status:      claimdomain.ClaimStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *Service) CreateFromOrder(ctx context.Context, orderID, claimType, amount, description string) (*claimdomain.DriverClaim, error) {
	id, err := parseID(orderID)
	if err != nil {
		return nil, orderdomain.ErrNotFound
	}
	order, err := s.orderRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, orderdomain.ErrNotFound
	}
	if order.DriverID == nil {
		return nil, claimdomain.ErrOrderUnassigned
	}

	orderRef := order.ID.String()
	return s.Create(ctx, claimdomain.CreateRequest{
		DriverID:    order.DriverID.String(),
		OrderID:     &orderRef,
		ClaimType:   claimType,
		Amount:      amount,
		Description: description,
		OccurredAt:  order.OccurredAt,
	})
}

func (s *Service) Approve(ctx context.Context, id, reviewer, notes string) (*claimdomain.DriverClaim, error) {
	return s.review(ctx, id, reviewer, notes, claimdomain.ClaimStatusApproved)
}

func (s *Service) Reject(ctx context.Context, id, reviewer, notes string) (*claimdomain.DriverClaim, error) {
	return s.review(ctx, id, reviewer, notes, claimdomain.ClaimStatusRejected)
}

// review moves a pending claim to its terminal reviewer decision. Any other
// starting state is a validation failure.
func (s *Service) review(ctx context.Context, id, reviewer, notes string, status claimdomain.ClaimStatus) (*claimdomain.DriverClaim, error) {
	claimID, err := parseID(id)
	if err != nil {
		return nil, claimdomain.ErrNotFound
	}
	claim, err := s.repo.FindByID(ctx, s.db, claimID)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, claimdomain.ErrNotFound
	}
	if claim.Status != claimdomain.ClaimStatusPending {
		return nil, claimdomain.ErrNotPending
	}

	now := time.Now().UTC()
	claim.Status = status
	claim.ReviewedBy = strings.TrimSpace(reviewer)
	claim.ReviewNotes = strings.TrimSpace(notes)
	claim.ReviewedAt = &now
	claim.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, claim); err != nil {
		return nil, err
	}
	s.log.Info("claim reviewed",
		zap.String("claim_id", claim.ID.String()),
		zap.String("status", string(status)),
	)
	return claim, nil
}

func (s *Service) List(ctx context.Context, driverID string, status claimdomain.ClaimStatus) ([]claimdomain.DriverClaim, error) {
	var id snowflake.ID
	if strings.TrimSpace(driverID) != "" {
		parsed, err := parseID(driverID)
		if err != nil {
			return nil, claimdomain.ErrInvalidDriver
		}
		id = parsed
	}
	return s.repo.List(ctx, s.db, id, status)
}

func (s *Service) PendingForSettlement(ctx context.Context, driverID snowflake.ID, start, end time.Time) ([]claimdomain.DriverClaim, error) {
	return s.repo.PendingForSettlement(ctx, s.db, driverID, start, end)
}

func (s *Service) ApplyToSettlement(ctx context.Context, tx *gorm.DB, settlementID, driverID snowflake.ID, start, end time.Time) ([]claimdomain.DriverClaim, error) {
	linked, err := s.repo.LinkPending(ctx, tx, settlementID, driverID, start, end)
	if err != nil {
		return nil, err
	}
	if linked > 0 {
		s.metrics.AddClaimsLinked(int(linked))
	}
	return s.repo.ListBySettlement(ctx, tx, settlementID)
}

func (s *Service) CreateFromFailedOrders(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	orders, err := s.orderRepo.ListFailedWithoutClaim(ctx, s.db, limit)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, order := range orders {
		if order.DriverID == nil {
			continue
		}
		now := time.Now().UTC()
		orderID := order.ID
		claim := &claimdomain.DriverClaim{
			ID:          s.genID.Generate(),
			DriverID:    *order.DriverID,
			OrderID:     &orderID,
			ClaimType:   claimdomain.ClaimTypeFailedDelivery,
			Amount:      order.Value,
			Description: fmt.Sprintf("failed delivery for order %s", order.ID),
			OccurredAt:  order.OccurredAt,
			Status:      claimdomain.ClaimStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.Insert(ctx, s.db, claim); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		s.log.Info("claims auto-created from failed orders", zap.Int("count", created))
	}
	return created, nil
}

func normalizeClaimType(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return claimdomain.ClaimTypeOther
	}
	return trimmed
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
