package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	claimdomain "github.com/haulaware/driverpay/internal/claim/domain"
	"github.com/haulaware/driverpay/internal/claim/repository"
	"github.com/haulaware/driverpay/internal/metrics"
	orderdomain "github.com/haulaware/driverpay/internal/order/domain"
	orderrepository "github.com/haulaware/driverpay/internal/order/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	svc       claimdomain.Service
	orderRepo orderdomain.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&orderdomain.Order{}, &claimdomain.DriverClaim{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	orderRepo := orderrepository.Provide()
	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.Provide(),
		OrderRepo: orderRepo,
		Metrics:   metrics.New(prometheus.NewRegistry()),
	})
	return &fixture{db: db, node: node, svc: svc, orderRepo: orderRepo}
}

func TestReviewTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	driverID := f.node.Generate()

	claim, err := f.svc.Create(ctx, claimdomain.CreateRequest{
		DriverID:  driverID.String(),
		ClaimType: "damage",
		Amount:    "25.00",
	})
	require.NoError(t, err)
	assert.Equal(t, claimdomain.ClaimStatusPending, claim.Status)

	approved, err := f.svc.Approve(ctx, claim.ID.String(), "ops", "checked")
	require.NoError(t, err)
	assert.Equal(t, claimdomain.ClaimStatusApproved, approved.Status)
	assert.Equal(t, "ops", approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)

	// Terminal states cannot be reviewed again.
	_, err = f.svc.Reject(ctx, claim.ID.String(), "ops", "")
	assert.ErrorIs(t, err, claimdomain.ErrNotPending)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, claimdomain.CreateRequest{DriverID: "nope", Amount: "10"})
	assert.ErrorIs(t, err, claimdomain.ErrInvalidDriver)

	_, err = f.svc.Create(ctx, claimdomain.CreateRequest{DriverID: f.node.Generate().String(), Amount: "-10"})
	assert.ErrorIs(t, err, claimdomain.ErrInvalidAmount)
}

func TestCreateFromOrder_RequiresDriver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	unassigned := &orderdomain.Order{
		ID:         f.node.Generate(),
		Status:     orderdomain.OrderStatusFailed,
		Value:      decimal.RequireFromString("40"),
		OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, f.orderRepo.Insert(ctx, f.db, unassigned))

	_, err := f.svc.CreateFromOrder(ctx, unassigned.ID.String(), "loss", "40", "")
	assert.ErrorIs(t, err, claimdomain.ErrOrderUnassigned)
}

func TestApplyToSettlement_AtMostOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	driverID := f.node.Generate()
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)

	claim, err := f.svc.Create(ctx, claimdomain.CreateRequest{
		DriverID:   driverID.String(),
		ClaimType:  "damage",
		Amount:     "30.00",
		OccurredAt: start.AddDate(0, 0, 3),
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, claim.ID.String(), "ops", "")
	require.NoError(t, err)

	// Pending outside the window stays untouched.
	outside, err := f.svc.Create(ctx, claimdomain.CreateRequest{
		DriverID:   driverID.String(),
		ClaimType:  "damage",
		Amount:     "99.00",
		OccurredAt: start.AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, outside.ID.String(), "ops", "")
	require.NoError(t, err)

	first := f.node.Generate()
	linked, err := f.svc.ApplyToSettlement(ctx, f.db, first, driverID, start, end)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, claim.ID, linked[0].ID)

	// A second settlement over the same window finds nothing left to consume.
	second := f.node.Generate()
	linked, err = f.svc.ApplyToSettlement(ctx, f.db, second, driverID, start, end)
	require.NoError(t, err)
	assert.Empty(t, linked)

	// Re-applying the owning settlement is a no-op that still reports its claims.
	linked, err = f.svc.ApplyToSettlement(ctx, f.db, first, driverID, start, end)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, claim.ID, linked[0].ID)
}

func TestCreateFromFailedOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	driverID := f.node.Generate()

	failed := &orderdomain.Order{
		ID:         f.node.Generate(),
		DriverID:   &driverID,
		Status:     orderdomain.OrderStatusFailed,
		Value:      decimal.RequireFromString("55.50"),
		OccurredAt: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, f.orderRepo.Insert(ctx, f.db, failed))

	created, err := f.svc.CreateFromFailedOrders(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	claims, err := f.svc.List(ctx, driverID.String(), claimdomain.ClaimStatusPending)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, claimdomain.ClaimTypeFailedDelivery, claims[0].ClaimType)
	assert.Equal(t, "55.5", claims[0].Amount.String())

	// Already claimed orders are not claimed twice.
	created, err = f.svc.CreateFromFailedOrders(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}
