package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	claimdomain "github.com/haulaware/driverpay/internal/claim/domain"
	claimrepository "github.com/haulaware/driverpay/internal/claim/repository"
	claimservice "github.com/haulaware/driverpay/internal/claim/service"
	"github.com/haulaware/driverpay/internal/clock"
	"github.com/haulaware/driverpay/internal/config"
	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
	dailyrunrepository "github.com/haulaware/driverpay/internal/dailyrun/repository"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
	driverrepository "github.com/haulaware/driverpay/internal/driver/repository"
	"github.com/haulaware/driverpay/internal/metrics"
	orderdomain "github.com/haulaware/driverpay/internal/order/domain"
	orderrepository "github.com/haulaware/driverpay/internal/order/repository"
	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	planrepository "github.com/haulaware/driverpay/internal/plan/repository"
	planservice "github.com/haulaware/driverpay/internal/plan/service"
	settlementdomain "github.com/haulaware/driverpay/internal/settlement/domain"
	settlementrepository "github.com/haulaware/driverpay/internal/settlement/repository"
	settlementservice "github.com/haulaware/driverpay/internal/settlement/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestRunOnce_SettlesPreviousPeriods(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:scheduler_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&driverdomain.Driver{},
		&orderdomain.Order{},
		&plandomain.CompensationPlan{},
		&plandomain.PackageRate{},
		&plandomain.VolumeBonus{},
		&dailyrundomain.DailyRunRecord{},
		&claimdomain.DriverClaim{},
		&settlementdomain.DriverSettlement{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	inst := metrics.New(prometheus.NewRegistry())
	ctx := context.Background()

	driverRepo := driverrepository.Provide()
	orderRepo := orderrepository.Provide()
	runRepo := dailyrunrepository.Provide()
	planSvc := planservice.New(planservice.Params{
		DB: db, Log: log, GenID: node, Repo: planrepository.Provide(),
	})
	claimSvc := claimservice.New(claimservice.Params{
		DB: db, Log: log, GenID: node, Repo: claimrepository.Provide(),
		OrderRepo: orderRepo, Metrics: inst,
	})
	settlementSvc := settlementservice.New(settlementservice.Params{
		DB: db, Log: log, GenID: node, Repo: settlementrepository.Provide(),
		DriverRepo: driverRepo, OrderRepo: orderRepo, RunRepo: runRepo,
		PlanService: planSvc, ClaimSvc: claimSvc, Metrics: inst,
	})

	// Wednesday of ISO week 12, 2026; the weekly job targets week 11.
	fake := clock.NewFakeClock(time.Date(2026, 3, 18, 3, 0, 0, 0, time.UTC))

	sched := New(Params{
		Log:   log,
		Clock: fake,
		Config: config.Config{Scheduler: config.SchedulerConfig{
			Enabled:    true,
			Interval:   time.Hour,
			JobTimeout: time.Minute,
		}},
		SettlementSvc: settlementSvc,
		ClaimSvc:      claimSvc,
		Metrics:       inst,
	})

	now := time.Now().UTC()
	driver := &driverdomain.Driver{
		ID: node.Generate(), Name: "Scheduled Driver", Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, driverRepo.Insert(ctx, db, driver))

	_, err = planSvc.Create(ctx, plandomain.CreateRequest{
		DriverID: driver.ID.String(),
		StartsOn: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Rates:    []plandomain.RateRequest{{MinDelivered: 0, Rate: "0.50"}},
	})
	require.NoError(t, err)

	week11 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, runRepo.Upsert(ctx, db, &dailyrundomain.DailyRunRecord{
		ID:             node.Generate(),
		DriverID:       driver.ID,
		Date:           week11,
		SentCount:      40,
		PlannedCount:   40,
		DeliveredCount: 40,
		UnitPrice:      decimal.Zero,
	}))

	failed := &orderdomain.Order{
		ID:         node.Generate(),
		DriverID:   &driver.ID,
		Status:     orderdomain.OrderStatusFailed,
		Value:      decimal.RequireFromString("12"),
		OccurredAt: week11,
	}
	require.NoError(t, orderRepo.Insert(ctx, db, failed))

	require.NoError(t, sched.RunOnce(ctx))

	settlements, err := settlementSvc.List(ctx, settlementdomain.ListRequest{
		DriverID:   driver.ID.String(),
		PeriodType: settlementdomain.PeriodWeekly,
		Year:       2026,
		Index:      11,
	})
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.Equal(t, "20", settlements[0].GrossAmount.String()) // 40×0.50

	claims, err := claimSvc.List(ctx, driver.ID.String(), claimdomain.ClaimStatusPending)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, claimdomain.ClaimTypeFailedDelivery, claims[0].ClaimType)

	// A second tick finds everything already settled and claimed.
	require.NoError(t, sched.RunOnce(ctx))

	settlements, err = settlementSvc.List(ctx, settlementdomain.ListRequest{
		DriverID:   driver.ID.String(),
		PeriodType: settlementdomain.PeriodWeekly,
		Year:       2026,
		Index:      11,
	})
	require.NoError(t, err)
	assert.Len(t, settlements, 1)

	claims, err = claimSvc.List(ctx, driver.ID.String(), claimdomain.ClaimStatusPending)
	require.NoError(t, err)
	assert.Len(t, claims, 1)
}

func TestRunOnce_DisabledJobsAreSkipped(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 18, 3, 0, 0, 0, time.UTC))
	sched := New(Params{
		Log:   zap.NewNop(),
		Clock: fake,
		Config: config.Config{Scheduler: config.SchedulerConfig{
			Enabled:      true,
			Interval:     time.Hour,
			JobTimeout:   time.Minute,
			DisabledJobs: []string{"weekly_settlements", "monthly_settlements", "claim_autocreate"},
		}},
		Metrics: metrics.New(prometheus.NewRegistry()),
	})

	// With every job disabled nothing runs, so nil services are never touched.
	require.NoError(t, sched.RunOnce(context.Background()))
}
