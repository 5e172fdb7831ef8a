package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
	dailyrunrepository "github.com/haulaware/driverpay/internal/dailyrun/repository"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
	driverrepository "github.com/haulaware/driverpay/internal/driver/repository"
	reportdomain "github.com/haulaware/driverpay/internal/payoutreport/domain"
	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	planrepository "github.com/haulaware/driverpay/internal/plan/repository"
	planservice "github.com/haulaware/driverpay/internal/plan/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	node       *snowflake.Node
	svc        reportdomain.Service
	planSvc    plandomain.Service
	driverRepo driverdomain.Repository
	runRepo    dailyrundomain.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	// One named memory database per test keeps report aggregates isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&driverdomain.Driver{},
		&plandomain.CompensationPlan{},
		&plandomain.PackageRate{},
		&plandomain.VolumeBonus{},
		&dailyrundomain.DailyRunRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	driverRepo := driverrepository.Provide()
	runRepo := dailyrunrepository.Provide()
	planSvc := planservice.New(planservice.Params{
		DB: db, Log: log, GenID: node, Repo: planrepository.Provide(),
	})
	svc := New(Params{
		DB:          db,
		Log:         log,
		DriverRepo:  driverRepo,
		RunRepo:     runRepo,
		PlanService: planSvc,
	})
	return &fixture{db: db, node: node, svc: svc, planSvc: planSvc, driverRepo: driverRepo, runRepo: runRepo}
}

func (f *fixture) seedDriver(t *testing.T, name string) *driverdomain.Driver {
	t.Helper()
	now := time.Now().UTC()
	driver := &driverdomain.Driver{
		ID: f.node.Generate(), Name: name, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.driverRepo.Insert(context.Background(), f.db, driver))
	return driver
}

func (f *fixture) seedRun(t *testing.T, driverID snowflake.ID, date time.Time, delivered int64, fuel string) {
	t.Helper()
	record := &dailyrundomain.DailyRunRecord{
		ID:             f.node.Generate(),
		DriverID:       driverID,
		Date:           date,
		SentCount:      delivered,
		PlannedCount:   delivered,
		DeliveredCount: delivered,
		UnitPrice:      decimal.Zero,
		FuelDeduction:  decimal.RequireFromString(fuel),
	}
	require.NoError(t, f.runRepo.Upsert(context.Background(), f.db, record))
}

func seedReportData(t *testing.T, f *fixture) (from, to time.Time, planned, planless *driverdomain.Driver) {
	ctx := context.Background()
	from = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to = time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	planned = f.seedDriver(t, "Planned Driver")
	max50 := int64(50)
	max100 := int64(100)
	_, err := f.planSvc.Create(ctx, plandomain.CreateRequest{
		DriverID:  planned.ID.String(),
		StartsOn:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseFixed: "100",
		Rates: []plandomain.RateRequest{
			{MinDelivered: 0, MaxDelivered: &max50, Rate: "0.30", Priority: 0},
			{MinDelivered: 51, MaxDelivered: &max100, Rate: "0.40", Priority: 1},
			{MinDelivered: 101, Rate: "0.50", Priority: 2},
		},
		Bonuses: []plandomain.BonusRequest{
			{Kind: plandomain.BonusKindOnce, StartAt: 80, Amount: "25"},
		},
	})
	require.NoError(t, err)
	f.seedRun(t, planned.ID, from.AddDate(0, 0, 3), 120, "10")

	planless = f.seedDriver(t, "Planless Driver")
	f.seedRun(t, planless.ID, from.AddDate(0, 0, 4), 50, "0")
	return from, to, planned, planless
}

func TestCompute(t *testing.T) {
	f := newFixture(t)
	from, to, planned, planless := seedReportData(t, f)

	rows, err := f.svc.Compute(context.Background(), reportdomain.Request{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted by net descending.
	first := rows[0]
	assert.Equal(t, planned.ID, first.DriverID)
	assert.Equal(t, int64(120), first.Delivered)
	assert.Equal(t, "60", first.PackageGross.String())  // simple mode, unbounded band
	assert.Equal(t, "25", first.Bonus.String())         // once bonus past 80
	assert.Equal(t, "100", first.FixedBase.String())
	assert.Equal(t, "185", first.TotalGross.String())
	assert.Equal(t, "10", first.Deductions.String())
	assert.Equal(t, "175", first.Net.String())
	assert.Equal(t, "1.46", first.AvgNetPerPackage.String()) // 175/120

	second := rows[1]
	assert.Equal(t, planless.ID, second.DriverID)
	assert.True(t, second.PackageGross.IsZero())
	assert.True(t, second.Net.IsZero())
}

func TestCompute_InvalidRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Compute(context.Background(), reportdomain.Request{})
	assert.ErrorIs(t, err, reportdomain.ErrInvalidRange)
}

func TestWriteCSV(t *testing.T) {
	f := newFixture(t)
	from, to, _, _ := seedReportData(t, f)

	rows, err := f.svc.Compute(context.Background(), reportdomain.Request{From: from, To: to})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"driver;period_from;period_to;delivered;package_gross;bonus;fixed_base;total_gross;deductions;net;average_net_per_package",
		lines[0])
	assert.Equal(t, "Planned Driver;2026-07-01;2026-07-31;120;60;25;100;185;10;175;1.46", lines[1])
}

func TestWriteXLSX(t *testing.T) {
	f := newFixture(t)
	from, to, _, _ := seedReportData(t, f)

	rows, err := f.svc.Compute(context.Background(), reportdomain.Request{From: from, To: to})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.WriteXLSX(&buf, rows))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	got, err := book.GetCellValue("Payout Report", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Planned Driver", got)
}
