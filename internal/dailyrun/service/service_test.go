package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
	"github.com/haulaware/driverpay/internal/dailyrun/repository"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
	driverrepository "github.com/haulaware/driverpay/internal/driver/repository"
	"github.com/haulaware/driverpay/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	node       *snowflake.Node
	svc        dailyrundomain.Service
	driverRepo driverdomain.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&driverdomain.Driver{}, &dailyrundomain.DailyRunRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	driverRepo := driverrepository.Provide()
	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       repository.Provide(),
		DriverRepo: driverRepo,
		Metrics:    metrics.New(prometheus.NewRegistry()),
	})
	return &fixture{db: db, node: node, svc: svc, driverRepo: driverRepo}
}

func (f *fixture) seedDriver(t *testing.T, name string) *driverdomain.Driver {
	t.Helper()
	now := time.Now().UTC()
	driver := &driverdomain.Driver{
		ID:        f.node.Generate(),
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.driverRepo.Insert(context.Background(), f.db, driver))
	return driver
}

func TestUpsert_ComputesTotals(t *testing.T) {
	f := newFixture(t)
	driver := f.seedDriver(t, "Totals Driver")

	record, err := f.svc.Upsert(context.Background(), dailyrundomain.UpsertRequest{
		DriverID:             driver.ID.String(),
		Date:                 time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		Client:               "acme",
		Area:                 "north",
		SentCount:            120,
		PlannedCount:         110,
		DeliveredCount:       100,
		UnitPrice:            "0.50",
		FuelDeduction:        "10",
		TicketDiscount:       "2",
		TicketReconciliation: "3",
		OtherDeduction:       "5",
	})
	require.NoError(t, err)

	assert.Equal(t, "50", record.GrossFromUnitPrice.String())
	assert.Equal(t, "30", record.Net.String()) // 50 − (10+2+3+5)
}

func TestUpsert_CountOrdering(t *testing.T) {
	f := newFixture(t)
	driver := f.seedDriver(t, "Ordering Driver")

	_, err := f.svc.Upsert(context.Background(), dailyrundomain.UpsertRequest{
		DriverID:       driver.ID.String(),
		Date:           time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		SentCount:      100,
		PlannedCount:   90,
		DeliveredCount: 95, // delivered > planned
	})
	assert.ErrorIs(t, err, dailyrundomain.ErrCountOrdering)

	_, err = f.svc.Upsert(context.Background(), dailyrundomain.UpsertRequest{
		DriverID:       driver.ID.String(),
		Date:           time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		SentCount:      -1,
		PlannedCount:   0,
		DeliveredCount: 0,
	})
	assert.ErrorIs(t, err, dailyrundomain.ErrNegativeCount)
}

func TestUpsert_ReplacesExistingKey(t *testing.T) {
	f := newFixture(t)
	driver := f.seedDriver(t, "Replace Driver")
	ctx := context.Background()
	date := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)

	base := dailyrundomain.UpsertRequest{
		DriverID:       driver.ID.String(),
		Date:           date,
		Client:         "acme",
		Area:           "north",
		SentCount:      50,
		PlannedCount:   50,
		DeliveredCount: 40,
		UnitPrice:      "1",
	}
	_, err := f.svc.Upsert(ctx, base)
	require.NoError(t, err)

	base.DeliveredCount = 45
	_, err = f.svc.Upsert(ctx, base)
	require.NoError(t, err)

	records, err := f.svc.ListRange(ctx, driver.ID.String(), date, date)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(45), records[0].DeliveredCount)
	assert.Equal(t, "45", records[0].GrossFromUnitPrice.String())
}

func TestImportCSV(t *testing.T) {
	f := newFixture(t)
	driver := f.seedDriver(t, "Budi")
	ctx := context.Background()

	payload := strings.Join([]string{
		"driver;area;date;sent;planned;delivered;unit_price;fuel;ticket_discount;ticket_reconciliation;other;notes",
		"Budi;north;2026-05-04;100;95;90;0.45;12;0;0;3;ok",
		"Budi;north;2026-05-05;80;80;80;0.45;10;0;0;0;",
		"Nobody;north;2026-05-04;10;10;10;0.45;0;0;0;0;",
		"Budi;north;not-a-date;10;10;10;0.45;0;0;0;0;",
	}, "\n")

	summary, err := f.svc.ImportCSV(ctx, strings.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	require.Len(t, summary.Failed, 2)
	assert.Equal(t, 4, summary.Failed[0].Line)
	assert.Contains(t, summary.Failed[0].Reason, "unknown_driver")
	assert.Equal(t, 5, summary.Failed[1].Line)
	assert.NotEmpty(t, summary.BatchID)

	records, err := f.svc.ListRange(ctx, driver.ID.String(),
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
