package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/haulaware/driverpay/internal/claim"
	"github.com/haulaware/driverpay/internal/clock"
	"github.com/haulaware/driverpay/internal/config"
	"github.com/haulaware/driverpay/internal/dailyrun"
	"github.com/haulaware/driverpay/internal/driver"
	"github.com/haulaware/driverpay/internal/logger"
	"github.com/haulaware/driverpay/internal/metrics"
	"github.com/haulaware/driverpay/internal/migration"
	"github.com/haulaware/driverpay/internal/order"
	"github.com/haulaware/driverpay/internal/payoutreport"
	"github.com/haulaware/driverpay/internal/plan"
	"github.com/haulaware/driverpay/internal/scheduler"
	"github.com/haulaware/driverpay/internal/server"
	"github.com/haulaware/driverpay/internal/settlement"
	"github.com/haulaware/driverpay/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,
		metrics.Module,

		driver.Module,
		order.Module,
		plan.Module,
		dailyrun.Module,
		claim.Module,
		settlement.Module,
		payoutreport.Module,

		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
