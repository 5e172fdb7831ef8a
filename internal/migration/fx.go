package migration

import (
	claimdomain "github.com/haulaware/driverpay/internal/claim/domain"
	dailyrundomain "github.com/haulaware/driverpay/internal/dailyrun/domain"
	driverdomain "github.com/haulaware/driverpay/internal/driver/domain"
	orderdomain "github.com/haulaware/driverpay/internal/order/domain"
	plandomain "github.com/haulaware/driverpay/internal/plan/domain"
	settlementdomain "github.com/haulaware/driverpay/internal/settlement/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module creates the schema on startup so the service is usable out of the
// box on any of the supported dialects.
var Module = fx.Module("migrations",
	fx.Invoke(Run),
)

func Run(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&driverdomain.Driver{},
		&orderdomain.Order{},
		&plandomain.CompensationPlan{},
		&plandomain.PackageRate{},
		&plandomain.VolumeBonus{},
		&dailyrundomain.DailyRunRecord{},
		&claimdomain.DriverClaim{},
		&settlementdomain.DriverSettlement{},
	)
}
