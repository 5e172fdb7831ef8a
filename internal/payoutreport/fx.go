package payoutreport

import (
	"github.com/haulaware/driverpay/internal/payoutreport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payoutreport.service",
	fx.Provide(service.New),
)
