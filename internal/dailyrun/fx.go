package dailyrun

import (
	"github.com/haulaware/driverpay/internal/dailyrun/repository"
	"github.com/haulaware/driverpay/internal/dailyrun/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dailyrun.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
