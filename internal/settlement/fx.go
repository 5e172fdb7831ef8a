package settlement

import (
	"github.com/haulaware/driverpay/internal/settlement/repository"
	"github.com/haulaware/driverpay/internal/settlement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settlement.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
