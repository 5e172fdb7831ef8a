package plan

import (
	"github.com/haulaware/driverpay/internal/plan/repository"
	"github.com/haulaware/driverpay/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
