package claim

import (
	"github.com/haulaware/driverpay/internal/claim/repository"
	"github.com/haulaware/driverpay/internal/claim/service"
	"go.uber.org/fx"
)

var Module = fx.Module("claim.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
