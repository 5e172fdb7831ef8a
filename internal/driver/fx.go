package driver

import (
	"github.com/haulaware/driverpay/internal/driver/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("driver",
	fx.Provide(repository.Provide),
)
