package reward

import (
	"github.com/ecopoints/ecopoints/internal/reward/repository"
	"github.com/ecopoints/ecopoints/internal/reward/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reward.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
