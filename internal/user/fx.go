package user

import (
	"github.com/ecopoints/ecopoints/internal/user/repository"
	"github.com/ecopoints/ecopoints/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
