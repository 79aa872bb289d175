package notification

import (
	"github.com/ecopoints/ecopoints/internal/notification/repository"
	"github.com/ecopoints/ecopoints/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
