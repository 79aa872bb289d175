package report

import (
	"github.com/ecopoints/ecopoints/internal/report/repository"
	"github.com/ecopoints/ecopoints/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
