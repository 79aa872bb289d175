package ledger

import (
	"github.com/ecopoints/ecopoints/internal/ledger/repository"
	"github.com/ecopoints/ecopoints/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
