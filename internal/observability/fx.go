package observability

import (
	"github.com/ecopoints/ecopoints/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		metrics.New,
		metrics.NewHTTPMetrics,
	),
)
