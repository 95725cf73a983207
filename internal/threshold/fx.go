package threshold

import (
	"github.com/smallbiznis/corte/internal/threshold/repository"
	"github.com/smallbiznis/corte/internal/threshold/service"
	"go.uber.org/fx"
)

var Module = fx.Module("threshold.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
