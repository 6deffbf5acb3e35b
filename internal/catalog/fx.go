package catalog

import (
	"github.com/slotlinelabs/slotline/internal/catalog/repository"
	"github.com/slotlinelabs/slotline/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
