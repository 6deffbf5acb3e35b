package inventory

import (
	"github.com/slotlinelabs/slotline/internal/inventory/repository"
	"github.com/slotlinelabs/slotline/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewAllocator),
	fx.Provide(service.NewValidator),
)
