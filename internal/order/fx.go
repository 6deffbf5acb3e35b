package order

import (
	"github.com/slotlinelabs/slotline/internal/order/repository"
	"github.com/slotlinelabs/slotline/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
