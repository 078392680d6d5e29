package components

import (
	"shop-order-engine/internal/handler"
	"shop-order-engine/internal/handler/api"
	"shop-order-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewOrderHandler,
		api.NewCouponHandler,
		api.NewCartHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
