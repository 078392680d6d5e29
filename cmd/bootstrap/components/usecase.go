package components

import (
	"shop-order-engine/internal/pkg/clock"
	"shop-order-engine/internal/usecase/commands"
	"shop-order-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewCouponQueries,
		queries.NewCartQueries,
		queries.NewUserQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewCheckoutCommands,
		commands.NewLifecycleCommands,
		commands.NewCouponCommands,
		commands.NewCartCommands,
	),
)
