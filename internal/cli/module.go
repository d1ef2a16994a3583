package cli

import (
	"eskimo_admin/internal/orders"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"cli",
		fx.Provide(
			fx.Annotate(NewNotifier, fx.As(new(orders.Notifier))),
			NewRunner,
		),
	)
}
