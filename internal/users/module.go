package users

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"users",
		fx.Provide(NewService),
	)
}
