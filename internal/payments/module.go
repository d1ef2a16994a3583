package payments

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"payments",
		fx.Provide(NewVerifier),
	)
}
