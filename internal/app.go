package internal

import (
	"context"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/cli"
	"eskimo_admin/internal/config"
	"eskimo_admin/internal/logging"
	"eskimo_admin/internal/orders"
	"eskimo_admin/internal/payments"
	"eskimo_admin/internal/printer"
	"eskimo_admin/internal/session"
	"eskimo_admin/internal/users"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Run() error {
	var runner *cli.Runner

	app := fx.New(
		logger.Module(),
		logger.WithFxDefaultLogger(),
		config.Module(),
		logging.Module(),
		session.Module(),
		api.Module(),
		orders.Module(),
		users.Module(),
		printer.Module(),
		payments.Module(),
		cli.Module(),
		fx.Populate(&runner),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(ctx)
	}()

	return runner.Execute()
}
