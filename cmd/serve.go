package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	gateway "github.com/abdallah-zarea/savior-bot/internal/adapters/gateway/amqp"
	"github.com/abdallah-zarea/savior-bot/internal/adapters/keepalive"
	"github.com/abdallah-zarea/savior-bot/internal/application"
	"github.com/abdallah-zarea/savior-bot/internal/version"
)

func newServeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.serve(ctx, cmd)
		},
	}
}

func (a *app) serve(ctx context.Context, cmd *cobra.Command) error {
	logger := newLogger(a.cfg.Log, cmd.ErrOrStderr())

	routerCfg, err := a.routerConfig()
	if err != nil {
		return err
	}

	client, err := a.connectGateway(ctx, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	directory := a.directory(ctx, logger)
	router := application.NewRouter(routerCfg, gateway.NewTransport(client), directory, a.clock, logger)

	logger.Info("savior starting",
		"version", version.Version,
		"operators", len(routerCfg.Roster.Operators),
		"controller", string(routerCfg.Roster.Controller),
		"requesters", directory.Count(),
		"store", a.cfg.Store.Backend,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Run(gctx, router)
	})
	if a.cfg.Keepalive.Enabled {
		server := keepalive.NewServer(a.cfg.Keepalive.Addr, router, logger)
		g.Go(func() error {
			return server.Run(gctx)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		logger.Info("savior stopped")
		return nil
	}
	return err
}
