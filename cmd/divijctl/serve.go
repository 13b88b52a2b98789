package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/DivijChawla/DivijEncrypt/internal/api"
	"github.com/DivijChawla/DivijEncrypt/internal/rpc"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Serve the REST API and gRPC service on one port",
		UsageText: "divijctl serve [--addr HOST:PORT]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen `ADDR`, overrides api_addr"},
		},
		Action: func(c *cli.Context) error {
			e := envFrom(c)
			addr := e.cfg.APIAddr
			if v := c.String("addr"); v != "" {
				addr = v
			}

			grpcSrv := rpc.NewGRPCServer(e.svc, e.log.With().Str("transport", "grpc").Logger())
			defer grpcSrv.Stop()

			srv, err := api.NewServer(api.Config{
				Addr:    addr,
				Service: e.svc,
				Audit:   e.audit.WithComponent("api"),
				Logger:  e.log.With().Str("transport", "http").Logger(),
				GRPC:    grpcSrv,
			})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			e.log.Info().Str("addr", addr).Str("recipes", e.cfg.RecipesDir).Msg("starting server")
			if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
				return cli.Exit(err.Error(), 1)
			}
			e.log.Info().Msg("server stopped")
			return nil
		},
	}
}
