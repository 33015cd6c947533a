package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/username/vacation-days/internal/format"
	"github.com/username/vacation-days/internal/server"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator as a JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}

			c, err := initializeComponents(cfg)
			if err != nil {
				return err
			}
			defer c.close()

			srv := server.New(c.calc, server.Options{
				Addr:             addr,
				CORSOrigins:      cfg.Server.CORSOrigins,
				ShutdownTimeout:  cfg.Server.GetShutdownTimeout(),
				IncludeHolHamoed: cfg.Policy.IncludeHolHamoed,
				Language:         format.ParseLang(cfg.Display.Language),
			}, logger)

			// Setup signal handling
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("Starting server",
				zap.String("addr", addr),
				zap.String("calendar", cfg.Calendar.Type))

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")

	return cmd
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cache-clear",
		Short: "Drop hebcal months cached in Redis",
		Long:  "Drop hebcal months cached in Redis. The memory cache lives inside a single process and cannot be cleared from outside it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Calendar.Cache != "redis" {
				return fmt.Errorf("cache-clear requires calendar.cache: redis, the %q cache is per process", cfg.Calendar.Cache)
			}

			c, err := initializeComponents(cfg)
			if err != nil {
				return err
			}
			defer c.close()

			if err := c.cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Calendar cache cleared")
			return nil
		},
	}
}
