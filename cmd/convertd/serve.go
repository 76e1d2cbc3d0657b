package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"convertd/internal/httpapi"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr, corsOrigins string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if addr != "" {
				cfg.Addr = addr
			}
			if corsOrigins != "" {
				cfg.CORSOrigins = splitCSV(corsOrigins)
			}

			mgr, exec, err := newDockerManager(opts)
			if err != nil {
				return err
			}
			defer exec.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpapi.SetLogger(opts.log.With().Str("component", "http").Logger())
			httpapi.SetRequestLogLevel(cfg.LogLevel)
			httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
			httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins, nil, nil)
			httpapi.SetBaseContext(ctx)

			if !mgr.Ready(ctx) {
				opts.log.Warn().Msg("docker daemon not reachable yet; /readyz will report unavailable")
			}

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.NewMux(mgr),
				ReadHeaderTimeout: 10 * time.Second,
			}
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				opts.log.Info().Str("addr", cfg.Addr).Str("saves_dir", cfg.SavesDir).Msg("convertd listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
				defer cancel()
				opts.log.Info().Msg("shutting down")
				return srv.Shutdown(sctx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides CONVERTD_ADDR)")
	cmd.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma separated origins allowed by CORS; empty disables CORS")
	return cmd
}
