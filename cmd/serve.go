package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cfg "github.com/physio-dash/session-transcriber/config"
	"github.com/physio-dash/session-transcriber/logging"
	"github.com/physio-dash/session-transcriber/metrics"
	"github.com/physio-dash/session-transcriber/orchestrator"
	"github.com/physio-dash/session-transcriber/server"
)

func newServeCmd(rf *rootFlags) *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /api/transcribe for the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			conf, err := cfg.Watch(rf.configPath, func(next *cfg.Root) {
				applyLogging(rf, next)
				if err := logging.SetLevel(next.Pipeline.LogLvl); err != nil {
					logging.Log.Warnf("log level not changed: %v", err)
				}
			})
			if err != nil {
				return err
			}
			applyLogging(rf, conf)
			if err := logging.Init(conf.Pipeline.LogLvl, conf.Pipeline.LogFile); err != nil {
				return err
			}
			if addr != "" {
				conf.Server.Addr = addr
			}
			if conf.Deepgram.APIKey == "" {
				logging.Log.Warn("DEEPGRAM_API_KEY is not set; /api/transcribe will answer 500")
			}

			srv := server.New(conf.Server, orchestrator.NewPipeline(conf), metrics.New())

			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Start(conf.Server.Addr) }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			logging.Log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return c
}
