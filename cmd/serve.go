package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lumonlabs/refinery/internal/adapters/config"
	"github.com/lumonlabs/refinery/internal/adapters/metrics"
	"github.com/lumonlabs/refinery/internal/adapters/transport/sshd"
	"github.com/lumonlabs/refinery/internal/application"
	"github.com/lumonlabs/refinery/internal/ports"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		configPath  string
		listenAddr  string
		hostKeyPath string
		metricsAddr string
		maxSessions int
		tick        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the refinement server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.ListenAddr = listenAddr
			}
			if cmd.Flags().Changed("host-key") {
				cfg.HostKeyPath = hostKeyPath
			}
			if cmd.Flags().Changed("metrics") {
				cfg.MetricsAddr = metricsAddr
			}
			if cmd.Flags().Changed("max-sessions") {
				cfg.MaxSessions = maxSessions
			}
			if cmd.Flags().Changed("tick") {
				cfg.Tick = tick
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "SSH listen address")
	cmd.Flags().StringVar(&hostKeyPath, "host-key", "", "host key path (generated when missing, ephemeral when empty)")
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "ops endpoint address, empty disables it")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", 0, "maximum concurrent sessions")
	cmd.Flags().DurationVar(&tick, "tick", 0, "render tick interval")

	return cmd
}

func serve(ctx context.Context, cfg application.Settings) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	srv, err := application.NewServer(cfg, log, application.WithMetrics(recorder))
	if err != nil {
		return err
	}

	signer, err := sshd.LoadOrCreateHostKey(cfg.HostKeyPath)
	if err != nil {
		return err
	}
	listener, err := sshd.NewServer(cfg.ListenAddr, signer, func(conn ports.TerminalConn) error {
		return srv.Handle(ctx, conn)
	}, log)
	if err != nil {
		return err
	}

	log.Info("refinement floor open",
		slog.String("listen", listener.Addr().String()),
		slog.Int("max_sessions", cfg.MaxSessions))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return listener.Serve(gctx) })
	if cfg.MetricsAddr != "" {
		g.Go(func() error { return metrics.Serve(gctx, cfg.MetricsAddr, reg, log) })
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		return err
	}
	log.Info("refinement floor closed")
	return nil
}
