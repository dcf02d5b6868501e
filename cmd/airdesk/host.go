package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/junsooki/airdesk/internal/capture"
	"github.com/junsooki/airdesk/internal/config"
	"github.com/junsooki/airdesk/internal/encoder"
	"github.com/junsooki/airdesk/internal/input"
	"github.com/junsooki/airdesk/internal/peer"
	"github.com/junsooki/airdesk/internal/permissions"
	"github.com/junsooki/airdesk/internal/stats"
	"github.com/junsooki/airdesk/internal/transport"
	"github.com/junsooki/airdesk/internal/util"
)

const metricsNamespace = "airdesk"

func hostCmd() *cobra.Command {
	cfg := config.Default(config.RoleHost)

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Share this screen with one viewer",
		Long: `Listen for a viewer, authenticate it with the shared credential and
stream the selected display until it disconnects. Viewers are served one
at a time; connections arriving during a session are refused.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := prepare(&cfg); err != nil {
				return err
			}
			return runHost(cmd.Context(), cfg)
		},
	}
	config.BindFlags(cmd.Flags(), &cfg)
	return cmd
}

func runHost(ctx context.Context, cfg config.Config) error {
	printBanner(cfg.Role)

	if err := permissions.Preflight(true); err != nil {
		return err
	}

	capturer, err := capture.NewScreenCapturer(cfg.DisplayIndex)
	if err != nil {
		return err
	}
	enc := encoder.NewPipeline(cfg.Quality, cfg.Compression)

	ln, err := listen(cfg)
	if err != nil {
		return err
	}
	defer ln.Close()

	st := stats.New()
	if err := startMetrics(ctx, cfg, st); err != nil {
		return err
	}
	stats.StartReporter(ctx, st, stats.DefaultReportInterval)

	b := capturer.Bounds()
	util.LogInfo("display %d (%dx%d), quality %d, %d fps, compression %t",
		cfg.DisplayIndex, b.Dx(), b.Dy(), cfg.Quality, cfg.FPS, cfg.Compression)
	util.LogSuccess("listening on %s (%s)", ln.Addr(), cfg.Carrier)

	host := peer.NewHost(ln, capturer, enc, input.NewSystemInjector(), peer.HostConfig{
		FPS:         cfg.FPS,
		BorderWidth: cfg.BorderWidth,
		Once:        cfg.Once,
	}, st)
	if err := host.Serve(ctx); err != nil {
		return err
	}
	util.LogInfo("host stopped")
	return nil
}

// listen opens the configured carrier and wraps it in the session listener.
func listen(cfg config.Config) (*transport.Listener, error) {
	opts := transport.Options{Credential: cfg.Credential}
	if cfg.HostTLS() {
		wrap, err := transport.ServerTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return nil, err
		}
		opts.Wrap = wrap
	}

	if cfg.Carrier == config.CarrierWebSocket {
		raw, err := transport.ListenWebSocket(cfg.Addr(), transport.DefaultWebSocketPath)
		if err != nil {
			return nil, err
		}
		return transport.NewListener(raw, opts), nil
	}
	return transport.Listen(cfg.Addr(), opts)
}

// startMetrics exposes st on cfg.MetricsAddr when set. The server stops
// with ctx.
func startMetrics(ctx context.Context, cfg config.Config, st *stats.Stats) error {
	if cfg.MetricsAddr == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	if err := stats.Register(reg, st, metricsNamespace); err != nil {
		return err
	}

	go func() {
		if err := stats.Serve(ctx, cfg.MetricsAddr, reg); err != nil {
			util.LogError("metrics server: %v", err)
		}
	}()
	return nil
}
