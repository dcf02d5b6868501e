package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/junsooki/airdesk/internal/config"
	"github.com/junsooki/airdesk/internal/decoder"
	"github.com/junsooki/airdesk/internal/display"
	"github.com/junsooki/airdesk/internal/peer"
	"github.com/junsooki/airdesk/internal/stats"
	"github.com/junsooki/airdesk/internal/transport"
	"github.com/junsooki/airdesk/internal/util"
)

func clientCmd() *cobra.Command {
	cfg := config.Default(config.RoleClient)

	cmd := &cobra.Command{
		Use:   "client",
		Short: "View and control a remote host",
		Long: `Connect to a host, authenticate with the shared credential and show
its screen in a window. Mouse and keyboard input in the window is sent to
the host.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := prepare(&cfg); err != nil {
				return err
			}
			return runClient(cmd.Context(), cfg)
		},
	}
	config.BindFlags(cmd.Flags(), &cfg)
	return cmd
}

// runClient blocks in the window loop, which has to own the main goroutine.
func runClient(ctx context.Context, cfg config.Config) error {
	printBanner(cfg.Role)

	ch, err := dial(ctx, cfg)
	if err != nil {
		return err
	}
	util.LogInfo("credential sent to %s, waiting for the first frame", ch.RemoteAddr())

	st := stats.New()
	if err := startMetrics(ctx, cfg, st); err != nil {
		ch.Close()
		return err
	}
	stats.StartReporter(ctx, st, stats.DefaultReportInterval)

	win := display.NewEbitenDisplay(fmt.Sprintf("AirDesk - %s", cfg.Addr()))
	viewer := peer.NewViewer(ch, decoder.NewPipeline(cfg.Compression), win, st)
	win.Bind(viewer.Relay())

	done := make(chan error, 1)
	go func() { done <- viewer.Run(ctx) }()

	runErr := win.Run()
	viewer.Close()
	sessionErr := <-done

	if !viewer.Streaming() && sessionErr == nil && runErr == nil && ctx.Err() == nil {
		util.LogWarning("host closed the session before sending a frame; check the credential")
	}
	r := viewer.Relay()
	util.LogInfo("session ended (%d inputs sent, %d dropped)", r.Sent(), r.Dropped())
	if runErr != nil {
		return fmt.Errorf("display: %w", runErr)
	}
	return sessionErr
}

// dial connects over the configured carrier.
func dial(ctx context.Context, cfg config.Config) (*transport.Channel, error) {
	opts := transport.Options{Credential: cfg.Credential}
	if cfg.TLS.Enabled {
		opts.Wrap = transport.ClientTLS(cfg.Address, cfg.TLS.Insecure)
	}

	if cfg.Carrier == config.CarrierWebSocket {
		u := url.URL{Scheme: "ws", Host: cfg.Addr(), Path: transport.DefaultWebSocketPath}
		return transport.DialWebSocket(ctx, u.String(), opts)
	}
	return transport.Dial(ctx, cfg.Addr(), opts)
}
