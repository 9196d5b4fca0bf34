package main

import (
	"github.com/spf13/cobra"
	"github.com/zone-feed/nowplaying/internal/mock"
	"github.com/zone-feed/nowplaying/internal/mockserver"
)

func newMockServerCommand(opts *globalOptions) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve a local imitation of the zone feed and history API",
		Long: `Serve the WebSocket feed (/ws/), the history endpoint
(/sound_zones/{zone}/history_tracks/latest) and /metrics with generated
tracks. Point the other commands at it with

  --ws-url 'ws://127.0.0.1:8090/ws/?EIO=3&transport=websocket'
  --history-url 'http://127.0.0.1:8090/sound_zones/{zone}/history_tracks/latest'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg.Mock
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, cancel := signalContext()
			defer cancel()
			return mockserver.NewServer(cfg, mock.NewGenerator()).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 8090, "Listen port (overrides config)")

	return cmd
}
