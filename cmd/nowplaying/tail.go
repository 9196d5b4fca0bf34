package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/zone-feed/nowplaying/internal/client"
)

func newTailCommand(opts *globalOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print live track updates as JSON lines",
		Long: `Subscribe to the zone's scrobble feed and print every track update as one
JSON object per line. Press Ctrl+C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return runTail(ctx, opts, cmd.OutOrStdout(), metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9100)")

	return cmd
}

// runTail follows the feed until ctx is cancelled or the connection drops.
func runTail(ctx context.Context, opts *globalOptions, out io.Writer, metricsAddr string) error {
	logger, closeLog, err := opts.logger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	reg := prometheus.NewRegistry()
	metrics := client.NewMetrics(reg)
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	closed := make(chan error, 1)
	subOpts := append(opts.subscriberOptions(logger),
		client.WithMetrics(metrics),
		client.WithHooks(client.Hooks{
			OnClose: func(err error) { closed <- err },
		}),
	)
	sub, err := client.New(opts.cfg.Zone.ID, subOpts...)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	enc := json.NewEncoder(out)
	err = sub.Subscribe(ctx, func(s client.Scrobble) {
		mu.Lock()
		defer mu.Unlock()
		if err := enc.Encode(s); err != nil {
			logger.Printf("write: %v", err)
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	select {
	case <-ctx.Done():
		return nil
	case err := <-closed:
		if err == nil {
			return errors.New("feed closed")
		}
		return fmt.Errorf("feed closed: %w", err)
	}
}
