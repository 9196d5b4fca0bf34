package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zone-feed/nowplaying/internal/client"
	"github.com/zone-feed/nowplaying/internal/config"
)

const defaultConfigPath = "nowplaying.yaml"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	zone       string
	wsURL      string
	historyURL string
	logFile    string

	cfg *config.Config
}

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "nowplaying",
		Short: "Follow what a sound zone is playing",
		Long: `nowplaying shows the track a sound zone is playing right now and the ones
before it. It loads the zone's recent history over HTTP, then follows the
live scrobble feed over a socket.io WebSocket.

Without a subcommand it runs the terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts)
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	rootCmd.PersistentFlags().StringVar(&opts.zone, "zone", "", "Sound zone id (overrides config)")
	rootCmd.PersistentFlags().StringVar(&opts.wsURL, "ws-url", "", "Scrobble feed WebSocket URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&opts.historyURL, "history-url", "", "History URL template, {zone} is replaced (overrides config)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Write the feed log to this file")

	rootCmd.AddCommand(newWatchCommand(opts))
	rootCmd.AddCommand(newHistoryCommand(opts))
	rootCmd.AddCommand(newTailCommand(opts))
	rootCmd.AddCommand(newMockServerCommand(opts))

	return rootCmd
}

// load reads the config file and applies flag overrides. An explicit
// --config must exist; the default path may be absent.
func (o *globalOptions) load(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOrDefault(o.configPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if o.zone != "" {
		cfg.Zone.ID = o.zone
	}
	cfg.Zone.ID = config.NormalizeZoneID(cfg.Zone.ID)
	if o.wsURL != "" {
		cfg.Feed.URL = o.wsURL
	}
	if o.historyURL != "" {
		cfg.History.URL = o.historyURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	o.cfg = cfg
	return nil
}

// logger returns a logger writing to --log-file, or fallback when unset.
// The returned close function is always safe to call.
func (o *globalOptions) logger(fallback io.Writer) (*log.Logger, func(), error) {
	if o.logFile == "" {
		return log.New(fallback, "", log.LstdFlags), func() {}, nil
	}
	f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }, nil
}

// subscriberOptions maps the feed config onto client options.
func (o *globalOptions) subscriberOptions(logger *log.Logger) []client.Option {
	cfg := o.cfg.Feed
	return []client.Option{
		client.WithEndpoint(cfg.URL),
		client.WithPingInterval(cfg.PingInterval),
		client.WithEventName(cfg.EventName),
		client.WithDialer(client.WebSocketDialer{HandshakeTimeout: cfg.DialTimeout}),
		client.WithLogger(logger),
	}
}

func (o *globalOptions) historyClient() (*client.HistoryClient, error) {
	h := o.cfg.History
	return client.NewHistoryClient(o.cfg.Zone.ID, h.URL, h.APIVersion, h.Timeout)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
