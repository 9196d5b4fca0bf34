package main

import (
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/zone-feed/nowplaying/internal/app"
	"github.com/zone-feed/nowplaying/internal/client"
	"github.com/zone-feed/nowplaying/internal/mock"
)

func newWatchCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the terminal UI (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts)
		},
	}
}

func runWatch(opts *globalOptions) error {
	// The alt screen owns the terminal, so the feed only logs to a file.
	logger := log.New(io.Discard, "", 0)
	if opts.logFile != "" {
		f, err := tea.LogToFile(opts.logFile, "nowplaying")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.Default()
	}

	hc, err := opts.historyClient()
	if err != nil {
		return err
	}
	feed, err := client.NewFeed(opts.cfg.Zone.ID, hc, opts.subscriberOptions(logger)...)
	if err != nil {
		return err
	}
	defer feed.Close()

	p := tea.NewProgram(app.New(feed, mock.NewGenerator()), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
