package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/zone-feed/nowplaying/internal/client"
)

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the zone's recently played tracks, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON record per line")

	return cmd
}

func runHistory(ctx context.Context, opts *globalOptions, out io.Writer, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	hc, err := opts.historyClient()
	if err != nil {
		return err
	}
	scrobbles, err := hc.FetchHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		for _, s := range scrobbles {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
		return nil
	}
	for _, s := range scrobbles {
		fmt.Fprintln(out, formatLine(s))
	}
	return nil
}

func formatLine(s client.Scrobble) string {
	at := "--:--:--"
	if t := s.Created(); !t.IsZero() {
		at = t.Local().Format("15:04:05")
	}
	return fmt.Sprintf("%s  %s - %s  (%s)", at, s.SongName, s.ArtistNames(), s.Source())
}
