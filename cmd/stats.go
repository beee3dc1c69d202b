package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	statsadapter "github.com/abdallah-zarea/savior-bot/internal/adapters/render/stats"
	"github.com/abdallah-zarea/savior-bot/internal/application"
)

func newStatsCmd(app *app) *cobra.Command {
	var (
		server     string
		asJSON     bool
		staleAfter time.Duration
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show directory and conversation statistics",
		Long:  "Without --server the statistics come from the directory store, so no conversation is shown as claimed. With --server they are fetched live from a running bot's /healthz endpoint.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				stats application.Stats
				err   error
			)
			if server != "" {
				stats, err = app.fetchStats(cmd.Context(), server)
			} else {
				stats = app.offlineStats(cmd)
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			rendered, err := app.statsRenderer(stats, statsadapter.RenderOptions{
				Now:        app.now(),
				StaleAfter: staleAfter,
			})
			if err != nil {
				return fmt.Errorf("render stats: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Base URL of a running bot, e.g. http://localhost:10000")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	cmd.Flags().DurationVar(&staleAfter, "stale-after", time.Hour, "Flag conversations claimed longer ago than this")

	return cmd
}

func (a *app) offlineStats(cmd *cobra.Command) application.Stats {
	directory := a.directory(cmd.Context(), newLogger(a.cfg.Log, cmd.ErrOrStderr()))

	return application.Stats{
		Requesters: directory.Count(),
		Banned:     directory.BannedCount(),
		Operators:  len(a.cfg.Operators.IDs),
	}
}

func (a *app) fetchStats(ctx context.Context, server string) (application.Stats, error) {
	url := strings.TrimRight(server, "/") + "/healthz"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return application.Stats{}, fmt.Errorf("build stats request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return application.Stats{}, fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return application.Stats{}, fmt.Errorf("fetch stats: %s returned %s", url, resp.Status)
	}

	var stats application.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return application.Stats{}, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}
