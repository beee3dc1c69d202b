package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	gateway "github.com/abdallah-zarea/savior-bot/internal/adapters/gateway/amqp"
	"github.com/abdallah-zarea/savior-bot/internal/application"
)

func newBroadcastCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast <text>",
		Short: "Send a text message to every requester who is not banned",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("broadcast text is empty")
			}

			logger := newLogger(app.cfg.Log, cmd.ErrOrStderr())
			recipients := app.directory(cmd.Context(), logger).Reachable()
			if len(recipients) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no reachable requesters")
				return err
			}

			client, err := app.connectGateway(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer client.Close()

			broadcaster := application.NewBroadcaster(
				gateway.NewTransport(client),
				app.cfg.Broadcast.Rate,
				app.cfg.Broadcast.Burst,
				app.cfg.Router.TransportTimeout,
				logger,
			)

			var report application.BroadcastReport
			err = runSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Broadcasting to %d requesters...", len(recipients)),
				func(ctx context.Context, relabel func(string)) error {
					var runErr error
					report, runErr = broadcaster.Broadcast(ctx, recipients, application.BroadcastPayload{Text: text}, func(r application.BroadcastReport) {
						relabel(fmt.Sprintf("Broadcasting... %d/%d", r.Total(), len(recipients)))
					})
					return runErr
				})
			if err != nil {
				return fmt.Errorf("broadcast stopped after %d of %d: %w", report.Total(), len(recipients), err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "delivered: %d\nfailed: %d\n", report.Delivered, report.Failed)
			return err
		},
	}
}
