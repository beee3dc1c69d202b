package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

func newRequesterCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requester",
		Short: "Inspect and moderate registered requesters",
		Long:  "Offline maintenance of the requester directory. Bans and unbans are written to the store as single changes and survive a running server's own writes. The server picks them up on its next start.",
	}

	cmd.AddCommand(
		newRequesterListCmd(app),
		newRequesterBanCmd(app),
		newRequesterUnbanCmd(app),
	)

	return cmd
}

func newRequesterListCmd(app *app) *cobra.Command {
	var (
		asJSON     bool
		bannedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered requesters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			directory := app.directory(cmd.Context(), newLogger(app.cfg.Log, cmd.ErrOrStderr()))

			requesters := directory.Requesters()
			if bannedOnly {
				requesters = directory.BannedRequesters()
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(requesters)
			}

			return writeRequesters(cmd.OutOrStdout(), requesters)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print requesters as JSON")
	cmd.Flags().BoolVar(&bannedOnly, "banned", false, "Only list banned requesters")

	return cmd
}

func writeRequesters(w io.Writer, requesters []domain.Requester) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tJOINED\tBANNED")
	for _, requester := range requesters {
		name := domain.Sender{ID: string(requester.ID), DisplayName: requester.DisplayName, Handle: requester.Handle}.Name()
		joined := "-"
		if !requester.JoinedAt.IsZero() {
			joined = requester.JoinedAt.UTC().Format(time.DateTime)
		}
		banned := ""
		if requester.Banned {
			banned = "yes"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", requester.ID, name, joined, banned)
	}
	return tw.Flush()
}

func newRequesterBanCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ban <requester-id>",
		Short: "Ban a requester",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.setBanned(cmd, domain.RequesterID(args[0]), true)
		},
	}
}

func newRequesterUnbanCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unban <requester-id>",
		Short: "Lift a requester's ban",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.setBanned(cmd, domain.RequesterID(args[0]), false)
		},
	}
}

func (a *app) setBanned(cmd *cobra.Command, id domain.RequesterID, banned bool) error {
	if id == "" {
		return fmt.Errorf("requester id is empty")
	}

	logger := newLogger(a.cfg.Log, cmd.ErrOrStderr())
	directory := a.directory(cmd.Context(), logger)

	var changed bool
	if banned {
		changed = directory.Ban(cmd.Context(), id)
	} else {
		changed = directory.Unban(cmd.Context(), id)
	}

	// Directory persistence failures are logged rather than returned, so
	// confirm the change reached the store.
	snapshot, err := a.store.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("verify directory: %w", err)
	}
	if isBanned(snapshot, id) != banned {
		return fmt.Errorf("directory store at %s did not accept the change", a.cfg.Store.Path)
	}

	verb := "banned"
	if !banned {
		verb = "unbanned"
	}
	if !changed {
		logger.Debug("ban list unchanged", slog.String("requester", string(id)))
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s was already %s\n", id, verb)
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", id, verb)
	return err
}

func isBanned(snapshot domain.DirectorySnapshot, id domain.RequesterID) bool {
	for _, banned := range snapshot.Banned {
		if banned == id {
			return true
		}
	}
	return false
}
