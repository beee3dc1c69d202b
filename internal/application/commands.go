package application

import (
	"context"
	"errors"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	CommandStart      = "start"
	CommandHelp       = "help"
	CommandAdmin      = "admin"
	CommandBan        = "ban"
	CommandUnban      = "unban"
	CommandBroadcast  = "broadcast"
	CommandStats      = "stats"
	CommandLongform   = "longform"
	CommandSend       = "send"
	CommandDiscard    = "discard"
	CommandReleaseAll = "release_all"
)

var operatorCommands = map[string]struct{}{
	CommandStart: {}, CommandHelp: {}, CommandAdmin: {}, CommandBan: {}, CommandUnban: {},
	CommandBroadcast: {}, CommandStats: {}, CommandLongform: {}, CommandSend: {},
	CommandDiscard: {}, CommandReleaseAll: {},
}

// isOperatorCommand reports whether msg names one of the commands above.
// Other slash text, such as a path, is ordinary text.
func isOperatorCommand(msg domain.Message) bool {
	name, _ := msg.Command()
	_, ok := operatorCommands[name]
	return ok
}

// HandleCommand runs an operator's slash command.
func (r *Router) HandleCommand(ctx context.Context, msg domain.Message) error {
	name, args := msg.Command()
	operator := domain.OperatorID(msg.From.ID)

	switch name {
	case CommandStart, CommandHelp:
		r.reply(ctx, msg, textHelp)
		return nil
	case CommandAdmin:
		r.reply(ctx, msg, "🛠 Control panel",
			domain.PanelControl(labelStats, domain.PanelStats),
			domain.PanelControl(labelReleaseAll, domain.PanelReleaseAll),
			domain.PanelControl(labelBroadcast, domain.PanelBroadcastHelp),
		)
		return nil
	case CommandBan:
		id, err := requesterArg(args)
		if err != nil {
			r.reply(ctx, msg, usageText(name))
			return nil
		}
		changed := r.directory.Ban(ctx, id)
		if changed {
			r.dropClaimAny(id)
		}
		r.reply(ctx, msg, bannedText(id, changed))
		return nil
	case CommandUnban:
		id, err := requesterArg(args)
		if err != nil {
			r.reply(ctx, msg, usageText(name))
			return nil
		}
		r.reply(ctx, msg, unbannedText(id, r.directory.Unban(ctx, id)))
		return nil
	case CommandStats:
		r.reply(ctx, msg, statsText(r.Stats()))
		return nil
	case CommandBroadcast:
		return r.broadcastCommand(ctx, msg)
	case CommandLongform:
		return r.beginLongform(ctx, msg, args)
	case CommandSend:
		return r.flushLongform(ctx, msg)
	case CommandDiscard:
		requester, err := r.sessions.Discard(operator)
		if errors.Is(err, domain.ErrNoSession) {
			r.reply(ctx, msg, textLongformNone)
			return nil
		}
		if err != nil {
			return err
		}
		r.reply(ctx, msg, textLongformDiscard)
		r.notifyController(ctx, releaseNoticeText(msg.From.Name(), requester))
		return nil
	case CommandReleaseAll:
		if !r.cfg.Roster.IsController(operator) {
			r.reply(ctx, msg, textControllerOnly)
			return domain.ErrNotController
		}
		return r.releaseAll(ctx, msg.Chat)
	default:
		r.reply(ctx, msg, textHelp)
		return nil
	}
}

// dropClaimAny releases whoever holds requester, used when the requester is
// banned mid-conversation.
func (r *Router) dropClaimAny(requester domain.RequesterID) {
	if claim, ok := r.ledger.OwnerOf(requester); ok {
		r.dropClaim(requester, claim.OperatorID, "requester banned")
	}
}

func (r *Router) beginLongform(ctx context.Context, msg domain.Message, args []string) error {
	operator := domain.OperatorID(msg.From.ID)

	var requesterID domain.RequesterID
	switch {
	case len(args) > 0:
		requesterID = domain.RequesterID(args[0])
	case msg.IsReply():
		resolved, ok := r.index.Resolve(operator, msg.ReplyTo)
		if !ok {
			r.reply(ctx, msg, textUnresolved)
			return domain.ErrUnresolvedReply
		}
		requesterID = resolved
	default:
		r.reply(ctx, msg, textLongformNeedsTarget)
		return nil
	}

	err := r.sessions.Begin(operator, msg.From.Name(), requesterID)
	var contention *domain.ContentionError
	switch {
	case err == nil:
		r.reply(ctx, msg, longformStartText(requesterID))
		return nil
	case errors.As(err, &contention):
		r.reply(ctx, msg, lockedText(contention.Owner.OperatorName))
		return nil
	case errors.Is(err, domain.ErrSessionActive):
		r.reply(ctx, msg, textLongformActive)
		return nil
	default:
		return err
	}
}

func (r *Router) broadcastCommand(ctx context.Context, msg domain.Message) error {
	payload := BroadcastPayload{Text: msg.CommandText()}
	if msg.IsReply() {
		payload = BroadcastPayload{Source: &domain.Message{Chat: msg.Chat, Handle: msg.ReplyTo}}
	}
	if payload.Empty() {
		r.reply(ctx, msg, textBroadcastHelp)
		return nil
	}

	recipients := r.directory.Reachable()
	progress, err := r.sendText(ctx, msg.Chat, broadcastStartText(len(recipients)), domain.SendOptions{ReplyTo: msg.Handle})
	if err != nil {
		r.logger.Warn("broadcast progress not delivered", "operator", msg.From.ID, "error", err)
	}

	report, err := r.broadcaster.Broadcast(ctx, recipients, payload, nil)
	r.logger.Info("broadcast finished", "operator", msg.From.ID, "delivered", report.Delivered, "failed", report.Failed)
	if progress != 0 {
		r.editText(ctx, msg.Chat, progress, broadcastDoneText(report))
	} else {
		r.reply(ctx, msg, broadcastDoneText(report))
	}

	return err
}

// releaseAll is the controller's escape hatch: every claim and draft goes at
// once, and each affected operator is told.
func (r *Router) releaseAll(ctx context.Context, chat domain.ChatID) error {
	released, dropped := r.sessions.ReleaseAll()
	r.logger.Warn("all claims released", "claims", len(released), "sessions", dropped)

	var g errgroup.Group
	g.SetLimit(r.cfg.FanoutConcurrency)
	for _, claim := range released {
		g.Go(func() error {
			if _, err := r.sendText(ctx, claim.OperatorID.Chat(), releasedByControllerText(claim.RequesterID), domain.SendOptions{}); err != nil {
				r.logger.Warn("release notice not delivered", "operator", claim.OperatorID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	_, err := r.sendText(ctx, chat, releasedAllText(len(released), dropped), domain.SendOptions{})
	return err
}
