package application

import (
	"context"
	"errors"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

func (r *Router) handleOperatorMessage(ctx context.Context, msg domain.Message) error {
	operator := domain.OperatorID(msg.From.ID)

	_, drafting := r.sessions.Active(operator)

	// Unknown slash text while drafting is a fragment.
	if msg.IsCommand() && (!drafting || isOperatorCommand(msg)) {
		return r.HandleCommand(ctx, msg)
	}

	if drafting {
		return r.appendFragment(ctx, operator, msg)
	}

	if !msg.IsReply() {
		r.reply(ctx, msg, textNotInConversation)
		return nil
	}

	requesterID, ok := r.index.Resolve(operator, msg.ReplyTo)
	if !ok {
		r.reply(ctx, msg, textUnresolved)
		return domain.ErrUnresolvedReply
	}

	return r.deliverReply(ctx, operator, msg, requesterID)
}

// deliverReply relays an operator's message to the requester unchanged,
// whatever its kind.
func (r *Router) deliverReply(ctx context.Context, operator domain.OperatorID, msg domain.Message, requesterID domain.RequesterID) error {
	owner, owned := r.ledger.OwnerOf(requesterID)
	if owned && owner.OperatorID != operator {
		r.reply(ctx, msg, lockedText(owner.OperatorName))
		return &domain.ContentionError{Owner: owner}
	}

	r.typing(ctx, requesterID.Chat())
	if _, err := r.copy(ctx, requesterID.Chat(), msg); err != nil {
		r.reply(ctx, msg, deliveryFailedText(err))
		if owned {
			r.dropClaim(requesterID, operator, "requester unreachable")
		}
		return err
	}

	if owned {
		r.reply(ctx, msg, textSent, domain.ReleaseControl(labelRelease, requesterID))
	} else {
		r.reply(ctx, msg, textSent)
	}
	r.mirror(ctx, operator, msg, requesterID)

	return nil
}

// mirror copies a reply to the controller for oversight.
func (r *Router) mirror(ctx context.Context, operator domain.OperatorID, msg domain.Message, requesterID domain.RequesterID) {
	controller := r.cfg.Roster.Controller
	if !r.cfg.MirrorReplies || controller == "" || controller == operator {
		return
	}

	if _, err := r.sendText(ctx, controller.Chat(), mirrorHeading(msg.From.Name(), requesterID), domain.SendOptions{}); err != nil {
		r.logger.Warn("mirror heading not delivered", "operator", operator, "error", err)
		return
	}
	if _, err := r.copy(ctx, controller.Chat(), msg); err != nil {
		r.logger.Warn("mirror copy not delivered", "operator", operator, "error", err)
	}
}

func (r *Router) appendFragment(ctx context.Context, operator domain.OperatorID, msg domain.Message) error {
	n, err := r.sessions.Append(operator, msg.Content)
	switch {
	case err == nil:
		r.reply(ctx, msg, longformBufferedText(n))
		return nil
	case errors.Is(err, domain.ErrNonTextFragment):
		r.reply(ctx, msg, textLongformNonText)
		return nil
	case errors.Is(err, domain.ErrClaimLost):
		r.reply(ctx, msg, textLongformLost)
		return nil
	default:
		return err
	}
}

// flushLongform ends the operator's session and delivers the draft in chunks.
// The claim is released before delivery starts; a failed chunk stops the rest.
func (r *Router) flushLongform(ctx context.Context, msg domain.Message) error {
	operator := domain.OperatorID(msg.From.ID)

	composition, err := r.sessions.End(operator)
	switch {
	case errors.Is(err, domain.ErrNoSession):
		r.reply(ctx, msg, textLongformNone)
		return nil
	case errors.Is(err, domain.ErrClaimLost):
		r.reply(ctx, msg, textLongformLost)
		return nil
	case err != nil:
		return err
	}

	if composition.Empty() {
		r.reply(ctx, msg, textLongformEmpty)
		return nil
	}

	chunks := ChunkFragments(composition.Fragments, r.cfg.ChunkSize)
	chat := composition.Requester.Chat()
	r.typing(ctx, chat)
	for i, chunk := range chunks {
		if _, err := r.sendText(ctx, chat, chunk, domain.SendOptions{}); err != nil {
			r.reply(ctx, msg, longformPartialText(i, len(chunks), err))
			return err
		}
	}

	r.reply(ctx, msg, longformSentText(composition.Requester, len(chunks)))
	r.notifyController(ctx, releaseNoticeText(msg.From.Name(), composition.Requester))

	return nil
}
