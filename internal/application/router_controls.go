package application

import (
	"context"
	"errors"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

func (r *Router) HandleControl(ctx context.Context, event domain.ControlEvent) error {
	if !r.cfg.Roster.IsOperator(event.From.ID) {
		r.answer(ctx, event, textNotOperator, true)
		return nil
	}

	action, target, err := domain.ParseControlData(event.Data)
	if err != nil {
		r.answer(ctx, event, "", false)
		return err
	}

	switch action {
	case domain.ControlClaim:
		return r.claimControl(ctx, event, domain.RequesterID(target))
	case domain.ControlRelease:
		return r.releaseControl(ctx, event, domain.RequesterID(target))
	default:
		return r.panelControl(ctx, event, target)
	}
}

// claimControl is the claim button on a ticket card. The loser of a race gets
// an alert naming the winner.
func (r *Router) claimControl(ctx context.Context, event domain.ControlEvent, requesterID domain.RequesterID) error {
	operator := domain.OperatorID(event.From.ID)
	name := event.From.Name()

	claim, err := r.ledger.Claim(requesterID, operator, name)
	if err != nil {
		var contention *domain.ContentionError
		if !errors.As(err, &contention) {
			r.answer(ctx, event, "", false)
			return err
		}

		if contention.Owner.OperatorID == operator {
			r.answer(ctx, event, "", false)
			r.editText(ctx, event.Chat, event.Handle, textAlreadyYours)
			return nil
		}

		r.answer(ctx, event, takenAlert(contention.Owner.OperatorName), true)
		r.editText(ctx, event.Chat, event.Handle, claimedByText(contention.Owner.OperatorName))
		return nil
	}

	r.answer(ctx, event, "", false)
	r.editText(ctx, event.Chat, event.Handle, claimedText(r.requester(requesterID)))
	r.index.Record(operator, event.Handle, requesterID)

	if _, err := r.sendText(ctx, requesterID.Chat(), textJoined, domain.SendOptions{}); err != nil {
		r.logger.Warn("claim notice not delivered", "requester", requesterID, "error", err)
	}
	r.notifyController(ctx, claimNoticeText(claim.OperatorName, requesterID))

	return nil
}

func (r *Router) releaseControl(ctx context.Context, event domain.ControlEvent, requesterID domain.RequesterID) error {
	operator := domain.OperatorID(event.From.ID)

	claim, err := r.ledger.Release(requesterID, operator)
	switch {
	case errors.Is(err, domain.ErrNotOwner):
		r.answer(ctx, event, textNotYours, true)
		return nil
	case errors.Is(err, domain.ErrNotOwned):
		r.answer(ctx, event, "", false)
		r.editText(ctx, event.Chat, event.Handle, textAlreadyEnded)
		return nil
	case err != nil:
		r.answer(ctx, event, "", false)
		return err
	}

	r.sessions.DropRequester(requesterID)
	r.answer(ctx, event, "", false)
	r.editText(ctx, event.Chat, event.Handle, textClosed)

	if _, err := r.sendText(ctx, operator.Chat(), textFree, domain.SendOptions{}); err != nil {
		r.logger.Warn("release notice not delivered", "operator", operator, "error", err)
	}
	if _, err := r.sendText(ctx, requesterID.Chat(), textEnded, domain.SendOptions{}); err != nil {
		r.logger.Warn("release notice not delivered", "requester", requesterID, "error", err)
	}
	r.notifyController(ctx, releaseNoticeText(claim.OperatorName, requesterID))

	return nil
}

func (r *Router) panelControl(ctx context.Context, event domain.ControlEvent, action string) error {
	operator := domain.OperatorID(event.From.ID)

	switch action {
	case domain.PanelStats:
		r.answer(ctx, event, "", false)
		_, err := r.sendText(ctx, event.Chat, statsText(r.Stats()), domain.SendOptions{})
		return err
	case domain.PanelReleaseAll:
		if !r.cfg.Roster.IsController(operator) {
			r.answer(ctx, event, textControllerOnly, true)
			return nil
		}
		r.answer(ctx, event, "", false)
		return r.releaseAll(ctx, event.Chat)
	case domain.PanelBroadcastHelp:
		r.answer(ctx, event, "", false)
		_, err := r.sendText(ctx, event.Chat, textBroadcastHelp, domain.SendOptions{})
		return err
	default:
		r.answer(ctx, event, "", false)
		return nil
	}
}
