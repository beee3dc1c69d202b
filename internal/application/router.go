package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
	"github.com/abdallah-zarea/savior-bot/internal/ports"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTransportTimeout  = 10 * time.Second
	DefaultFanoutConcurrency = 8

	receiptReaction = "👀"
)

type RouterConfig struct {
	Roster            domain.Roster
	TransportTimeout  time.Duration
	ChunkSize         int
	ReplyIndexSize    int
	FanoutConcurrency int
	MirrorReplies     bool
	BroadcastRate     float64
	BroadcastBurst    int
}

func (c RouterConfig) withDefaults() RouterConfig {
	if c.TransportTimeout <= 0 {
		c.TransportTimeout = DefaultTransportTimeout
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ReplyIndexSize <= 0 {
		c.ReplyIndexSize = DefaultReplyIndexCapacity
	}
	if c.FanoutConcurrency <= 0 {
		c.FanoutConcurrency = DefaultFanoutConcurrency
	}
	return c
}

// Router moves messages between requesters and operators. It owns the ledger,
// the reply index and the longform sessions for the lifetime of the process.
type Router struct {
	cfg         RouterConfig
	transport   ports.Transport
	directory   *Directory
	ledger      *Ledger
	index       *ReplyIndex
	sessions    *SessionManager
	broadcaster *Broadcaster
	logger      *slog.Logger
	startedAt   time.Time
}

var _ ports.InboundHandler = (*Router)(nil)

func NewRouter(cfg RouterConfig, transport ports.Transport, directory *Directory, clock ports.Clock, logger *slog.Logger) *Router {
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ledger := NewLedger(clock)
	return &Router{
		cfg:       cfg,
		transport: transport,
		directory: directory,
		ledger:    ledger,
		index: NewReplyIndex(cfg.ReplyIndexSize, func(op domain.OperatorID, req domain.RequesterID) bool {
			return ledger.IsOwnedBy(req, op)
		}),
		sessions:    NewSessionManager(ledger),
		broadcaster: NewBroadcaster(transport, cfg.BroadcastRate, cfg.BroadcastBurst, cfg.TransportTimeout, logger),
		logger:      logger,
		startedAt:   clock.Now().UTC(),
	}
}

func (r *Router) Ledger() *Ledger {
	return r.ledger
}

func (r *Router) Directory() *Directory {
	return r.directory
}

func (r *Router) Broadcaster() *Broadcaster {
	return r.broadcaster
}

func (r *Router) HandleMessage(ctx context.Context, msg domain.Message) error {
	if r.cfg.Roster.IsOperator(msg.From.ID) {
		return r.handleOperatorMessage(ctx, msg)
	}
	return r.handleRequesterMessage(ctx, msg)
}

func (r *Router) handleRequesterMessage(ctx context.Context, msg domain.Message) error {
	requesterID := domain.RequesterID(msg.From.ID)
	if r.directory.IsBanned(requesterID) {
		r.logger.Debug("dropped message from banned requester", "requester", requesterID)
		return nil
	}

	if r.directory.EnsureRegistered(ctx, msg.From) {
		requester, _ := r.directory.Get(requesterID)
		r.notifyController(ctx, newRequesterText(requester))
	}

	if name, _ := msg.Command(); name == "start" {
		_, err := r.sendText(ctx, msg.Chat, textWelcome, domain.SendOptions{})
		return err
	}

	owner, owned := r.ledger.OwnerOf(requesterID)
	r.acknowledge(ctx, msg, owned)
	if owned {
		return r.deliverToOwner(ctx, msg, owner)
	}
	return r.fanOut(ctx, msg)
}

// deliverToOwner tunnels a requester message to the operator holding the
// claim. An unreachable owner loses the claim and the requester is asked to
// resend, which then reaches every operator.
func (r *Router) deliverToOwner(ctx context.Context, msg domain.Message, owner domain.Claim) error {
	requesterID := owner.RequesterID
	err := r.deliverTicket(ctx, owner.OperatorID, msg, domain.ReleaseControl(labelRelease, requesterID), ownedTicketText())
	if err == nil {
		return nil
	}

	r.dropClaim(requesterID, owner.OperatorID, "owner unreachable")
	if _, sendErr := r.sendText(ctx, msg.Chat, textRetry, domain.SendOptions{ReplyTo: msg.Handle}); sendErr != nil {
		err = errors.Join(err, sendErr)
	}
	return err
}

// fanOut offers an unowned requester's message to every operator. Each copy is
// recorded in that operator's reply index. Failures are independent per
// operator.
func (r *Router) fanOut(ctx context.Context, msg domain.Message) error {
	requesterID := domain.RequesterID(msg.From.ID)
	requester, err := r.directory.Get(requesterID)
	if err != nil {
		requester = domain.RequesterFromSender(msg.From, msg.SentAt)
	}
	card := ticketText(requester)
	control := domain.ClaimControl(labelClaim, requesterID)

	operators := r.cfg.Roster.Operators
	errs := make([]error, len(operators))

	var g errgroup.Group
	g.SetLimit(r.cfg.FanoutConcurrency)
	for i, operator := range operators {
		g.Go(func() error {
			errs[i] = r.deliverTicket(ctx, operator, msg, control, card)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// deliverTicket forwards msg to operator and posts the card carrying control
// under it. Both handles resolve to the requester.
func (r *Router) deliverTicket(ctx context.Context, operator domain.OperatorID, msg domain.Message, control domain.Control, card string) error {
	requesterID := domain.RequesterID(msg.From.ID)

	handle, err := r.forward(ctx, operator.Chat(), msg)
	if err != nil {
		return err
	}
	r.index.Record(operator, handle, requesterID)

	cardHandle, err := r.sendText(ctx, operator.Chat(), card, domain.SendOptions{
		ReplyTo:  handle,
		Controls: []domain.Control{control},
	})
	if err != nil {
		r.logger.Warn("ticket card not delivered", "operator", operator, "requester", requesterID, "error", err)
		return nil
	}
	r.index.Record(operator, cardHandle, requesterID)

	return nil
}

// acknowledge confirms receipt to the requester. A fresh ticket gets a text
// receipt; follow-ups inside a claimed conversation only get a reaction.
func (r *Router) acknowledge(ctx context.Context, msg domain.Message, owned bool) {
	if owned {
		r.react(ctx, msg, receiptReaction)
		return
	}
	if _, err := r.sendText(ctx, msg.Chat, textReceived, domain.SendOptions{ReplyTo: msg.Handle}); err != nil {
		r.logger.Warn("receipt not delivered", "requester", msg.From.ID, "error", err)
	}
}

// dropClaim releases operator's claim and any draft tied to it after a
// delivery failure. A claim that already moved to someone else is left alone.
func (r *Router) dropClaim(requester domain.RequesterID, operator domain.OperatorID, reason string) {
	if _, err := r.ledger.Release(requester, operator); err != nil {
		return
	}
	r.sessions.DropRequester(requester)
	r.logger.Warn("claim released after delivery failure", "requester", requester, "operator", operator, "reason", reason)
}

func (r *Router) notifyController(ctx context.Context, text string) {
	if r.cfg.Roster.Controller == "" {
		return
	}
	if _, err := r.sendText(ctx, r.cfg.Roster.Controller.Chat(), text, domain.SendOptions{}); err != nil {
		r.logger.Warn("controller notification failed", "error", err)
	}
}

func (r *Router) requester(id domain.RequesterID) domain.Requester {
	requester, err := r.directory.Get(id)
	if err != nil {
		return domain.Requester{ID: id}
	}
	return requester
}

func (r *Router) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.cfg.TransportTimeout)
}

func (r *Router) forward(ctx context.Context, chat domain.ChatID, msg domain.Message) (domain.MessageHandle, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	handle, err := r.transport.Forward(ctx, chat, msg)
	if err != nil {
		return 0, &domain.DeliveryError{Chat: chat, Err: err}
	}
	return handle, nil
}

func (r *Router) copy(ctx context.Context, chat domain.ChatID, msg domain.Message) (domain.MessageHandle, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	handle, err := r.transport.Copy(ctx, chat, msg)
	if err != nil {
		return 0, &domain.DeliveryError{Chat: chat, Err: err}
	}
	return handle, nil
}

func (r *Router) sendText(ctx context.Context, chat domain.ChatID, text string, opts domain.SendOptions) (domain.MessageHandle, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	handle, err := r.transport.SendText(ctx, chat, text, opts)
	if err != nil {
		return 0, &domain.DeliveryError{Chat: chat, Err: err}
	}
	return handle, nil
}

// reply sends text back to the chat a message came from. Failures are logged
// only.
func (r *Router) reply(ctx context.Context, msg domain.Message, text string, controls ...domain.Control) {
	if _, err := r.sendText(ctx, msg.Chat, text, domain.SendOptions{ReplyTo: msg.Handle, Controls: controls}); err != nil {
		r.logger.Warn("reply not delivered", "chat", msg.Chat, "error", err)
	}
}

func (r *Router) editText(ctx context.Context, chat domain.ChatID, handle domain.MessageHandle, text string) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.transport.EditText(ctx, chat, handle, text); err != nil {
		r.logger.Warn("edit failed", "chat", chat, "handle", handle, "error", err)
	}
}

func (r *Router) answer(ctx context.Context, event domain.ControlEvent, text string, alert bool) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.transport.AnswerControl(ctx, event.ID, text, alert); err != nil {
		r.logger.Warn("control answer failed", "control", event.ID, "error", err)
	}
}

func (r *Router) typing(ctx context.Context, chat domain.ChatID) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.transport.Typing(ctx, chat); err != nil {
		r.logger.Debug("typing indicator failed", "chat", chat, "error", err)
	}
}

func (r *Router) react(ctx context.Context, msg domain.Message, emoji string) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.transport.React(ctx, msg, emoji); err != nil {
		r.logger.Debug("reaction failed", "chat", msg.Chat, "error", err)
	}
}

func requesterArg(args []string) (domain.RequesterID, error) {
	if len(args) == 0 || args[0] == "" {
		return "", fmt.Errorf("requester id required")
	}
	return domain.RequesterID(args[0]), nil
}
