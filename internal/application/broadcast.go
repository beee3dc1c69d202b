package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
	"github.com/abdallah-zarea/savior-bot/internal/ports"
	"golang.org/x/time/rate"
)

const (
	DefaultBroadcastRate  = 20
	DefaultBroadcastBurst = 1
)

// BroadcastPayload is either plain text or an existing message copied as is.
type BroadcastPayload struct {
	Text   string
	Source *domain.Message
}

func (p BroadcastPayload) Empty() bool {
	return p.Source == nil && p.Text == ""
}

type BroadcastReport struct {
	Delivered int
	Failed    int
}

func (r BroadcastReport) Total() int {
	return r.Delivered + r.Failed
}

// Broadcaster sends one payload to many requesters, paced by a token bucket.
type Broadcaster struct {
	transport ports.Transport
	limiter   *rate.Limiter
	timeout   time.Duration
	logger    *slog.Logger
}

func NewBroadcaster(transport ports.Transport, perSecond float64, burst int, timeout time.Duration, logger *slog.Logger) *Broadcaster {
	if perSecond <= 0 {
		perSecond = DefaultBroadcastRate
	}
	if burst <= 0 {
		burst = DefaultBroadcastBurst
	}
	if timeout <= 0 {
		timeout = DefaultTransportTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Broadcaster{
		transport: transport,
		limiter:   rate.NewLimiter(rate.Limit(perSecond), burst),
		timeout:   timeout,
		logger:    logger,
	}
}

// Broadcast delivers sequentially. Per-recipient failures are counted, not
// returned; only cancellation of ctx stops the run early.
func (b *Broadcaster) Broadcast(ctx context.Context, recipients []domain.RequesterID, payload BroadcastPayload, progress func(BroadcastReport)) (BroadcastReport, error) {
	var report BroadcastReport
	if payload.Empty() {
		return report, domain.ErrEmptyComposition
	}

	for _, recipient := range recipients {
		if err := b.limiter.Wait(ctx); err != nil {
			return report, err
		}

		if err := b.deliver(ctx, recipient.Chat(), payload); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Failed++
			b.logger.Warn("broadcast delivery failed", "requester", recipient, "error", err)
		} else {
			report.Delivered++
		}

		if progress != nil {
			progress(report)
		}
	}

	return report, nil
}

func (b *Broadcaster) deliver(ctx context.Context, chat domain.ChatID, payload BroadcastPayload) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var err error
	if payload.Source != nil {
		_, err = b.transport.Copy(ctx, chat, *payload.Source)
	} else {
		_, err = b.transport.SendText(ctx, chat, payload.Text, domain.SendOptions{})
	}
	if err != nil {
		return &domain.DeliveryError{Chat: chat, Err: err}
	}
	return nil
}
