package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/abdallah-zarea/savior-bot/internal/ports"
)

const (
	reconnectBase = time.Second
	reconnectCap  = 30 * time.Second
)

// ErrPoison marks an inbound delivery that can never be handled. Poison
// deliveries are acked and dropped.
var ErrPoison = errors.New("poison delivery")

// Run consumes inbound gateway events until ctx is cancelled, reconnecting
// with jittered backoff when the broker connection drops.
func (c *Client) Run(ctx context.Context, handler ports.InboundHandler) error {
	backoff := reconnectBase
	for {
		err := c.consume(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error("gateway consumer stopped", "error", err)

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(jitteredDelay(backoff, reconnectCap, 25)):
			}

			if err := c.reconnect(ctx); err != nil {
				c.logger.Warn("gateway reconnect failed", "error", err, "backoff", backoff)
				backoff = min(backoff*2, reconnectCap)
				continue
			}
			c.logger.Info("gateway reconnected")
			backoff = reconnectBase
			break
		}
	}
}

func (c *Client) consume(ctx context.Context, handler ports.InboundHandler) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	defer safeClose(ch)

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}
	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare gateway exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(c.cfg.InboundQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare inbound queue: %w", err)
	}
	if err := ch.QueueBind(c.cfg.InboundQueue, c.cfg.InboundKey, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind inbound queue: %w", err)
	}

	deliveries, err := ch.Consume(c.cfg.InboundQueue, c.cfg.Producer, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume inbound queue: %w", err)
	}
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	c.logger.Info("consuming gateway events", "queue", c.cfg.InboundQueue, "prefetch", c.cfg.Prefetch)

	// In-flight handlers finish on shutdown so acks and replies go out.
	handlerCtx := context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(c.cfg.Prefetch)
	defer g.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			return fmt.Errorf("broker connection closed: %v", amqpErr)
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("inbound deliveries closed")
			}
			g.Go(func() error {
				dispatch(handlerCtx, handler, c.logger, d)
				return nil
			})
		}
	}
}

// dispatch hands one delivery to the handler and always acks it. Handler
// failures are the router's to report; redelivery would only repeat them.
func dispatch(ctx context.Context, handler ports.InboundHandler, log warner, d amqp.Delivery) {
	err := deliver(ctx, handler, d)
	switch {
	case errors.Is(err, ErrPoison):
		log.Warn("dropping poison delivery", "message_id", d.MessageId, "error", err)
	case err != nil:
		log.Warn("inbound event failed", "message_id", d.MessageId, "error", err)
	}

	if ackErr := d.Ack(false); ackErr != nil {
		log.Warn("ack failed", "message_id", d.MessageId, "error", ackErr)
	}
}

func deliver(ctx context.Context, handler ports.InboundHandler, d amqp.Delivery) error {
	var env Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrPoison, err)
	}

	kind := env.Meta.Type
	if kind == "" {
		kind = d.Type
	}

	switch kind {
	case TypeMessage:
		var data MessageData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return fmt.Errorf("%w: %v", ErrPoison, err)
		}
		if err := data.validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrPoison, err)
		}
		return handler.HandleMessage(ctx, data.toDomain())

	case TypeControl:
		var data ControlData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return fmt.Errorf("%w: %v", ErrPoison, err)
		}
		if err := data.validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrPoison, err)
		}
		return handler.HandleControl(ctx, data.toDomain())

	default:
		return fmt.Errorf("%w: unknown event type %q", ErrPoison, kind)
	}
}

type warner interface {
	Warn(msg string, args ...any)
}

// jitteredDelay spreads reconnect attempts by up to jitterPct percent either
// way.
func jitteredDelay(base, maxDelay time.Duration, jitterPct int) time.Duration {
	if base > maxDelay {
		base = maxDelay
	}
	if jitterPct <= 0 || base <= 0 {
		return base
	}
	span := int64(base) * int64(jitterPct) / 100
	if span == 0 {
		return base
	}
	return base + time.Duration(rand.Int64N(2*span+1)-span)
}
