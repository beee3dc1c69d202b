package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Client speaks to the messaging gateway over RabbitMQ. Outbound commands are
// request/reply: each publish carries ReplyTo and CorrelationId and waits on
// the client's exclusive reply queue.
type Client struct {
	cfg    Config
	logger *slog.Logger

	mu         sync.RWMutex
	conn       *amqp.Connection
	pool       *channelPool
	replyCh    *amqp.Channel
	replyQueue string

	pendingMu sync.Mutex
	pending   map[string]chan ResultData
}

func Dial(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	const op = "gateway.Dial"

	cfg = cfg.withDefaults()
	if cfg.URL == "" {
		return nil, errors.New("gateway url is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		cfg:     cfg,
		logger:  logger,
		pending: map[string]chan ResultData{},
	}

	logger.With("op", op).Info("connecting to gateway broker", slog.String("host", brokerHost(cfg.URL)))
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	logger.With("op", op).Info("gateway client ready", slog.String("reply_queue", c.replyQueue))

	return c, nil
}

func (c *Client) connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnTimeout)
	defer cancel()

	conn, err := c.cfg.Dialer(dialCtx, c.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial gateway broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open reply channel: %w", err)
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("declare gateway exchange: %w", err)
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("declare reply queue: %w", err)
	}

	replies, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("consume reply queue: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.pool = newChannelPool(conn, c.cfg.PublishPoolSize, defaultPoolRetryDelay)
	c.replyCh = ch
	c.replyQueue = queue.Name
	c.mu.Unlock()

	go c.readReplies(replies)

	return nil
}

func (c *Client) reconnect(ctx context.Context) error {
	c.closeConn()
	return c.connect(ctx)
}

func (c *Client) readReplies(replies <-chan amqp.Delivery) {
	for d := range replies {
		c.resolve(d)
	}
}

// resolve hands a reply to the call waiting on its correlation id. Late
// replies for calls that already gave up are dropped.
func (c *Client) resolve(d amqp.Delivery) {
	var env GenericEnvelope[ResultData]
	if err := json.Unmarshal(d.Body, &env); err != nil {
		c.logger.Warn("undecodable gateway reply", "correlation_id", d.CorrelationId, "error", err)
		return
	}

	id := d.CorrelationId
	if id == "" {
		id = env.Meta.CorrelationID
	}

	c.pendingMu.Lock()
	wait, ok := c.pending[id]
	delete(c.pending, id)
	c.pendingMu.Unlock()

	if !ok {
		c.logger.Debug("late gateway reply dropped", "correlation_id", id)
		return
	}
	wait <- env.Data
}

// Call publishes one command and waits for its result, bounded by the
// configured request timeout.
func (c *Client) Call(ctx context.Context, cmd CommandData) (ResultData, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	id := uuid.NewString()
	env := GenericEnvelope[CommandData]{
		Meta: Meta{ID: id, CorrelationID: id, Type: TypeCommand, Time: time.Now().UTC()},
		Data: cmd,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return ResultData{}, fmt.Errorf("marshal %s command: %w", cmd.Op, err)
	}

	wait := make(chan ResultData, 1)
	c.pendingMu.Lock()
	c.pending[id] = wait
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	c.mu.RLock()
	pool, replyQueue := c.pool, c.replyQueue
	c.mu.RUnlock()

	ch, err := pool.borrow(ctx)
	if err != nil {
		return ResultData{}, fmt.Errorf("borrow channel: %w", err)
	}
	err = ch.PublishWithContext(ctx, c.cfg.Exchange, c.cfg.CommandKey, false, false, amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		MessageId:     id,
		CorrelationId: id,
		ReplyTo:       replyQueue,
		Type:          TypeCommand,
		Timestamp:     env.Meta.Time,
		AppId:         c.cfg.Producer,
		Expiration:    strconv.FormatInt(c.cfg.RequestTimeout.Milliseconds(), 10),
	})
	pool.giveBack(ch)
	if err != nil {
		return ResultData{}, fmt.Errorf("publish %s command: %w", cmd.Op, err)
	}

	select {
	case result := <-wait:
		return result, result.Err()
	case <-ctx.Done():
		return ResultData{}, fmt.Errorf("await %s result: %w", cmd.Op, ctx.Err())
	}
}

func (c *Client) Close() {
	c.closeConn()
}

func (c *Client) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		c.pool.close()
	}
	if c.replyCh != nil {
		_ = safeClose(c.replyCh)
	}
	if c.conn != nil && !c.conn.IsClosed() {
		_ = c.conn.Close()
	}
}

func brokerHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u == nil {
		return ""
	}
	return u.Host
}
