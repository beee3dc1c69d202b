package amqp

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange        = "savior.gateway"
	DefaultInboundQueue    = "savior.inbound"
	DefaultInboundKey      = "gateway.inbound.#"
	DefaultCommandKey      = "gateway.command.v1"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultPrefetch        = 16
	DefaultPublishPoolSize = 8
	defaultConnTimeout     = 30 * time.Second
	defaultPoolRetryDelay  = 50 * time.Millisecond
)

type Config struct {
	URL             string
	Exchange        string
	InboundQueue    string
	InboundKey      string
	CommandKey      string
	RequestTimeout  time.Duration
	Prefetch        int
	PublishPoolSize int
	ConnTimeout     time.Duration
	Producer        string
	Dialer          func(ctx context.Context, url string) (*amqp.Connection, error)
}

func (c Config) withDefaults() Config {
	if c.Exchange == "" {
		c.Exchange = DefaultExchange
	}
	if c.InboundQueue == "" {
		c.InboundQueue = DefaultInboundQueue
	}
	if c.InboundKey == "" {
		c.InboundKey = DefaultInboundKey
	}
	if c.CommandKey == "" {
		c.CommandKey = DefaultCommandKey
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Prefetch <= 0 {
		c.Prefetch = DefaultPrefetch
	}
	if c.PublishPoolSize <= 0 {
		c.PublishPoolSize = DefaultPublishPoolSize
	}
	if c.ConnTimeout <= 0 {
		c.ConnTimeout = defaultConnTimeout
	}
	if c.Producer == "" {
		c.Producer = "savior"
	}
	if c.Dialer == nil {
		timeout := c.ConnTimeout
		c.Dialer = func(_ context.Context, url string) (*amqp.Connection, error) {
			return amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
		}
	}
	return c
}
