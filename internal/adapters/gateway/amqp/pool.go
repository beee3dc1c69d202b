package amqp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	errPoolClosed = errors.New("channel pool closed")
	errConnClosed = errors.New("amqp connection closed")
)

// channelPool keeps a bounded number of publishing channels alive.
// Invariant: len(permits) == total channels (idle + borrowed) <= capacity.
// stateMu orders sends on pool against close(pool).
type channelPool struct {
	conn       *amqp.Connection
	pool       chan *amqp.Channel
	retryDelay time.Duration

	stateMu sync.RWMutex
	closed  atomic.Bool
	newChMu sync.Mutex
	permits chan struct{}
}

func newChannelPool(conn *amqp.Connection, capacity int, retryDelay time.Duration) *channelPool {
	if capacity <= 0 {
		capacity = DefaultPublishPoolSize
	}
	if retryDelay <= 0 {
		retryDelay = defaultPoolRetryDelay
	}
	return &channelPool{
		conn:       conn,
		pool:       make(chan *amqp.Channel, capacity),
		retryDelay: retryDelay,
		permits:    make(chan struct{}, capacity),
	}
}

func (cp *channelPool) borrow(ctx context.Context) (*amqp.Channel, error) {
	if cp.closed.Load() {
		return nil, errPoolClosed
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case ch, ok := <-cp.pool:
			if !ok {
				return nil, errPoolClosed
			}
			if cp.conn.IsClosed() || ch.IsClosed() {
				_ = safeClose(ch)
				nch, err := cp.newChannel()
				if err != nil {
					<-cp.permits
					return nil, err
				}
				return nch, nil
			}
			return ch, nil

		default:
			if cp.conn.IsClosed() {
				return nil, errConnClosed
			}
			select {
			case cp.permits <- struct{}{}:
				nch, err := cp.newChannel()
				if err != nil {
					<-cp.permits
					return nil, err
				}
				return nch, nil

			case <-ctx.Done():
				return nil, ctx.Err()

			case <-time.After(cp.retryDelay):
			}
		}
	}
}

func (cp *channelPool) giveBack(ch *amqp.Channel) {
	if ch == nil {
		return
	}

	cp.stateMu.RLock()
	defer cp.stateMu.RUnlock()

	if cp.closed.Load() || cp.conn.IsClosed() || ch.IsClosed() {
		_ = safeClose(ch)
		cp.releasePermit()
		return
	}
	select {
	case cp.pool <- ch:
	default:
		_ = safeClose(ch)
		cp.releasePermit()
	}
}

func (cp *channelPool) close() {
	cp.stateMu.Lock()
	if cp.closed.Swap(true) {
		cp.stateMu.Unlock()
		return
	}
	close(cp.pool)
	cp.stateMu.Unlock()

	for ch := range cp.pool {
		_ = safeClose(ch)
		cp.releasePermit()
	}
}

func (cp *channelPool) releasePermit() {
	select {
	case <-cp.permits:
	default:
	}
}

func (cp *channelPool) newChannel() (*amqp.Channel, error) {
	cp.newChMu.Lock()
	defer cp.newChMu.Unlock()
	if cp.conn.IsClosed() {
		return nil, errConnClosed
	}
	return cp.conn.Channel()
}

func safeClose(ch *amqp.Channel) error {
	if ch == nil {
		return nil
	}
	defer func() { _ = recover() }()
	return ch.Close()
}
