package ports

import (
	"context"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

// InboundHandler receives events from the gateway. Calls may arrive
// concurrently.
type InboundHandler interface {
	HandleMessage(ctx context.Context, msg domain.Message) error
	HandleControl(ctx context.Context, event domain.ControlEvent) error
}
