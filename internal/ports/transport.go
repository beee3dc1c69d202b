package ports

import (
	"context"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

// Transport is the external messaging gateway. Every call reports failure
// explicitly; callers never assume a delivery happened without a nil error.
type Transport interface {
	// Forward relays msg to chat with the transport's "forwarded" marker.
	Forward(ctx context.Context, chat domain.ChatID, msg domain.Message) (domain.MessageHandle, error)
	// Copy relays msg to chat as if the bot authored it.
	Copy(ctx context.Context, chat domain.ChatID, msg domain.Message) (domain.MessageHandle, error)
	SendText(ctx context.Context, chat domain.ChatID, text string, opts domain.SendOptions) (domain.MessageHandle, error)
	EditText(ctx context.Context, chat domain.ChatID, handle domain.MessageHandle, text string) error
	AnswerControl(ctx context.Context, controlID string, text string, alert bool) error
	React(ctx context.Context, msg domain.Message, emoji string) error
	Typing(ctx context.Context, chat domain.ChatID) error
}
