package amqp

import (
	"context"
	"fmt"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
	"github.com/abdallah-zarea/savior-bot/internal/ports"
)

// Caller carries one gateway command and returns its result.
type Caller interface {
	Call(ctx context.Context, cmd CommandData) (ResultData, error)
}

// Transport maps ports.Transport onto gateway commands.
type Transport struct {
	caller Caller
}

var _ ports.Transport = (*Transport)(nil)

func NewTransport(caller Caller) *Transport {
	return &Transport{caller: caller}
}

func (t *Transport) Forward(ctx context.Context, chat domain.ChatID, msg domain.Message) (domain.MessageHandle, error) {
	return t.relay(ctx, OpForward, chat, msg)
}

func (t *Transport) Copy(ctx context.Context, chat domain.ChatID, msg domain.Message) (domain.MessageHandle, error) {
	return t.relay(ctx, OpCopy, chat, msg)
}

func (t *Transport) relay(ctx context.Context, op Op, chat domain.ChatID, msg domain.Message) (domain.MessageHandle, error) {
	result, err := t.caller.Call(ctx, CommandData{
		Op:        op,
		Chat:      string(chat),
		FromChat:  string(msg.Chat),
		MessageID: int64(msg.Handle),
	})
	if err != nil {
		return 0, fmt.Errorf("%s message %d: %w", op, msg.Handle, err)
	}
	return domain.MessageHandle(result.MessageID), nil
}

func (t *Transport) SendText(ctx context.Context, chat domain.ChatID, text string, opts domain.SendOptions) (domain.MessageHandle, error) {
	result, err := t.caller.Call(ctx, CommandData{
		Op:       OpSendText,
		Chat:     string(chat),
		Text:     text,
		ReplyTo:  int64(opts.ReplyTo),
		Controls: controlButtons(opts.Controls),
	})
	if err != nil {
		return 0, fmt.Errorf("send text: %w", err)
	}
	return domain.MessageHandle(result.MessageID), nil
}

func (t *Transport) EditText(ctx context.Context, chat domain.ChatID, handle domain.MessageHandle, text string) error {
	_, err := t.caller.Call(ctx, CommandData{
		Op:        OpEditText,
		Chat:      string(chat),
		MessageID: int64(handle),
		Text:      text,
	})
	if err != nil {
		return fmt.Errorf("edit message %d: %w", handle, err)
	}
	return nil
}

func (t *Transport) AnswerControl(ctx context.Context, controlID string, text string, alert bool) error {
	_, err := t.caller.Call(ctx, CommandData{
		Op:         OpAnswerControl,
		CallbackID: controlID,
		Text:       text,
		Alert:      alert,
	})
	if err != nil {
		return fmt.Errorf("answer control: %w", err)
	}
	return nil
}

func (t *Transport) React(ctx context.Context, msg domain.Message, emoji string) error {
	_, err := t.caller.Call(ctx, CommandData{
		Op:        OpReact,
		Chat:      string(msg.Chat),
		MessageID: int64(msg.Handle),
		Emoji:     emoji,
	})
	if err != nil {
		return fmt.Errorf("react to message %d: %w", msg.Handle, err)
	}
	return nil
}

func (t *Transport) Typing(ctx context.Context, chat domain.ChatID) error {
	if _, err := t.caller.Call(ctx, CommandData{Op: OpTyping, Chat: string(chat)}); err != nil {
		return fmt.Errorf("typing: %w", err)
	}
	return nil
}
