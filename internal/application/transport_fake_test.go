package application

import (
	"context"
	"sync"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

type transportCall struct {
	Op      string
	Chat    domain.ChatID
	Text    string
	Handle  domain.MessageHandle
	Source  domain.MessageHandle
	Options domain.SendOptions
	Alert   bool
}

// recordingTransport hands out increasing handles and remembers every call.
// fail decides per call whether it errors.
type recordingTransport struct {
	mu    sync.Mutex
	next  domain.MessageHandle
	calls []transportCall
	fail  func(call transportCall) error
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{next: 1000}
}

func (f *recordingTransport) record(call transportCall) (domain.MessageHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail != nil {
		if err := f.fail(call); err != nil {
			call.Handle = 0
			f.calls = append(f.calls, call)
			return 0, err
		}
	}

	f.next++
	if call.Handle == 0 {
		call.Handle = f.next
	}
	f.calls = append(f.calls, call)
	return call.Handle, nil
}

func (f *recordingTransport) Forward(_ context.Context, chat domain.ChatID, msg domain.Message) (domain.MessageHandle, error) {
	return f.record(transportCall{Op: "forward", Chat: chat, Source: msg.Handle})
}

func (f *recordingTransport) Copy(_ context.Context, chat domain.ChatID, msg domain.Message) (domain.MessageHandle, error) {
	return f.record(transportCall{Op: "copy", Chat: chat, Source: msg.Handle})
}

func (f *recordingTransport) SendText(_ context.Context, chat domain.ChatID, text string, opts domain.SendOptions) (domain.MessageHandle, error) {
	return f.record(transportCall{Op: "send_text", Chat: chat, Text: text, Options: opts})
}

func (f *recordingTransport) EditText(_ context.Context, chat domain.ChatID, handle domain.MessageHandle, text string) error {
	_, err := f.record(transportCall{Op: "edit_text", Chat: chat, Handle: handle, Text: text})
	return err
}

func (f *recordingTransport) AnswerControl(_ context.Context, controlID string, text string, alert bool) error {
	_, err := f.record(transportCall{Op: "answer_control", Chat: domain.ChatID(controlID), Text: text, Alert: alert})
	return err
}

func (f *recordingTransport) React(_ context.Context, msg domain.Message, emoji string) error {
	_, err := f.record(transportCall{Op: "react", Chat: msg.Chat, Source: msg.Handle, Text: emoji})
	return err
}

func (f *recordingTransport) Typing(_ context.Context, chat domain.ChatID) error {
	_, err := f.record(transportCall{Op: "typing", Chat: chat})
	return err
}

// find returns the calls matching op and chat, in order.
func (f *recordingTransport) find(op string, chat domain.ChatID) []transportCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []transportCall
	for _, call := range f.calls {
		if call.Op == op && call.Chat == chat {
			out = append(out, call)
		}
	}
	return out
}

func (f *recordingTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *recordingTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
