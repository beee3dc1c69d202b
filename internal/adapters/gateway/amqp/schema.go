package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

const (
	TypeMessage = "gateway.message.v1"
	TypeControl = "gateway.control.v1"
	TypeCommand = "gateway.command.v1"
	TypeResult  = "gateway.result.v1"
)

type Meta struct {
	ID            string    `json:"id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Type          string    `json:"type"`
	Time          time.Time `json:"time"`
}

type Envelope struct {
	Meta Meta            `json:"meta"`
	Data json.RawMessage `json:"data"`
}

type GenericEnvelope[T any] struct {
	Meta Meta `json:"meta"`
	Data T    `json:"data"`
}

type SenderData struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Handle      string `json:"handle,omitempty"`
}

type MessageData struct {
	Chat      string     `json:"chat"`
	MessageID int64      `json:"message_id"`
	From      SenderData `json:"from"`
	Kind      string     `json:"kind"`
	Text      string     `json:"text,omitempty"`
	Caption   string     `json:"caption,omitempty"`
	FileRef   string     `json:"file_ref,omitempty"`
	ReplyTo   int64      `json:"reply_to,omitempty"`
	SentAt    time.Time  `json:"sent_at"`
}

type ControlData struct {
	CallbackID string     `json:"callback_id"`
	From       SenderData `json:"from"`
	Chat       string     `json:"chat"`
	MessageID  int64      `json:"message_id"`
	Data       string     `json:"data"`
}

type Op string

const (
	OpForward       Op = "forward"
	OpCopy          Op = "copy"
	OpSendText      Op = "send_text"
	OpEditText      Op = "edit_text"
	OpAnswerControl Op = "answer_control"
	OpReact         Op = "react"
	OpTyping        Op = "typing"
)

type ControlButton struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

type CommandData struct {
	Op         Op              `json:"op"`
	Chat       string          `json:"chat,omitempty"`
	FromChat   string          `json:"from_chat,omitempty"`
	MessageID  int64           `json:"message_id,omitempty"`
	Text       string          `json:"text,omitempty"`
	ReplyTo    int64           `json:"reply_to,omitempty"`
	Controls   []ControlButton `json:"controls,omitempty"`
	Emoji      string          `json:"emoji,omitempty"`
	CallbackID string          `json:"callback_id,omitempty"`
	Alert      bool            `json:"alert,omitempty"`
}

type ResultError struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type ResultData struct {
	MessageID int64        `json:"message_id,omitempty"`
	Error     *ResultError `json:"error,omitempty"`
}

// RemoteError is a command the gateway accepted but could not carry out.
type RemoteError struct {
	Code    string
	Details string
}

func (e *RemoteError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("gateway error %s", e.Code)
	}
	return fmt.Sprintf("gateway error %s: %s", e.Code, e.Details)
}

func (r ResultData) Err() error {
	if r.Error == nil {
		return nil
	}
	return &RemoteError{Code: r.Error.Code, Details: r.Error.Details}
}

func (d SenderData) toDomain() domain.Sender {
	return domain.Sender{ID: d.ID, DisplayName: d.DisplayName, Handle: d.Handle}
}

func (d MessageData) validate() error {
	if d.Chat == "" || d.From.ID == "" || d.MessageID == 0 {
		return fmt.Errorf("message requires chat, from.id and message_id")
	}
	return nil
}

func (d MessageData) toDomain() domain.Message {
	return domain.Message{
		Chat:   domain.ChatID(d.Chat),
		Handle: domain.MessageHandle(d.MessageID),
		From:   d.From.toDomain(),
		Content: domain.Content{
			Kind:    domain.ParseContentKind(d.Kind),
			Text:    d.Text,
			Caption: d.Caption,
			FileRef: d.FileRef,
		},
		ReplyTo: domain.MessageHandle(d.ReplyTo),
		SentAt:  d.SentAt,
	}
}

func (d ControlData) validate() error {
	if d.CallbackID == "" || d.From.ID == "" || d.Data == "" {
		return fmt.Errorf("control requires callback_id, from.id and data")
	}
	return nil
}

func (d ControlData) toDomain() domain.ControlEvent {
	return domain.ControlEvent{
		ID:     d.CallbackID,
		From:   d.From.toDomain(),
		Chat:   domain.ChatID(d.Chat),
		Handle: domain.MessageHandle(d.MessageID),
		Data:   d.Data,
	}
}

func controlButtons(controls []domain.Control) []ControlButton {
	if len(controls) == 0 {
		return nil
	}
	out := make([]ControlButton, 0, len(controls))
	for _, control := range controls {
		out = append(out, ControlButton{Label: control.Label, Data: control.Data()})
	}
	return out
}
