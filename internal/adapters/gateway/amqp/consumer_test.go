package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

type fakeAcknowledger struct {
	acked  []uint64
	nacked []uint64
}

func (a *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, _ bool, _ bool) error {
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, _ bool) error {
	a.nacked = append(a.nacked, tag)
	return nil
}

type fakeHandler struct {
	messages []domain.Message
	controls []domain.ControlEvent
	err      error
}

func (h *fakeHandler) HandleMessage(_ context.Context, msg domain.Message) error {
	h.messages = append(h.messages, msg)
	return h.err
}

func (h *fakeHandler) HandleControl(_ context.Context, event domain.ControlEvent) error {
	h.controls = append(h.controls, event)
	return h.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func delivery(t *testing.T, ack amqp.Acknowledger, kind string, data any) amqp.Delivery {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	body, err := json.Marshal(Envelope{Meta: Meta{ID: "evt-1", Type: kind, Time: time.Now()}, Data: raw})
	require.NoError(t, err)

	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, MessageId: "evt-1", Body: body}
}

func TestDispatchMessage(t *testing.T) {
	ack := &fakeAcknowledger{}
	handler := &fakeHandler{}

	d := delivery(t, ack, TypeMessage, MessageData{
		Chat:      "req-1",
		MessageID: 42,
		From:      SenderData{ID: "req-1", DisplayName: "Sam"},
		Kind:      "photo",
		Caption:   "look",
		ReplyTo:   40,
	})
	dispatch(context.Background(), handler, discardLogger(), d)

	require.Len(t, handler.messages, 1)
	msg := handler.messages[0]
	assert.Equal(t, domain.ChatID("req-1"), msg.Chat)
	assert.Equal(t, domain.MessageHandle(42), msg.Handle)
	assert.Equal(t, domain.ContentPhoto, msg.Content.Kind)
	assert.Equal(t, "look", msg.Content.Caption)
	assert.Equal(t, domain.MessageHandle(40), msg.ReplyTo)
	assert.Equal(t, "Sam", msg.From.DisplayName)
	assert.Equal(t, []uint64{7}, ack.acked)
}

func TestDispatchControl(t *testing.T) {
	ack := &fakeAcknowledger{}
	handler := &fakeHandler{}

	d := delivery(t, ack, TypeControl, ControlData{
		CallbackID: "cb-9",
		From:       SenderData{ID: "op-1"},
		Chat:       "op-1",
		MessageID:  3,
		Data:       "claim:req-1",
	})
	dispatch(context.Background(), handler, discardLogger(), d)

	require.Len(t, handler.controls, 1)
	assert.Equal(t, "cb-9", handler.controls[0].ID)
	assert.Equal(t, "claim:req-1", handler.controls[0].Data)
	assert.Equal(t, []uint64{7}, ack.acked)
}

func TestDispatchAcksHandlerFailures(t *testing.T) {
	ack := &fakeAcknowledger{}
	handler := &fakeHandler{err: errors.New("transport down")}

	d := delivery(t, ack, TypeMessage, MessageData{Chat: "req-1", MessageID: 1, From: SenderData{ID: "req-1"}, Kind: "text", Text: "hi"})
	dispatch(context.Background(), handler, discardLogger(), d)

	assert.Len(t, handler.messages, 1)
	assert.Equal(t, []uint64{7}, ack.acked)
	assert.Empty(t, ack.nacked)
}

func TestDeliverRejectsPoison(t *testing.T) {
	handler := &fakeHandler{}

	tests := []struct {
		name string
		d    amqp.Delivery
	}{
		{name: "not json", d: amqp.Delivery{Body: []byte("{")}},
		{name: "unknown type", d: delivery(t, nil, "gateway.unknown.v1", map[string]string{})},
		{name: "message without sender", d: delivery(t, nil, TypeMessage, MessageData{Chat: "req-1", MessageID: 1})},
		{name: "control without data", d: delivery(t, nil, TypeControl, ControlData{CallbackID: "cb", From: SenderData{ID: "op-1"}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := deliver(context.Background(), handler, tt.d)
			assert.ErrorIs(t, err, ErrPoison)
		})
	}
	assert.Empty(t, handler.messages)
	assert.Empty(t, handler.controls)
}

func TestDeliverFallsBackToDeliveryType(t *testing.T) {
	handler := &fakeHandler{}

	raw, err := json.Marshal(MessageData{Chat: "req-1", MessageID: 1, From: SenderData{ID: "req-1"}, Kind: "text", Text: "hi"})
	require.NoError(t, err)
	body, err := json.Marshal(Envelope{Meta: Meta{ID: "evt-2"}, Data: raw})
	require.NoError(t, err)

	require.NoError(t, deliver(context.Background(), handler, amqp.Delivery{Type: TypeMessage, Body: body}))
	require.Len(t, handler.messages, 1)
	assert.Equal(t, "hi", handler.messages[0].Content.Text)
}

func TestJitteredDelayStaysInBounds(t *testing.T) {
	for range 100 {
		d := jitteredDelay(time.Second, 30*time.Second, 25)
		assert.GreaterOrEqual(t, d, 750*time.Millisecond)
		assert.LessOrEqual(t, d, 1250*time.Millisecond)
	}
	assert.Equal(t, 30*time.Second, jitteredDelay(time.Minute, 30*time.Second, 0))
}
