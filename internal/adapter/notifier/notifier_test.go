package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bonusledger/internal/domain"
)

func testMessage() *domain.Message {
	return &domain.Message{
		ID:        "0b8f3c1e-7d0c-4a8e-9d1f-2f3b8c9e1a77",
		Type:      string(domain.NotificationEntryAdded),
		AccountID: "acc-1",
		ChatID:    42,
		Locale:    "en",
		Text:      "+100 money (document D-1). Balance: 100",
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

type recordingPublisher struct {
	msgs []*nats.Msg
	err  error
}

func (p *recordingPublisher) PublishMsg(m *nats.Msg) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, m)
	return nil
}

func TestNATSTransportSend(t *testing.T) {
	pub := &recordingPublisher{}
	transport := &NATSTransport{conn: pub}

	require.NoError(t, transport.Send(context.Background(), testMessage()))
	require.Len(t, pub.msgs, 1)

	m := pub.msgs[0]
	assert.Equal(t, "ledger.notifications.acc-1", m.Subject)
	assert.Equal(t, testMessage().ID, m.Header.Get(nats.MsgIdHdr))

	var decoded domain.Message
	require.NoError(t, json.Unmarshal(m.Data, &decoded))
	assert.Equal(t, testMessage().Text, decoded.Text)
}

func TestNATSTransportErrors(t *testing.T) {
	transport := &NATSTransport{conn: &recordingPublisher{err: nats.ErrConnectionClosed}}
	err := transport.Send(context.Background(), testMessage())
	require.ErrorIs(t, err, nats.ErrConnectionClosed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, (&NATSTransport{conn: &recordingPublisher{}}).Send(ctx, testMessage()), context.Canceled)
}

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaTransportSend(t *testing.T) {
	writer := &recordingWriter{}
	transport := &KafkaTransport{writer: writer}

	require.NoError(t, transport.Send(context.Background(), testMessage()))
	require.Len(t, writer.msgs, 1)

	m := writer.msgs[0]
	assert.Equal(t, []byte("acc-1"), m.Key)
	assert.Equal(t, testMessage().CreatedAt, m.Time)
	assert.Equal(t, "message-id", m.Headers[0].Key)

	require.NoError(t, transport.Close())
	assert.True(t, writer.closed)
}

func TestKafkaTransportError(t *testing.T) {
	transport := &KafkaTransport{writer: &recordingWriter{err: errors.New("broker unavailable")}}
	err := transport.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"k1:9092", "k2:9092"}, "ledger.notifications", zerolog.Nop())
	assert.Equal(t, "ledger.notifications", w.Topic)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}

func TestLogTransportSend(t *testing.T) {
	var buf bytes.Buffer
	transport := NewLogTransport(zerolog.New(&buf))

	require.NoError(t, transport.Send(context.Background(), testMessage()))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "notification", line["message"])
	assert.Equal(t, "acc-1", line["account_id"])
	assert.Equal(t, float64(42), line["chat_id"])
}
