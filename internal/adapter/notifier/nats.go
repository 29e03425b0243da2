package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/iho/bonusledger/internal/domain"
)

// SubjectPrefix is prepended to the account id to form the subject of a message.
const SubjectPrefix = "ledger.notifications."

type natsPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSTransport publishes messages on a per-account subject. The message id
// travels in the Nats-Msg-Id header so a JetStream stream drops redeliveries.
type NATSTransport struct {
	conn natsPublisher
}

// NewNATSTransport creates a new NATSTransport.
func NewNATSTransport(conn *nats.Conn) *NATSTransport {
	return &NATSTransport{conn: conn}
}

// Send publishes msg.
func (t *NATSTransport) Send(ctx context.Context, msg *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	m := nats.NewMsg(SubjectPrefix + msg.AccountID)
	m.Header.Set(nats.MsgIdHdr, msg.ID)
	m.Data = data

	if err := t.conn.PublishMsg(m); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
