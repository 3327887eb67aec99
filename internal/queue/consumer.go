package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/datatypes"
)

// AuditStore persists consumed events.
type AuditStore interface {
	Insert(ctx context.Context, l *model.AuditLog) error
}

// StartAuditConsumer connects to RabbitMQ, declares the audit queue and
// writes each event to store.  It reconnects with backoff until ctx is
// cancelled, then returns ctx.Err().  Bad messages are rejected without
// requeue.
func StartAuditConsumer(ctx context.Context, url string, store AuditStore) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("audit-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, store)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("audit-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, store AuditStore) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("audit-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(AuditQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(AuditQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(ctx, store, d.Body); err != nil {
				log.Printf("audit-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event body and stores it.
func HandleMessage(ctx context.Context, store AuditStore, body []byte) error {
	var ev AuditEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Action == "" {
		return errors.New("event without action")
	}
	entry := ToAuditLog(ev)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return store.Insert(ctx, &entry)
}

// ToAuditLog converts an event to its table row.
func ToAuditLog(ev AuditEvent) model.AuditLog {
	l := model.AuditLog{
		Action: ev.Action,
		Role:   ev.Role,
		Method: ev.Method,
		Path:   ev.Path,
		Status: ev.Status,
		At:     ev.At.UTC(),
	}
	if l.At.IsZero() {
		l.At = time.Now().UTC()
	}
	if ev.UserID != 0 {
		id := ev.UserID
		l.UserID = &id
	}
	if ev.ResourceID != "" {
		rid := ev.ResourceID
		l.ResourceID = &rid
	}
	if len(ev.Details) > 0 {
		if b, err := json.Marshal(ev.Details); err == nil {
			l.Details = datatypes.JSON(b)
		}
	}
	return l
}
