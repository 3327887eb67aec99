// Package service holds outbound integrations used by handlers: the
// RabbitMQ audit publisher and the SMTP mailer.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/queue"
	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrBrokerDisabled is returned by Publish when no broker URL is configured.
	ErrBrokerDisabled = errors.New("audit broker not configured")
	// ErrAuditBacklog is returned by Publish when the outbound buffer is full.
	ErrAuditBacklog = errors.New("audit backlog full")
)

const (
	auditBacklog     = 256
	auditDialTimeout = 5 * time.Second
	auditSendTimeout = 5 * time.Second
)

// AuditPublisher queues audit events in memory and delivers them to the
// admin.audit queue from a single worker holding one broker connection.
// Publish never blocks; Run does the delivery.
type AuditPublisher struct {
	URL    string
	Log    *log.Logger
	events chan queue.AuditEvent

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAuditPublisher(url string) *AuditPublisher {
	return newAuditPublisher(url, auditBacklog)
}

func newAuditPublisher(url string, backlog int) *AuditPublisher {
	return &AuditPublisher{URL: url, Log: log.Default(), events: make(chan queue.AuditEvent, backlog)}
}

// Publish hands ev to the worker.  When the backlog is full the event is
// dropped and ErrAuditBacklog returned.
func (p *AuditPublisher) Publish(_ context.Context, ev queue.AuditEvent) error {
	if p == nil || p.URL == "" {
		return ErrBrokerDisabled
	}
	select {
	case p.events <- ev:
		return nil
	default:
		return ErrAuditBacklog
	}
}

// Run delivers queued events until ctx is cancelled.  The connection is
// opened on first use and reopened after a failure; an event that cannot
// be delivered is logged and dropped.
func (p *AuditPublisher) Run(ctx context.Context) {
	defer p.disconnect()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.events:
			if err := p.deliver(ctx, ev); err != nil {
				p.Log.Printf("audit: drop %s: %v", ev.Action, err)
				p.disconnect()
			}
		}
	}
}

func (p *AuditPublisher) deliver(ctx context.Context, ev queue.AuditEvent) error {
	if p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	sendCtx, cancel := context.WithTimeout(ctx, auditSendTimeout)
	defer cancel()
	return p.ch.PublishWithContext(sendCtx, "", queue.AuditQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *AuditPublisher) connect() error {
	p.disconnect()
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(auditDialTimeout),
	})
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if _, err := ch.QueueDeclare(queue.AuditQueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AuditPublisher) disconnect() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
