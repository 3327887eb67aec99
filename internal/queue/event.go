// Package queue defines the audit event exchanged over RabbitMQ and the
// consumer that stores it.
package queue

import "time"

// AuditQueueName is the durable queue carrying admin mutations.
const AuditQueueName = "admin.audit"

// AuditEvent is published after every successful admin mutation.
type AuditEvent struct {
	Action     string         `json:"action"`
	UserID     uint64         `json:"user_id,omitempty"`
	Role       string         `json:"role,omitempty"`
	Method     string         `json:"method"`
	Path       string         `json:"path"`
	Status     int            `json:"status"`
	ResourceID string         `json:"resource_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	At         time.Time      `json:"at"`
}
