package gatekit

import (
	"context"
	"io"
	"time"

	"github.com/dkrylov/gatekit/internal/audit"
)

// AuditEvent is a structured record of one security-relevant operation.
type AuditEvent = audit.Event

// AuditSink consumes audit events. Implementations must be safe for
// concurrent use.
type AuditSink = audit.Sink

// Audit event type values.
const (
	AuditLogin   = "login"
	AuditRefresh = "refresh"
	AuditVerify  = "verify"
	AuditLogout  = "logout"
	AuditDenied  = "role_denied"
)

// NewChannelAuditSink returns a sink that exposes events on a channel.
func NewChannelAuditSink(buffer int) *audit.ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONAuditSink returns a sink that writes one JSON event per line.
func NewJSONAuditSink(w io.Writer) *audit.JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// emitAudit queues an event on the engine's dispatcher. Safe to call when
// auditing is disabled.
func (e *Engine) emitAudit(ctx context.Context, eventType, username, role, tokenID string, success bool, opErr error) {
	ev := audit.Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Username:  username,
		Role:      role,
		TokenID:   tokenID,
		Success:   success,
	}
	if opErr != nil {
		ev.Error = opErr.Error()
	}
	e.auditor.Emit(ctx, ev)
}

// AuditDropped reports how many audit events were discarded because the
// queue was full.
func (e *Engine) AuditDropped() uint64 {
	return e.auditor.Dropped()
}
