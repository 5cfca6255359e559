package goSms

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Engine defines a public type used by goSms APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config   Config
	phones   *phoneValidator
	state    *smsStateStore
	limiter  *smsRateLimiter
	provider Provider
	policy   retryPolicy
	audit    *auditDispatcher
	metrics  *Metrics

	// now is replaceable in tests; everything time-based flows through it.
	now func() time.Time
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Provider returns the active delivery backend.
//
// Provider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Provider() Provider {
	if e == nil {
		return nil
	}
	return e.provider
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

// emitAudit assembles and dispatches one audit event. Phone numbers are
// masked before they reach any sink; metadata is built lazily so disabled
// audit costs nothing.
func (e *Engine) emitAudit(
	ctx context.Context,
	eventType, phone string,
	success bool,
	failure error,
	metadata func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: e.now(),
		EventType: eventType,
		Phone:     maskPhone(phone),
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if failure != nil {
		event.Error = failure.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}
	if requestID := requestIDFromContext(ctx); requestID != "" {
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		event.Metadata["request_id"] = requestID
	}

	e.audit.Emit(ctx, event)
}
