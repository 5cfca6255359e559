package goSms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goSms/internal"
)

// RequestCode issues and delivers a fresh one-time code for rawPhone.
//
// The flow is: normalize/validate the number, check the cooldown and hourly
// budgets, persist a new pending code (overwriting any previous one), charge
// both budgets, then dispatch delivery through the active provider under the
// retry policy. Business rejections come back as ErrBadFormat,
// ErrVirtualNumber, ErrRateLimited, ErrHourlyLimit, or ErrProviderFailed —
// map them with [Reason]. Store faults come back wrapping
// [ErrStoreUnavailable] and carry no reason string.
//
// A provider failure does not refund the cooldown or hourly budget: the code
// stays persisted and the slot stays spent, so induced delivery failures
// cannot be used to bypass rate limits.
func (e *Engine) RequestCode(ctx context.Context, rawPhone string) error {
	if e == nil || e.state == nil || e.limiter == nil || e.provider == nil {
		return ErrEngineNotReady
	}

	phone, err := e.phones.Check(rawPhone)
	if err != nil {
		switch {
		case errors.Is(err, ErrVirtualNumber):
			e.metricInc(MetricRequestVirtualNumber)
		default:
			e.metricInc(MetricRequestBadFormat)
		}
		e.emitAudit(ctx, auditEventRequestCode, phone, false, err, nil)
		return err
	}

	if err := e.limiter.CheckSend(ctx, phone); err != nil {
		switch {
		case errors.Is(err, ErrRateLimited):
			e.metricInc(MetricRequestCooldownLimited)
			e.emitAudit(ctx, auditEventRateLimit, phone, false, err, func() map[string]string {
				return map[string]string{"limit": "cooldown"}
			})
		case errors.Is(err, ErrHourlyLimit):
			e.metricInc(MetricRequestHourlyLimited)
			e.emitAudit(ctx, auditEventRateLimit, phone, false, err, func() map[string]string {
				return map[string]string{"limit": "hourly"}
			})
		default:
			e.emitAudit(ctx, auditEventRequestCode, phone, false, err, nil)
		}
		return err
	}

	code, err := internal.NewCode(e.config.Code.Length)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCodeGeneration, err)
	}

	// A new pending code invalidates the old one by overwrite; at most one
	// exists per phone.
	if err := e.state.SaveCode(ctx, phone, code, e.config.Code.TTL); err != nil {
		e.emitAudit(ctx, auditEventRequestCode, phone, false, err, nil)
		return err
	}
	if err := e.limiter.RecordSend(ctx, phone); err != nil {
		e.emitAudit(ctx, auditEventRequestCode, phone, false, err, nil)
		return err
	}

	if !e.deliver(ctx, phone, code) {
		return ErrProviderFailed
	}

	e.metricInc(MetricRequestAccepted)
	e.emitAudit(ctx, auditEventRequestCode, phone, true, nil, nil)
	return nil
}

// deliver runs one delivery through the retry policy and reports whether it
// ultimately succeeded. Fault detail goes to audit and metrics only; the
// caller sees a boolean outcome.
func (e *Engine) deliver(ctx context.Context, phone, code string) bool {
	templateID := e.config.resolveTemplateID()
	params := map[string]string{"code": code}

	started := e.now()
	fault := e.policy.run(ctx,
		func(ctx context.Context) *SendFault {
			return e.provider.Send(ctx, phone, templateID, params)
		},
		func(attemptNo int, fault *SendFault) {
			e.metricInc(MetricSendRetry)
			e.emitAudit(ctx, auditEventSendRetry, phone, false, fault, func() map[string]string {
				return map[string]string{
					"provider": e.provider.Name(),
					"attempt":  fmt.Sprintf("%d", attemptNo),
					"code":     fault.Code,
				}
			})
		},
	)
	e.metricObserve(MetricSendLatency, time.Since(started))

	if fault == nil {
		e.metricInc(MetricSendSuccess)
		e.emitAudit(ctx, auditEventSendSuccess, phone, true, nil, func() map[string]string {
			return map[string]string{"provider": e.provider.Name()}
		})
		return true
	}

	meta := func() map[string]string {
		return map[string]string{
			"provider": e.provider.Name(),
			"code":     fault.Code,
		}
	}
	if fault.Transient {
		e.metricInc(MetricSendRetriesExhausted)
		e.emitAudit(ctx, auditEventSendExhausted, phone, false, fault, meta)
	} else {
		e.metricInc(MetricSendPermanentFailure)
		e.emitAudit(ctx, auditEventSendPermanent, phone, false, fault, meta)
	}
	return false
}
