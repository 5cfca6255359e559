package goSms

import "context"

// CheckCode verifies candidate against the pending code for rawPhone and
// reports whether it matched. The pending code is consumed on the first
// attempt regardless of outcome: a wrong guess deletes it, so a later
// attempt with the right code also fails. A match writes the short-lived
// verified marker before deleting the code.
//
// A false return with a nil error is the normal "did not verify" outcome
// (no pending code, or mismatch). A non-nil error always wraps
// [ErrStoreUnavailable] and means nothing about the candidate.
func (e *Engine) CheckCode(ctx context.Context, rawPhone, candidate string) (bool, error) {
	if e == nil || e.state == nil {
		return false, ErrEngineNotReady
	}

	// Lenient normalization: already-normalized input passes through.
	phone := NormalizePhone(rawPhone)

	code, present, err := e.state.Code(ctx, phone)
	if err != nil {
		return false, err
	}
	if !present {
		e.metricInc(MetricVerifyFailure)
		e.emitAudit(ctx, auditEventVerify, phone, false, nil, func() map[string]string {
			return map[string]string{"outcome": "no_pending_code"}
		})
		return false, nil
	}

	if code != candidate {
		// Single-use: the wrong guess burns the pending code.
		if err := e.state.DeleteCode(ctx, phone); err != nil {
			return false, err
		}
		e.metricInc(MetricVerifyFailure)
		e.emitAudit(ctx, auditEventVerify, phone, false, nil, func() map[string]string {
			return map[string]string{"outcome": "mismatch"}
		})
		return false, nil
	}

	if err := e.state.MarkVerified(ctx, phone, e.config.Code.VerifiedTTL); err != nil {
		return false, err
	}
	if err := e.state.DeleteCode(ctx, phone); err != nil {
		return false, err
	}

	e.metricInc(MetricVerifySuccess)
	e.emitAudit(ctx, auditEventVerify, phone, true, nil, nil)
	return true, nil
}

// IsVerified reports whether phone currently holds a verified marker. The
// check is read-only; it never consumes the marker, which lapses on its own
// TTL.
func (e *Engine) IsVerified(ctx context.Context, rawPhone string) (bool, error) {
	if e == nil || e.state == nil {
		return false, ErrEngineNotReady
	}

	phone := NormalizePhone(rawPhone)
	verified, err := e.state.Verified(ctx, phone)
	if err != nil {
		return false, err
	}

	e.emitAudit(ctx, auditEventVerifiedCheck, phone, verified, nil, nil)
	return verified, nil
}
