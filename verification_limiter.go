package goSms

import (
	"context"
	"time"
)

// smsRateLimiter enforces the two send budgets for a phone: the per-send
// cooldown and the fixed hourly cap. Both live entirely in the store, so the
// limiter is stateless and safe for concurrent use.
//
// Two concurrent CheckSend calls for the same phone can both pass a budget
// check before either RecordSend lands. That window is bounded by the
// store's per-key atomicity and is accepted as best-effort; the limiter does
// not add locking on top.
type smsRateLimiter struct {
	state  *smsStateStore
	config RateLimitConfig
	now    func() time.Time
}

func newSMSRateLimiter(state *smsStateStore, cfg RateLimitConfig) *smsRateLimiter {
	return &smsRateLimiter{
		state:  state,
		config: cfg,
		now:    time.Now,
	}
}

// CheckSend returns nil when phone may be sent another code right now,
// ErrRateLimited when the cooldown since the last accepted send has not
// elapsed, or ErrHourlyLimit when the hourly cap is already spent. The two
// budgets expire independently.
func (l *smsRateLimiter) CheckSend(ctx context.Context, phone string) error {
	lastSent, present, err := l.state.LastSent(ctx, phone)
	if err != nil {
		return err
	}
	if present {
		elapsed := l.now().Unix() - lastSent
		if elapsed < int64(l.config.Cooldown/time.Second) {
			return ErrRateLimited
		}
	}

	count, err := l.state.HourCount(ctx, phone)
	if err != nil {
		return err
	}
	if count >= int64(l.config.HourlyCap) {
		return ErrHourlyLimit
	}

	return nil
}

// RecordSend charges both budgets for an accepted send: the cooldown marker
// is overwritten with now and the hourly counter is incremented with its
// window re-armed. Called after the code is persisted and before the
// provider dispatch, so a failed delivery still consumes the slot.
func (l *smsRateLimiter) RecordSend(ctx context.Context, phone string) error {
	if err := l.state.MarkSent(ctx, phone, l.now().Unix()); err != nil {
		return err
	}
	if _, err := l.state.IncrHourWindow(ctx, phone, l.config.HourlyWindow); err != nil {
		return err
	}
	return nil
}
