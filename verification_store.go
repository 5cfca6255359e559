package goSms

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const smsKeyPrefix = "sms"

// smsStateStore lays the four per-phone record kinds over the injected
// [Store]. Keys always take the normalized phone: the caller is responsible
// for normalizing before any call here.
//
//	sms:{phone}:last_sent   unix time of the last accepted send, no TTL
//	sms:{phone}:hour_count  sends in the current fixed hour window
//	sms:{phone}:code        the pending one-time code
//	sms:{phone}:verified    short-lived verified marker
type smsStateStore struct {
	store  Store
	prefix string
}

func newSMSStateStore(store Store) *smsStateStore {
	return &smsStateStore{
		store:  store,
		prefix: smsKeyPrefix,
	}
}

func (s *smsStateStore) key(phone, suffix string) string {
	return s.prefix + ":" + phone + ":" + suffix
}

func (s *smsStateStore) LastSent(ctx context.Context, phone string) (int64, bool, error) {
	data, err := s.store.Get(ctx, s.key(phone, "last_sent"))
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if data == nil {
		return 0, false, nil
	}
	ts, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// Unparseable marker: treat as absent rather than wedging the phone.
		return 0, false, nil
	}
	return ts, true, nil
}

func (s *smsStateStore) MarkSent(ctx context.Context, phone string, now int64) error {
	value := strconv.FormatInt(now, 10)
	if err := s.store.Set(ctx, s.key(phone, "last_sent"), []byte(value), 0); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *smsStateStore) HourCount(ctx context.Context, phone string) (int64, error) {
	data, err := s.store.Get(ctx, s.key(phone, "hour_count"))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if data == nil {
		return 0, nil
	}
	count, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, nil
	}
	return count, nil
}

// IncrHourWindow bumps the hourly counter and re-arms its expiry. The two
// store calls are not atomic against each other; a crash in between can
// leave a counter without expiry. Accepted trade-off, see DESIGN.md.
func (s *smsStateStore) IncrHourWindow(ctx context.Context, phone string, window time.Duration) (int64, error) {
	key := s.key(phone, "hour_count")
	count, err := s.store.Incr(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.store.Expire(ctx, key, window); err != nil {
		return count, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}

func (s *smsStateStore) SaveCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := s.store.Set(ctx, s.key(phone, "code"), []byte(code), ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *smsStateStore) Code(ctx context.Context, phone string) (string, bool, error) {
	data, err := s.store.Get(ctx, s.key(phone, "code"))
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if data == nil {
		return "", false, nil
	}
	return string(data), true, nil
}

func (s *smsStateStore) DeleteCode(ctx context.Context, phone string) error {
	if err := s.store.Delete(ctx, s.key(phone, "code")); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *smsStateStore) MarkVerified(ctx context.Context, phone string, ttl time.Duration) error {
	if err := s.store.Set(ctx, s.key(phone, "verified"), []byte("1"), ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *smsStateStore) Verified(ctx context.Context, phone string) (bool, error) {
	data, err := s.store.Get(ctx, s.key(phone, "verified"))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return data != nil, nil
}
