package goSms

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRedisStorePrimitives(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := NewRedisStore(rdb)

	// Absent key reads as (nil, nil), not an error.
	data, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil for absent key, got %q", data)
	}

	if err := store.Set(ctx, "k1", []byte("v1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, err = store.Get(ctx, "k1")
	if err != nil || string(data) != "v1" {
		t.Fatalf("Get(k1) = %q, %v", data, err)
	}
	if mr.TTL("k1") != 0 {
		t.Fatalf("ttl 0 must not arm expiry, got %v", mr.TTL("k1"))
	}

	if err := store.Set(ctx, "k2", []byte("v2"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if mr.TTL("k2") != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", mr.TTL("k2"))
	}

	n, err := store.Incr(ctx, "counter")
	if err != nil || n != 1 {
		t.Fatalf("Incr = %d, %v; want 1", n, err)
	}
	n, err = store.Incr(ctx, "counter")
	if err != nil || n != 2 {
		t.Fatalf("Incr = %d, %v; want 2", n, err)
	}

	if err := store.Expire(ctx, "counter", time.Hour); err != nil {
		t.Fatalf("Expire failed: %v", err)
	}
	if mr.TTL("counter") != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", mr.TTL("counter"))
	}

	if err := store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if mr.Exists("k1") {
		t.Fatal("expected k1 to be deleted")
	}
	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("deleting an absent key must not fail: %v", err)
	}
}

func TestSMSStateStoreKeyLayout(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	state := newSMSStateStore(NewRedisStore(rdb))

	if err := state.SaveCode(ctx, "13712345678", "123456", 5*time.Minute); err != nil {
		t.Fatalf("SaveCode failed: %v", err)
	}
	if err := state.MarkSent(ctx, "13712345678", 1700000000); err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}
	if _, err := state.IncrHourWindow(ctx, "13712345678", time.Hour); err != nil {
		t.Fatalf("IncrHourWindow failed: %v", err)
	}
	if err := state.MarkVerified(ctx, "13712345678", 10*time.Minute); err != nil {
		t.Fatalf("MarkVerified failed: %v", err)
	}

	for _, key := range []string{
		"sms:13712345678:code",
		"sms:13712345678:last_sent",
		"sms:13712345678:hour_count",
		"sms:13712345678:verified",
	} {
		if !mr.Exists(key) {
			t.Fatalf("expected key %q", key)
		}
	}
}

func TestSMSStateStoreLastSent(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	state := newSMSStateStore(NewRedisStore(rdb))

	_, present, err := state.LastSent(ctx, "13712345678")
	if err != nil {
		t.Fatalf("LastSent failed: %v", err)
	}
	if present {
		t.Fatal("expected absent marker for fresh phone")
	}

	if err := state.MarkSent(ctx, "13712345678", 1700000000); err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}
	ts, present, err := state.LastSent(ctx, "13712345678")
	if err != nil || !present || ts != 1700000000 {
		t.Fatalf("LastSent = %d, %v, %v; want 1700000000, true, nil", ts, present, err)
	}

	// A corrupted marker reads as absent instead of wedging the phone.
	mr.Set("sms:13712345678:last_sent", "not-a-number")
	_, present, err = state.LastSent(ctx, "13712345678")
	if err != nil {
		t.Fatalf("LastSent failed: %v", err)
	}
	if present {
		t.Fatal("expected unparseable marker to read as absent")
	}
}

func TestSMSStateStoreHourWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	state := newSMSStateStore(NewRedisStore(rdb))

	for i := int64(1); i <= 3; i++ {
		n, err := state.IncrHourWindow(ctx, "13712345678", time.Hour)
		if err != nil {
			t.Fatalf("IncrHourWindow failed: %v", err)
		}
		if n != i {
			t.Fatalf("expected count %d, got %d", i, n)
		}
	}

	count, err := state.HourCount(ctx, "13712345678")
	if err != nil || count != 3 {
		t.Fatalf("HourCount = %d, %v; want 3", count, err)
	}
	if mr.TTL("sms:13712345678:hour_count") != time.Hour {
		t.Fatalf("expected re-armed 1h window, got %v", mr.TTL("sms:13712345678:hour_count"))
	}

	// The window lapses and the budget resets.
	mr.FastForward(61 * time.Minute)
	count, err = state.HourCount(ctx, "13712345678")
	if err != nil || count != 0 {
		t.Fatalf("HourCount after window = %d, %v; want 0", count, err)
	}
}

func TestSMSStateStoreCodeLifecycle(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	state := newSMSStateStore(NewRedisStore(rdb))

	_, present, err := state.Code(ctx, "13712345678")
	if err != nil || present {
		t.Fatalf("expected no pending code, got present=%v err=%v", present, err)
	}

	if err := state.SaveCode(ctx, "13712345678", "123456", 5*time.Minute); err != nil {
		t.Fatalf("SaveCode failed: %v", err)
	}
	code, present, err := state.Code(ctx, "13712345678")
	if err != nil || !present || code != "123456" {
		t.Fatalf("Code = %q, %v, %v", code, present, err)
	}

	mr.FastForward(6 * time.Minute)
	_, present, err = state.Code(ctx, "13712345678")
	if err != nil || present {
		t.Fatalf("expected code to expire, got present=%v err=%v", present, err)
	}

	if err := state.SaveCode(ctx, "13712345678", "654321", 5*time.Minute); err != nil {
		t.Fatalf("SaveCode failed: %v", err)
	}
	if err := state.DeleteCode(ctx, "13712345678"); err != nil {
		t.Fatalf("DeleteCode failed: %v", err)
	}
	_, present, _ = state.Code(ctx, "13712345678")
	if present {
		t.Fatal("expected deleted code to be absent")
	}
}

func TestSMSStateStoreWrapsStoreFaults(t *testing.T) {
	mr, rdb := newTestRedis(t)
	state := newSMSStateStore(NewRedisStore(rdb))

	mr.Close()

	ctx := context.Background()
	if _, _, err := state.Code(ctx, "13712345678"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if err := state.SaveCode(ctx, "13712345678", "123456", time.Minute); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, _, err := state.LastSent(ctx, "13712345678"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := state.IncrHourWindow(ctx, "13712345678", time.Hour); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := state.Verified(ctx, "13712345678"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
