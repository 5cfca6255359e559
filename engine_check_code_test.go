package goSms

import (
	"context"
	"errors"
	"testing"
	"time"
)

func issueCode(t *testing.T, engine *Engine, phone string) string {
	t.Helper()

	if err := engine.RequestCode(context.Background(), phone); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	stub, ok := engine.Provider().(*StubProvider)
	if !ok {
		t.Fatalf("expected stub provider, got %T", engine.Provider())
	}
	calls := stub.Calls()
	if len(calls) == 0 {
		t.Fatal("expected at least one delivery")
	}
	return calls[len(calls)-1].Params["code"]
}

func TestCheckCodeRoundTrip(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	engine := newTestEngine(t, rdb, nil)
	code := issueCode(t, engine, "13712345678")

	verified, err := engine.CheckCode(ctx, "13712345678", code)
	if err != nil {
		t.Fatalf("CheckCode failed: %v", err)
	}
	if !verified {
		t.Fatal("expected the issued code to verify")
	}

	if mr.Exists("sms:13712345678:code") {
		t.Fatal("expected pending code to be consumed")
	}
	if !mr.Exists("sms:13712345678:verified") {
		t.Fatal("expected verified marker to be written")
	}
	if ttl := mr.TTL("sms:13712345678:verified"); ttl != 10*time.Minute {
		t.Fatalf("expected 10m verified marker ttl, got %v", ttl)
	}
}

func TestCheckCodeIsSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	engine := newTestEngine(t, rdb, nil)
	code := issueCode(t, engine, "13712345678")

	if verified, err := engine.CheckCode(ctx, "13712345678", code); err != nil || !verified {
		t.Fatalf("first check: verified=%v err=%v", verified, err)
	}
	if verified, err := engine.CheckCode(ctx, "13712345678", code); err != nil || verified {
		t.Fatalf("replayed code must not verify: verified=%v err=%v", verified, err)
	}
}

func TestCheckCodeWrongGuessBurnsPendingCode(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	engine := newTestEngine(t, rdb, nil)
	code := issueCode(t, engine, "13712345678")

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	if verified, err := engine.CheckCode(ctx, "13712345678", wrong); err != nil || verified {
		t.Fatalf("wrong guess: verified=%v err=%v", verified, err)
	}
	if mr.Exists("sms:13712345678:code") {
		t.Fatal("expected wrong guess to burn the pending code")
	}

	// The right code no longer verifies either.
	if verified, err := engine.CheckCode(ctx, "13712345678", code); err != nil || verified {
		t.Fatalf("post-burn check: verified=%v err=%v", verified, err)
	}
	if mr.Exists("sms:13712345678:verified") {
		t.Fatal("no verified marker may exist after a burned code")
	}
}

func TestCheckCodeNoPendingCode(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	engine := newTestEngine(t, rdb, nil)

	verified, err := engine.CheckCode(context.Background(), "13712345678", "123456")
	if err != nil {
		t.Fatalf("CheckCode failed: %v", err)
	}
	if verified {
		t.Fatal("expected no verification without a pending code")
	}
}

func TestCheckCodeNormalizesInput(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	engine := newTestEngine(t, rdb, nil)
	code := issueCode(t, engine, "13712345678")

	verified, err := engine.CheckCode(ctx, "+86 137 1234 5678", code)
	if err != nil {
		t.Fatalf("CheckCode failed: %v", err)
	}
	if !verified {
		t.Fatal("expected prefixed input to verify against the normalized record")
	}
}

func TestCheckCodeFailsWhenRedisUnavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	engine := newTestEngine(t, rdb, nil)

	mr.Close()

	_, err := engine.CheckCode(context.Background(), "13712345678", "123456")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestIsVerifiedLifecycle(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	engine := newTestEngine(t, rdb, nil)

	verified, err := engine.IsVerified(ctx, "13712345678")
	if err != nil {
		t.Fatalf("IsVerified failed: %v", err)
	}
	if verified {
		t.Fatal("expected unverified phone before any check")
	}

	code := issueCode(t, engine, "13712345678")
	if ok, err := engine.CheckCode(ctx, "13712345678", code); err != nil || !ok {
		t.Fatalf("CheckCode: verified=%v err=%v", ok, err)
	}

	// Read-only: repeated checks do not consume the marker.
	for i := 0; i < 3; i++ {
		verified, err := engine.IsVerified(ctx, "13712345678")
		if err != nil {
			t.Fatalf("IsVerified failed: %v", err)
		}
		if !verified {
			t.Fatal("expected verified marker to persist across reads")
		}
	}

	// The marker lapses on its own TTL.
	mr.FastForward(11 * time.Minute)
	verified, err = engine.IsVerified(ctx, "13712345678")
	if err != nil {
		t.Fatalf("IsVerified failed: %v", err)
	}
	if verified {
		t.Fatal("expected verified marker to lapse after its ttl")
	}
}

func TestCheckCodeNilEngine(t *testing.T) {
	var engine *Engine
	if _, err := engine.CheckCode(context.Background(), "13712345678", "123456"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, err := engine.IsVerified(context.Background(), "13712345678"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
}
