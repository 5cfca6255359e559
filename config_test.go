package goSms

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"code too short", func(c *Config) { c.Code.Length = 3 }, "code length"},
		{"code too long", func(c *Config) { c.Code.Length = 11 }, "code length"},
		{"zero code ttl", func(c *Config) { c.Code.TTL = 0 }, "code ttl"},
		{"zero verified ttl", func(c *Config) { c.Code.VerifiedTTL = 0 }, "verified marker ttl"},
		{"zero cooldown", func(c *Config) { c.RateLimit.Cooldown = 0 }, "cooldown"},
		{"zero hourly cap", func(c *Config) { c.RateLimit.HourlyCap = 0 }, "hourly cap"},
		{"zero hourly window", func(c *Config) { c.RateLimit.HourlyWindow = 0 }, "hourly window"},
		{"zero attempts", func(c *Config) { c.Delivery.MaxAttempts = 0 }, "max attempts"},
		{"zero multiplier", func(c *Config) { c.Delivery.BackoffMultiplier = 0 }, "backoff multiplier"},
		{"inverted backoff bounds", func(c *Config) {
			c.Delivery.BackoffMin = 10 * time.Second
			c.Delivery.BackoffMax = time.Second
		}, "backoff bounds"},
		{"zero timeout", func(c *Config) { c.Delivery.Timeout = 0 }, "timeout"},
		{"unknown provider", func(c *Config) { c.Delivery.Provider = "carrier-pigeon" }, "unknown sms provider"},
		{"short virtual prefix", func(c *Config) { c.Phone.VirtualPrefixes = []string{"17"} }, "virtual prefix"},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.wantSub) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.wantSub)
		}
	}
}

func TestResolveTemplateID(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.resolveTemplateID(); got != "default" {
		t.Fatalf("expected fallback template, got %q", got)
	}

	cfg.Delivery.Provider = ProviderAliyun
	cfg.Delivery.Aliyun.TemplateCode = "SMS_1234"
	if got := cfg.resolveTemplateID(); got != "SMS_1234" {
		t.Fatalf("expected active provider template, got %q", got)
	}

	// The other provider's template serves as a fallback.
	cfg.Delivery.Provider = ProviderTencent
	if got := cfg.resolveTemplateID(); got != "SMS_1234" {
		t.Fatalf("expected cross-provider fallback, got %q", got)
	}

	cfg.Delivery.Tencent.TemplateID = "100001"
	if got := cfg.resolveTemplateID(); got != "100001" {
		t.Fatalf("expected tencent template, got %q", got)
	}
}

func TestCloneConfigIsolatesPrefixSlice(t *testing.T) {
	original := DefaultConfig()
	cloned := cloneConfig(original)

	cloned.Phone.VirtualPrefixes[0] = "999"
	if original.Phone.VirtualPrefixes[0] == "999" {
		t.Fatal("clone must not share the prefix slice")
	}
}

func TestBuilderRequiresBackend(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected error without a store or redis client")
	}
}

func TestBuilderRejectsReuse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	builder := New().WithRedis(rdb)
	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.Code.Length = 2

	if _, err := New().WithConfig(cfg).WithRedis(rdb).Build(); err == nil {
		t.Fatal("expected invalid config to fail Build")
	}
}

func TestBuilderRejectsUnknownProvider(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.Delivery.Provider = "carrier-pigeon"

	if _, err := New().WithConfig(cfg).WithRedis(rdb).Build(); err == nil {
		t.Fatal("expected unknown provider to fail Build")
	}
}

func TestBuilderInjectedStoreSkipsRedis(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	engine, err := New().WithStore(NewRedisStore(rdb)).Build()
	if err != nil {
		t.Fatalf("Build with injected store failed: %v", err)
	}
	defer engine.Close()

	if err := engine.RequestCode(context.Background(), "13712345678"); err != nil {
		t.Fatalf("RequestCode through injected store failed: %v", err)
	}
}
