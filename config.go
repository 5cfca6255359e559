package goSms

import (
	"errors"
	"fmt"
	"time"
)

// Provider selection values for [DeliveryConfig].
const (
	// ProviderStub is an exported constant or variable used by the verification engine.
	ProviderStub = "stub"
	// ProviderAliyun is an exported constant or variable used by the verification engine.
	ProviderAliyun = "aliyun"
	// ProviderTencent is an exported constant or variable used by the verification engine.
	ProviderTencent = "tencent"
)

// Config defines a public type used by goSms APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Phone     PhoneConfig
	Code      CodeConfig
	RateLimit RateLimitConfig
	Delivery  DeliveryConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
PHONE CONFIG
====================================
*/

// PhoneConfig defines a public type used by goSms APIs.
//
// PhoneConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PhoneConfig struct {
	// VirtualPrefixes is the deny-list of 3-digit virtual/non-primary-carrier
	// prefixes. Policy data, not algorithm: swap it without touching code.
	VirtualPrefixes []string
}

/*
====================================
CODE CONFIG
====================================
*/

// CodeConfig defines a public type used by goSms APIs.
//
// CodeConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CodeConfig struct {
	Length int
	TTL    time.Duration
	// VerifiedTTL bounds the lifetime of the verified marker written on a
	// successful check.
	VerifiedTTL time.Duration
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig defines a public type used by goSms APIs.
//
// RateLimitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RateLimitConfig struct {
	// Cooldown is the minimum gap between two accepted sends to one phone.
	Cooldown time.Duration
	// HourlyCap is the maximum accepted sends per phone per HourlyWindow.
	HourlyCap    int
	HourlyWindow time.Duration
}

/*
====================================
DELIVERY CONFIG
====================================
*/

// DeliveryConfig defines a public type used by goSms APIs.
//
// DeliveryConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DeliveryConfig struct {
	// Provider selects the active backend: ProviderStub, ProviderAliyun, or
	// ProviderTencent. Empty means stub.
	Provider string

	// MaxAttempts bounds send tries per delivery, counting the first.
	MaxAttempts       int
	BackoffMultiplier time.Duration
	BackoffMin        time.Duration
	BackoffMax        time.Duration

	// Timeout is the per-attempt network timeout, independent of backoff.
	Timeout time.Duration

	Aliyun  AliyunConfig
	Tencent TencentConfig
}

// AliyunConfig defines a public type used by goSms APIs.
//
// AliyunConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AliyunConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	SignName        string
	TemplateCode    string
	// Endpoint overrides the production API host; leave empty outside tests.
	Endpoint string
}

// TencentConfig defines a public type used by goSms APIs.
//
// TencentConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TencentConfig struct {
	SecretID   string
	SecretKey  string
	SDKAppID   string
	SignName   string
	TemplateID string
	Region     string
	// Endpoint overrides the production API host; leave empty outside tests.
	Endpoint string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by goSms APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking the caller when the
	// dispatch buffer is saturated.
	DropIfFull bool
}

// MetricsConfig defines a public type used by goSms APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration: stub delivery, 6-digit
// codes with a 5 minute TTL, 60 second cooldown, 5 sends per rolling hour,
// 3 delivery attempts with 1s..30s exponential backoff, audit and metrics
// enabled.
func DefaultConfig() Config {
	return Config{
		Phone: PhoneConfig{
			VirtualPrefixes: []string{"170", "171", "162", "165", "167", "166"},
		},
		Code: CodeConfig{
			Length:      6,
			TTL:         5 * time.Minute,
			VerifiedTTL: 10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Cooldown:     60 * time.Second,
			HourlyCap:    5,
			HourlyWindow: time.Hour,
		},
		Delivery: DeliveryConfig{
			Provider:          ProviderStub,
			MaxAttempts:       3,
			BackoffMultiplier: time.Second,
			BackoffMin:        time.Second,
			BackoffMax:        30 * time.Second,
			Timeout:           5 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func defaultConfig() Config {
	return DefaultConfig()
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Phone.VirtualPrefixes = append([]string(nil), cfg.Phone.VirtualPrefixes...)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.Code.Length < 4 || c.Code.Length > 10 {
		return fmt.Errorf("code length must be 4-10, got %d", c.Code.Length)
	}
	if c.Code.TTL <= 0 {
		return errors.New("code ttl must be positive")
	}
	if c.Code.VerifiedTTL <= 0 {
		return errors.New("verified marker ttl must be positive")
	}
	if c.RateLimit.Cooldown <= 0 {
		return errors.New("send cooldown must be positive")
	}
	if c.RateLimit.HourlyCap <= 0 {
		return errors.New("hourly cap must be positive")
	}
	if c.RateLimit.HourlyWindow <= 0 {
		return errors.New("hourly window must be positive")
	}
	if c.Delivery.MaxAttempts < 1 {
		return errors.New("delivery max attempts must be at least 1")
	}
	if c.Delivery.BackoffMultiplier <= 0 {
		return errors.New("backoff multiplier must be positive")
	}
	if c.Delivery.BackoffMin <= 0 || c.Delivery.BackoffMax < c.Delivery.BackoffMin {
		return errors.New("backoff bounds must satisfy 0 < min <= max")
	}
	if c.Delivery.Timeout <= 0 {
		return errors.New("delivery timeout must be positive")
	}
	switch c.Delivery.Provider {
	case "", ProviderStub, ProviderAliyun, ProviderTencent:
	default:
		return fmt.Errorf("unknown sms provider %q", c.Delivery.Provider)
	}
	for _, prefix := range c.Phone.VirtualPrefixes {
		if len(prefix) != 3 {
			return fmt.Errorf("virtual prefix %q must be 3 digits", prefix)
		}
	}
	return nil
}

// resolveTemplateID picks the message template for a send: the active
// provider's configured template first, then any other configured template,
// then "default".
func (c *Config) resolveTemplateID() string {
	switch c.Delivery.Provider {
	case ProviderAliyun:
		if c.Delivery.Aliyun.TemplateCode != "" {
			return c.Delivery.Aliyun.TemplateCode
		}
	case ProviderTencent:
		if c.Delivery.Tencent.TemplateID != "" {
			return c.Delivery.Tencent.TemplateID
		}
	}
	if c.Delivery.Aliyun.TemplateCode != "" {
		return c.Delivery.Aliyun.TemplateCode
	}
	if c.Delivery.Tencent.TemplateID != "" {
		return c.Delivery.Tencent.TemplateID
	}
	return "default"
}
