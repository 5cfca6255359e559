package goSms

import "errors"

var (
	// ErrBadFormat is an exported constant or variable used by the verification engine.
	ErrBadFormat = errors.New("invalid phone number format")
	// ErrVirtualNumber is an exported constant or variable used by the verification engine.
	ErrVirtualNumber = errors.New("virtual numbers are not allowed")
	// ErrRateLimited is an exported constant or variable used by the verification engine.
	ErrRateLimited = errors.New("send cooldown not elapsed")
	// ErrHourlyLimit is an exported constant or variable used by the verification engine.
	ErrHourlyLimit = errors.New("hourly send limit exceeded")
	// ErrProviderFailed is an exported constant or variable used by the verification engine.
	ErrProviderFailed = errors.New("sms delivery failed")
	// ErrStoreUnavailable is an exported constant or variable used by the verification engine.
	ErrStoreUnavailable = errors.New("verification store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the verification engine.
	ErrEngineNotReady = errors.New("engine not fully initialized")
	// ErrCodeGeneration is an exported constant or variable used by the verification engine.
	ErrCodeGeneration = errors.New("code generation failed")
)

// Reason maps a business-rule rejection returned by [Engine.RequestCode] to
// its stable machine-readable reason string: "bad_format", "virtual_number",
// "rate_limited", "hourly_limit", or "provider_failed".
//
// Infrastructure faults (anything wrapping [ErrStoreUnavailable]) are not
// business outcomes and map to the empty string; callers must surface those
// as availability errors, not verification-rule rejections.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrBadFormat):
		return "bad_format"
	case errors.Is(err, ErrVirtualNumber):
		return "virtual_number"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrHourlyLimit):
		return "hourly_limit"
	case errors.Is(err, ErrProviderFailed):
		return "provider_failed"
	default:
		return ""
	}
}
