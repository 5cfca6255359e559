package goSms

import (
	"context"
	"fmt"
	"sync"
)

// Provider is the delivery capability the engine dispatches through: one
// outbound SMS per call, carrying a template identifier and a small parameter
// map (the engine always includes "code"). Implementations return nil on
// accepted delivery or a classified [SendFault]; they perform exactly one
// attempt — retrying is the engine's job, not the provider's.
//
// Provider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Provider interface {
	Name() string
	Send(ctx context.Context, phone, templateID string, params map[string]string) *SendFault
}

// SendFault is the explicit two-variant delivery outcome: Transient faults
// (throttling, timeouts, transport errors) are eligible for automatic retry;
// permanent faults (bad request, invalid signature, rejected template) abort
// the send immediately.
//
// SendFault instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SendFault struct {
	Transient bool
	Code      string
	Message   string
}

// Error describes the error operation and its observable behavior.
//
// Error does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *SendFault) Error() string {
	if f == nil {
		return ""
	}
	kind := "permanent"
	if f.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("sms %s fault: %s - %s", kind, f.Code, f.Message)
}

func transientFault(code, message string) *SendFault {
	return &SendFault{Transient: true, Code: code, Message: message}
}

func permanentFault(code, message string) *SendFault {
	return &SendFault{Transient: false, Code: code, Message: message}
}

// StubCall records one delivery accepted by [StubProvider].
//
// StubCall instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StubCall struct {
	Phone      string
	TemplateID string
	Params     map[string]string
}

// StubProvider records every send and always reports success. It is the
// active provider whenever no real backend is configured, which keeps local
// development and tests off the network.
//
// StubProvider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StubProvider struct {
	mu    sync.Mutex
	calls []StubCall
}

// NewStubProvider describes the newstubprovider operation and its observable behavior.
//
// NewStubProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

// Name describes the name operation and its observable behavior.
//
// Name does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *StubProvider) Name() string { return "stub" }

// Send describes the send operation and its observable behavior.
//
// Send may return an error when input validation, dependency calls, or security checks fail.
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *StubProvider) Send(_ context.Context, phone, templateID string, params map[string]string) *SendFault {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, StubCall{Phone: phone, TemplateID: templateID, Params: copied})
	return nil
}

// Calls returns a snapshot of every recorded delivery in dispatch order.
//
// Calls does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *StubProvider) Calls() []StubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StubCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// newProvider resolves the active delivery backend from config. Selection
// happens once at Build time; the engine never re-dispatches on a string
// value per call.
func newProvider(cfg DeliveryConfig) (Provider, error) {
	switch cfg.Provider {
	case "", ProviderStub:
		return NewStubProvider(), nil
	case ProviderAliyun:
		return newAliyunProvider(cfg.Aliyun, cfg.Timeout), nil
	case ProviderTencent:
		return newTencentProvider(cfg.Tencent, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.Provider)
	}
}
