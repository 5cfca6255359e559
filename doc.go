// Package goSms provides an SMS verification-code engine with Redis-backed
// rate limiting, time-boxed one-time codes, phone-number normalization for the
// mainland numbering plan, and a fault-tolerant delivery gateway with retry
// and transient/permanent error classification.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. The Engine holds no mutable state of its own; everything
// lives in the injected store under per-phone keys with bounded lifetimes.
//
// # Architecture boundaries
//
// goSms is the public surface. It exposes [Engine], [Builder], [Config],
// [Provider], [Store], and value types (AuditEvent, MetricsSnapshot, etc.).
// Private helpers — code generation, key layout, fault classification — stay
// unexported or under internal/ and are never part of the API.
//
// # What this package must NOT do
//
//   - Manage user identity, sessions, or tokens. Callers own authentication;
//     goSms only answers "did this phone prove it received the code".
//   - Expose Redis clients, key shapes, or provider wire formats in its
//     public API.
//   - Guarantee exactly-once delivery. Delivery is at-least-once best-effort;
//     verification is idempotent and single-use.
//
// # Delivery contract
//
// Provider sends are wrapped in a bounded retry policy with exponential
// backoff. Transient faults (throttling, timeouts, transport errors) are
// retried up to the configured attempt limit; permanent faults abort
// immediately. Either way the caller sees [ErrProviderFailed], never
// provider-internal error text — that goes to the audit stream only.
package goSms
