// Package internal contains helper utilities that are intentionally private
// to goSms, currently secure random code generation.
//
// # What this package must NOT do
//
//   - Export types that appear in the public goSms API.
//   - Be imported by any package outside the goSms module.
package internal
