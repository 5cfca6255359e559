package goSms

import "strings"

// NormalizePhone reduces a raw mainland phone number to its canonical
// 11-digit national form: whitespace removed, a leading international prefix
// ("+86") stripped, and a leading trunk code ("86") stripped when the
// remaining digit count shows it is redundant. The two strips are applied in
// sequence, so an input carrying both ("+8686137...") still lands on the bare
// national number.
//
// NormalizePhone is idempotent and must be used on every store read and write
// path; keys written under one form are invisible under another.
func NormalizePhone(raw string) string {
	p := strings.ReplaceAll(raw, " ", "")
	if strings.HasPrefix(p, "+86") {
		p = p[3:]
	}
	if strings.HasPrefix(p, "86") && len(p) > 11 {
		p = p[2:]
	}
	return p
}

// phoneValidator checks normalized numbers against the national numbering
// plan and a deny-list of virtual-number prefixes. The deny-list is policy
// data injected at construction, not something the validator derives.
type phoneValidator struct {
	virtualPrefixes map[string]struct{}
}

func newPhoneValidator(prefixes []string) *phoneValidator {
	deny := make(map[string]struct{}, len(prefixes))
	for _, p := range prefixes {
		deny[p] = struct{}{}
	}
	return &phoneValidator{virtualPrefixes: deny}
}

// Check normalizes raw and validates the result. It returns the normalized
// number with a nil error when the number is acceptable, or ErrBadFormat /
// ErrVirtualNumber otherwise. Invalid input is a normal outcome here, not a
// fault: the store is never touched on rejection.
func (v *phoneValidator) Check(raw string) (string, error) {
	phone := NormalizePhone(raw)
	if !validNationalNumber(phone) {
		return phone, ErrBadFormat
	}
	if _, denied := v.virtualPrefixes[phone[:3]]; denied {
		return phone, ErrVirtualNumber
	}
	return phone, nil
}

// validNationalNumber reports whether phone matches the accepted plan:
// exactly 11 digits, leading digit 1, second digit 3-9.
func validNationalNumber(phone string) bool {
	if len(phone) != 11 {
		return false
	}
	if phone[0] != '1' {
		return false
	}
	if phone[1] < '3' || phone[1] > '9' {
		return false
	}
	for i := 2; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return false
		}
	}
	return true
}
