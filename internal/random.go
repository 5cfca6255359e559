package internal

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	minCodeDigits = 4
	maxCodeDigits = 10
)

// NewCode returns a numeric one-time code of exactly the requested length,
// each digit drawn independently and uniformly from 0-9 using crypto/rand.
// A short-lived code must still be unpredictable to an attacker racing its
// TTL, so a cryptographic source is required here.
func NewCode(digits int) (string, error) {
	if digits < minCodeDigits || digits > maxCodeDigits {
		return "", errors.New("invalid code digits")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	code := b.String()
	if len(code) != digits {
		return "", fmt.Errorf("invalid code generation length")
	}
	return code, nil
}
