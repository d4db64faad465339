package businessflow

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/amberlink/ambassador-platform/models"
)

// Referral code generation constants
const (
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts = 10
)

// CodeExistsFunc reports whether a candidate code is already taken. The
// predicate is scoped to the global code namespace, not per user.
type CodeExistsFunc func(ctx context.Context, code string) (bool, error)

// GenerateReferralCode produces a unique 8-character uppercase alphanumeric
// code. Candidates are sampled uniformly and re-checked against the caller's
// existence predicate; after 10 collisions the generator gives up with
// ErrCodeSpaceExhausted rather than return a colliding code. The function has
// no persistence side effects.
func GenerateReferralCode(ctx context.Context, exists CodeExistsFunc) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := sampleCode()
		if err != nil {
			return "", fmt.Errorf("failed to sample referral code: %w", err)
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check referral code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// sampleCode draws each character independently from the 36-symbol alphabet.
func sampleCode() (string, error) {
	buf := make([]byte, models.ReferralCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
