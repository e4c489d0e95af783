package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// couponAlphabet leaves out 0/O/1/I so staff can read codes over the
// phone.
const couponAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CouponCodeLength is fixed by the coupon schema.
const CouponCodeLength = 8

// NewID returns a random UUID used for ids generated locally before
// the first remote roundtrip.
func NewID() string {
	return uuid.NewString()
}

// GenerateCouponCode returns a random 8-character coupon code.
// Uniqueness is the caller's responsibility (checked against the
// cache, enforced by the remote unique constraint).
func GenerateCouponCode() string {
	code := make([]byte, CouponCodeLength)
	max := big.NewInt(int64(len(couponAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken;
			// degrade to a deterministic character rather than panic.
			code[i] = couponAlphabet[i%len(couponAlphabet)]
			continue
		}
		code[i] = couponAlphabet[n.Int64()]
	}
	return string(code)
}
