package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCouponCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code := GenerateCouponCode()
		assert.Len(t, code, CouponCodeLength)
		// Ambiguous characters are excluded from the alphabet.
		for _, banned := range []string{"0", "O", "1", "I"} {
			assert.NotContains(t, code, banned)
		}
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 190, "codes should essentially never collide")
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.Equal(t, 4, strings.Count(a, "-"), "uuid shape")
}
