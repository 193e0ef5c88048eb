package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// resetTokenChars is the alphabet reset tickets are drawn from
const resetTokenChars = "0123456789abcdefghijklmnopqrstuvwxyz!@#$%^&*()ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ResetTokenLength is the length of generated password-reset tickets
const ResetTokenLength = 10

// NewResetToken produces an opaque random string used as a one-time
// password-reset ticket. Uniqueness is probabilistic; collisions are not
// checked against outstanding tickets.
func NewResetToken(size int) (string, error) {
	var b strings.Builder
	b.Grow(size)

	max := big.NewInt(int64(len(resetTokenChars)))
	for i := 0; i < size; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate reset token: %w", err)
		}
		b.WriteByte(resetTokenChars[n.Int64()])
	}

	return b.String(), nil
}
