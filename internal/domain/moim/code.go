package moim

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateCode returns a random lowercase base36 string of the given length.
func GenerateCode(length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(codeAlphabet[n.Int64()])
	}

	return builder.String(), nil
}

// NormalizeInviteCode trims and lowercases user input.
func NormalizeInviteCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
