package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// GenerateToken returns a random 64 char hex token, used for password resets.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateNumericCode returns a random code of n decimal digits. Leading
// zeros are kept so the code always has exactly n characters.
func GenerateNumericCode(n int) (string, error) {
	const digits = "0123456789"
	out := make([]byte, n)
	max := big.NewInt(int64(len(digits)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = digits[idx.Int64()]
	}
	return string(out), nil
}
