package utils

import (
	"crypto/rand"
	"math/big"
)

// Ambiguous glyphs (0/O, 1/l/I) are left out; these strings get read aloud
// or copied from SMS.
const randomAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomString returns n characters drawn uniformly from randomAlphabet.
func RandomString(n int) string {
	max := big.NewInt(int64(len(randomAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		out[i] = randomAlphabet[idx.Int64()]
	}
	return string(out)
}
