package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewString returns a random string of the given length drawn from
// upper-case letters and digits.
func NewString(size int) string {
	var b strings.Builder
	b.Grow(size)

	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < size; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("random: read failed: %v", err))
		}
		b.WriteByte(alphabet[n.Int64()])
	}

	return b.String()
}

// TransactionID builds a payment correlation token from a millisecond
// timestamp and a random suffix. The result is not guaranteed unique;
// storage rejects duplicates.
func TransactionID(now time.Time) string {
	return fmt.Sprintf("TXN-%d-%s", now.UnixMilli(), NewString(6))
}
