package service

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 50
	codeTTL      = 24 * time.Hour
)

// IssueCode generates an unpredictable verification code and its absolute
// expiry (issuance + 24h). Generation is pure; the caller persists the
// pair onto the account.
func IssueCode() (string, time.Time) {
	return IssueCodeAt(time.Now().UTC())
}

// IssueCodeAt is IssueCode with an explicit issuance instant, for tests.
func IssueCodeAt(now time.Time) (string, time.Time) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform entropy source is
			// broken; there is no safe fallback for a reset token.
			panic(err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), now.Add(codeTTL)
}
