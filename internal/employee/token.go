package employee

import (
	"crypto/rand"
	"math/big"
)

const (
	badgeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	badgeLength   = 10
)

// NewBadgeUID generates the short alphanumeric token that identifies an
// employee on badge scans. Uniqueness is enforced by the database index;
// collisions at this length are vanishingly rare but would surface as a
// create error.
func NewBadgeUID() (string, error) {
	buf := make([]byte, badgeLength)
	max := big.NewInt(int64(len(badgeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = badgeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
