package order

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

var ErrCodeGeneration = errors.New("failed to generate order code")

// GenerateCode produces a human-readable order code of the form
// PREFIX-yyyyMMddHHmmss-XXXXXX where the suffix is 6 random uppercase hex
// characters. Collisions are near zero but not impossible, so callers must
// retry insertion on a uniqueness conflict.
func GenerateCode(prefix string, now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", ErrCodeGeneration
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return prefix + "-" + now.Format("20060102150405") + "-" + suffix, nil
}
