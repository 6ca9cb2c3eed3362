package utils

import (
	"strings"
)

// NormalizePhone keeps only the digits of phone. The second return is false
// when nothing is left.
func NormalizePhone(phone string) (string, bool) {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}
