package services

import (
	"regexp"
	"strings"
)

var vnPhonePattern = regexp.MustCompile(`^0[35789][0-9]{8}$`)

// NormalizePhone strips separators and rewrites the +84/84 country prefix to
// the domestic leading zero.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	p := b.String()
	switch {
	case strings.HasPrefix(p, "+84"):
		p = "0" + p[3:]
	case strings.HasPrefix(p, "84") && len(p) == 11:
		p = "0" + p[2:]
	}
	return p
}

// IsValidPhone reports whether phone is a Vietnamese mobile number once
// normalized.
func IsValidPhone(phone string) bool {
	return vnPhonePattern.MatchString(NormalizePhone(phone))
}
