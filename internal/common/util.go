package common

import (
	"net/mail"
	"strings"
)

const AnonymousName = "Anonymous"

// MaskEmail keeps only the local part of the address, the domain is replaced
// by "***".
func MaskEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local + "@***"
}

// IsValidEmail reports whether s is a bare email address, display names are
// not accepted.
func IsValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}

	return addr.Address == s && addr.Name == ""
}

func DisplayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return AnonymousName
	}

	return name
}
