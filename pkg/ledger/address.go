package ledger

import (
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)

// ValidateAddress reports whether address is a 0x-prefixed, 64 hex digit account address.
// It is purely syntactic.
func ValidateAddress(address string) bool {
	return addressPattern.MatchString(address)
}

// SameAddress compares two account addresses ignoring hex case.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
