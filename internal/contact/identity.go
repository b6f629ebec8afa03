package contact

import "strings"

// countryCodeLen is the number of digits assumed to follow a '+' prefix.
const countryCodeLen = 3

// PhoneMatch reports whether two phone numbers refer to the same subscriber.
//
// Numbers longer than 8 characters that are byte-identical match
// immediately. Otherwise each number is stripped of its presumed prefix
// independently: a leading '+' drops the plus and the next three characters
// (country code), a leading '0' drops just that digit (trunk prefix). The
// stripped remainders must be non-empty and identical. This lets
// "08123456789" match "+2348123456789" while rejecting bare country-code
// strings like "+234".
//
// The rule is a heuristic, not an equivalence relation: for malformed
// inputs it can be non-transitive. Callers treat it as a documented
// approximation.
func PhoneMatch(a, b string) bool {
	if len(a) > 8 && len(b) > 8 && a == b {
		return true
	}

	sa, ok := stripPrefix(a)
	if !ok {
		return false
	}
	sb, ok := stripPrefix(b)
	if !ok {
		return false
	}
	if sa == "" || sb == "" {
		return false
	}
	return sa == sb
}

// stripPrefix removes the presumed dialing prefix from a number. It reports
// false when the number is too short for the prefix it claims.
func stripPrefix(n string) (string, bool) {
	switch {
	case strings.HasPrefix(n, "+"):
		if len(n) < 1+countryCodeLen {
			return "", false
		}
		return n[1+countryCodeLen:], true
	case strings.HasPrefix(n, "0"):
		return n[1:], true
	default:
		return n, true
	}
}

// SameIdentity reports whether two contacts represent the same real-world
// person: case-insensitive name equality plus PhoneMatch. Identifier,
// email, tag and timestamps do not participate.
func SameIdentity(a, b *Contact) bool {
	return strings.EqualFold(a.Name, b.Name) && PhoneMatch(a.Phone, b.Phone)
}
