package validation

import (
	"regexp"
)

// MaxPrincipalLen matches the varchar(128) principal columns.
const MaxPrincipalLen = 128

// Principals are opaque ids from the gateway: account ids, addresses, emails.
var principalRe = regexp.MustCompile(`^[A-Za-z0-9_.:@\-]+$`)

func IsValidPrincipal(p string) bool {
	return p != "" && len(p) <= MaxPrincipalLen && principalRe.MatchString(p)
}
