package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the address's domain has an MX record
// or, failing that, resolves to any IP at all. Registration-time sanity
// check only; deliverability is the mailer's problem.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}
