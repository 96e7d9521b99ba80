package network

import (
	"errors"
	"net"
)

// IsConnectionError reports failures that happened before any response
// arrived: DNS lookups and refused, reset or timed out connections.
func IsConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
