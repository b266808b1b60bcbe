//go:build !linux

package transport

import "net"

// setDontFragment is a no-op outside Linux: IP_MTU_DISCOVER has no
// portable equivalent, and an unfragmented-by-default socket is an
// acceptable fallback rather than a hard requirement.
func setDontFragment(conn *net.UDPConn) error {
	_ = conn
	return nil
}
