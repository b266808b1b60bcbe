// Package transport implements the local UDP transport (spec §4.5),
// its port reservation pool (spec §4.9), and the value types shared
// by every layer above it: TransportAddress and LocalAddress
// (spec §3).
package transport

import (
	"fmt"
	"net"
)

// Address is a hashable (IP, port) pair. It is used as a map key
// throughout the agent and checklist (spec §3).
type Address struct {
	IP   string // net.IP.String(), canonicalized so it can be a map key
	Port int
}

// AddressFrom builds an Address from a net.IP and port.
func AddressFrom(ip net.IP, port int) Address {
	return Address{IP: ip.String(), Port: port}
}

// AddressFromAddr builds an Address from a net.Addr (UDPAddr only).
func AddressFromAddr(addr net.Addr) (Address, bool) {
	udp, ok := addr.(*net.UDPAddr)
	if !ok {
		return Address{}, false
	}
	return AddressFrom(udp.IP, udp.Port), true
}

// UDPAddr converts back to a *net.UDPAddr.
func (a Address) UDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: net.ParseIP(a.IP), Port: a.Port}
}

func (a Address) String() string {
	return fmt.Sprintf("%s:%d", a.IP, a.Port)
}

// IsIPv6 reports whether the address holds an IPv6 literal.
func (a Address) IsIPv6() bool {
	ip := net.ParseIP(a.IP)
	return ip != nil && ip.To4() == nil
}

// IsLoopback reports whether the address holds a loopback literal.
func (a Address) IsLoopback() bool {
	ip := net.ParseIP(a.IP)
	return ip != nil && ip.IsLoopback()
}
