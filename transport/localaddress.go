package transport

import (
	"net"
	"sort"
)

// InterfaceType classifies the kind of network interface a
// LocalAddress was discovered on, used only to influence candidate
// type-preference (spec §3, §4.6 type-preference constants).
type InterfaceType int

// Interface types.
const (
	InterfaceUnknown InterfaceType = iota
	InterfaceEthernet
	InterfaceWifi
	InterfaceVirtual
)

// scope orders addresses from most to least restrictive reachability,
// per spec §3: "loopback < link-local < site-local < private <
// unique-local < global".
type scope int

const (
	scopeLoopback scope = iota
	scopeLinkLocal
	scopeSiteLocal
	scopePrivate
	scopeUniqueLocal
	scopeGlobal
)

// LocalAddress is one local IP address discovered on one interface
// (spec §3).
type LocalAddress struct {
	IP             net.IP
	InterfaceIndex int
	InterfaceType  InterfaceType
}

func classify(ip net.IP) scope {
	switch {
	case ip.IsLoopback():
		return scopeLoopback
	case ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast():
		return scopeLinkLocal
	case isSiteLocal(ip):
		return scopeSiteLocal
	case isPrivate(ip):
		return scopePrivate
	case isUniqueLocal(ip):
		return scopeUniqueLocal
	default:
		return scopeGlobal
	}
}

// isSiteLocal reports the deprecated IPv6 site-local range
// fec0::/10 (RFC 3879), distinct from ULA (fc00::/7).
func isSiteLocal(ip net.IP) bool {
	ip16 := ip.To16()
	if ip16 == nil || ip.To4() != nil {
		return false
	}
	return ip16[0] == 0xfe && ip16[1]&0xc0 == 0xc0
}

// isUniqueLocal reports RFC 4193 IPv6 unique local addresses, fc00::/7.
func isUniqueLocal(ip net.IP) bool {
	ip16 := ip.To16()
	if ip16 == nil || ip.To4() != nil {
		return false
	}
	return ip16[0]&0xfe == 0xfc
}

// isPrivate reports RFC 1918 IPv4 private ranges.
func isPrivate(ip net.IP) bool {
	ip4 := ip.To4()
	if ip4 == nil {
		return false
	}
	return ip4[0] == 10 ||
		(ip4[0] == 172 && ip4[1]&0xf0 == 16) ||
		(ip4[0] == 192 && ip4[1] == 168)
}

// SortLocalAddresses orders addresses by scope ascending (most
// restrictive first), preferring IPv6 within a scope, per spec §3.
func SortLocalAddresses(addrs []LocalAddress) {
	sort.SliceStable(addrs, func(i, j int) bool {
		si, sj := classify(addrs[i].IP), classify(addrs[j].IP)
		if si != sj {
			return si < sj
		}
		iv6, jv6 := addrs[i].IP.To4() == nil, addrs[j].IP.To4() == nil
		if iv6 != jv6 {
			return iv6
		}
		return false
	})
}

// LocalInterfaceAddresses enumerates up, non-loopback local addresses
// suitable for host candidate gathering, following the filtering the
// teacher's localInterfaces applies (skip down/loopback interfaces,
// skip unsupported IPv6 scopes per RFC 8445 §5.1.1.1) plus the
// loopback opt-in the spec allows for test harnesses.
func LocalInterfaceAddresses(includeLoopback bool) ([]LocalAddress, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []LocalAddress
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 && !includeLoopback {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			var ip net.IP
			switch v := a.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil {
				continue
			}
			if ip.IsLoopback() && !includeLoopback {
				continue
			}
			if ip.To4() == nil && !isSupportedIPv6(ip) {
				continue
			}

			typ := InterfaceEthernet
			if iface.Flags&net.FlagPointToPoint != 0 {
				typ = InterfaceVirtual
			}

			out = append(out, LocalAddress{IP: ip, InterfaceIndex: iface.Index, InterfaceType: typ})
		}
	}

	SortLocalAddresses(out)
	return out, nil
}

// isSupportedIPv6 excludes IPv4-compatible, deprecated site-local, and
// link-local IPv6 addresses from host gathering, per RFC 8445
// §5.1.1.1.
func isSupportedIPv6(ip net.IP) bool {
	ip16 := ip.To16()
	if len(ip16) != net.IPv6len {
		return false
	}
	if isZeros(ip16[0:12]) { // IPv4-compatible
		return false
	}
	if isSiteLocal(ip) {
		return false
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return false
	}
	return true
}

func isZeros(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
