package transport

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressIsLoopback(t *testing.T) {
	require.True(t, AddressFrom(net.ParseIP("127.0.0.1"), 1).IsLoopback())
	require.True(t, AddressFrom(net.ParseIP("::1"), 1).IsLoopback())
	require.False(t, AddressFrom(net.ParseIP("192.0.2.1"), 1).IsLoopback())
}

func TestAddressIsIPv6(t *testing.T) {
	require.False(t, AddressFrom(net.ParseIP("192.0.2.1"), 1).IsIPv6())
	require.True(t, AddressFrom(net.ParseIP("2001:db8::1"), 1).IsIPv6())
}

func TestAddressFromAddr(t *testing.T) {
	addr, ok := AddressFromAddr(&net.UDPAddr{IP: net.ParseIP("192.0.2.1"), Port: 4000})
	require.True(t, ok)
	require.Equal(t, "192.0.2.1", addr.IP)
	require.Equal(t, 4000, addr.Port)

	_, ok = AddressFromAddr(&net.TCPAddr{IP: net.ParseIP("192.0.2.1"), Port: 4000})
	require.False(t, ok)
}
