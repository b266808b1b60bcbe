//go:build linux

package transport

import (
	"net"

	"golang.org/x/sys/unix"
)

// setDontFragment sets IP_MTU_DISCOVER to IP_PMTUDISC_DO, the Linux
// mechanism for forcing the Don't Fragment bit on outgoing datagrams.
func setDontFragment(conn *net.UDPConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	err = raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_MTU_DISCOVER, unix.IP_PMTUDISC_DO)
	})
	if err != nil {
		return err
	}
	return sockErr
}
