package transport

import (
	"net"

	"github.com/pion/logging"
	"golang.org/x/net/ipv4"
)

// tosBestEffort is the DSCP/TOS value left on gathered sockets: plain
// best-effort, matching the teacher's unadorned UDP listeners. Only
// the Don't-Fragment bit (set by setDontFragment, platform-specific)
// actually changes ICE behavior; TOS is wired here mostly so the
// ipv4.PacketConn path is exercised for both options together.
const tosBestEffort = 0

// ApplySocketOptions sets the best-effort TOS and (on platforms that
// support it) the Don't-Fragment bit on a freshly bound host-candidate
// socket, so PMTU discovery governs fragmentation instead of
// intermediate routers (spec §4.6 gathering, RFC 8445 §5.1.1.1 MTU
// note). Failures are logged and otherwise ignored: a socket that
// can't take these options is still usable for ICE.
func ApplySocketOptions(conn *net.UDPConn, log logging.LeveledLogger) {
	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetTOS(tosBestEffort); err != nil {
		log.Debugf("transport: set TOS on %v: %v", conn.LocalAddr(), err)
	}
	if err := setDontFragment(conn); err != nil {
		log.Debugf("transport: set don't-fragment on %v: %v", conn.LocalAddr(), err)
	}
}
