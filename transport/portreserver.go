package transport

import (
	"fmt"
	"net"
	"sync"

	"github.com/pion/logging"
)

// PortReserver pre-binds a small pool of UDP sockets so multiple
// components can obtain consecutive local ports, per spec §4.9 /
// §5 ("shared-resource policy": handed-out sockets are exclusively
// owned by one transport at a time).
type PortReserver struct {
	mu        sync.Mutex
	available []*net.UDPConn
	inUse     map[*net.UDPConn]bool
}

// NewPortReserver binds n consecutive UDP sockets on ip starting at
// startPort (0 lets the kernel choose the first, and subsequent binds
// try consecutively upward).
func NewPortReserver(ip net.IP, startPort int, n int, log logging.LeveledLogger) (*PortReserver, error) {
	if log == nil {
		log = logging.NewDefaultLoggerFactory().NewLogger("transport")
	}
	r := &PortReserver{inUse: make(map[*net.UDPConn]bool)}

	port := startPort
	for len(r.available) < n {
		conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: ip, Port: port})
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("transport: reserve port pool: %w", err)
		}
		ApplySocketOptions(conn, log)
		r.available = append(r.available, conn)
		if port == 0 {
			port = conn.LocalAddr().(*net.UDPAddr).Port //nolint:forcetypeassert // guaranteed by net.ListenUDP
		}
		port++
	}
	return r, nil
}

// Take removes and returns one socket from the pool. The caller owns
// it exclusively until it calls Return.
func (r *PortReserver) Take() (*net.UDPConn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.available) == 0 {
		return nil, false
	}
	conn := r.available[len(r.available)-1]
	r.available = r.available[:len(r.available)-1]
	r.inUse[conn] = true
	return conn, true
}

// Return gives a socket back to the pool. Sockets not originally
// handed out by this reserver are ignored.
func (r *PortReserver) Return(conn *net.UDPConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inUse[conn] {
		return
	}
	delete(r.inUse, conn)
	r.available = append(r.available, conn)
}

// Close closes every socket currently held by the pool (available or
// checked out).
func (r *PortReserver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.available {
		_ = c.Close()
	}
	for c := range r.inUse {
		_ = c.Close()
	}
	r.available = nil
	r.inUse = make(map[*net.UDPConn]bool)
}
