package transport

import (
	"net"
	"sync"

	"github.com/pion/logging"
)

// Path identifies one of the two logical routes a LocalUDPTransport
// can move bytes over (spec §4.5).
type Path int

// Paths.
const (
	PathDirect  Path = 0
	PathRelayed Path = 1
)

// STUNSink is the subset of stun.TransactionPool.WriteIncoming that
// the transport needs: attempt to match an inbound datagram to an
// in-flight transaction, reporting whether it was consumed.
type STUNSink interface {
	WriteIncoming(b []byte, from net.Addr) bool
}

// TURNCodec is the subset of turn.AllocateClient the transport needs
// to move the Relayed path's bytes to and from TURN framing (spec
// §4.4 encode/decode, §4.5 "calls TURN encode then sends").
type TURNCodec interface {
	Decode(b []byte) (payload []byte, peer net.Addr, ok bool)
	Encode(payload []byte, peer net.Addr) ([]byte, error)
	ServerAddr() net.Addr
}

// Datagram is one classified inbound application datagram.
type Datagram struct {
	Path Path
	From net.Addr
	Data []byte
}

// LocalUDPTransport owns one UDP socket and classifies every inbound
// datagram as STUN/TURN control traffic or application data on the
// Direct or Relayed path (spec §4.5).
type LocalUDPTransport struct {
	mu sync.Mutex

	conn      *net.UDPConn
	borrowed  bool
	reserver  *PortReserver
	log       logging.LeveledLogger

	stunSink   STUNSink
	turn       TURNCodec
	serviceSet map[string]bool // known STUN/TURN service addresses, keyed by Address.String()

	incoming chan Datagram
	written  func(path Path, count int, dest net.Addr)

	closed bool
	done   chan struct{}
}

// Config collects LocalUDPTransport construction arguments.
type Config struct {
	Conn          *net.UDPConn
	Borrowed      bool
	Reserver      *PortReserver
	LoggerFactory logging.LoggerFactory
	// OnDatagramsWritten is called after every successful write,
	// surfacing the datagrams_written(path, count, dest) signal from
	// spec §6.
	OnDatagramsWritten func(path Path, count int, dest net.Addr)
}

// NewLocalUDPTransport wraps an already-bound socket and starts its
// read loop.
func NewLocalUDPTransport(cfg Config) *LocalUDPTransport {
	var log logging.LeveledLogger
	if cfg.LoggerFactory != nil {
		log = cfg.LoggerFactory.NewLogger("transport")
	} else {
		log = logging.NewDefaultLoggerFactory().NewLogger("transport")
	}

	t := &LocalUDPTransport{
		conn:       cfg.Conn,
		borrowed:   cfg.Borrowed,
		reserver:   cfg.Reserver,
		log:        log,
		serviceSet: make(map[string]bool),
		incoming:   make(chan Datagram, 256),
		written:    cfg.OnDatagramsWritten,
		done:       make(chan struct{}),
	}
	go t.readLoop()
	return t
}

// LocalAddr returns the bound socket address.
func (t *LocalUDPTransport) LocalAddr() *net.UDPAddr {
	return t.conn.LocalAddr().(*net.UDPAddr) //nolint:forcetypeassert // guaranteed by net.ListenUDP
}

// Incoming is the channel of classified application datagrams ready
// for the ICE component / agent to consume.
func (t *LocalUDPTransport) Incoming() <-chan Datagram { return t.incoming }

// SetSTUNSink installs the Transaction Pool that should see every
// datagram arriving from a known STUN/TURN service address.
func (t *LocalUDPTransport) SetSTUNSink(sink STUNSink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stunSink = sink
}

// SetTURNCodec installs the TURN client used to encode outbound and
// decode inbound Relayed-path traffic. Its presence is what makes
// PathRelayed available on this transport (spec §4.5).
func (t *LocalUDPTransport) SetTURNCodec(c TURNCodec) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turn = c
	if c != nil {
		if addr, ok := AddressFromAddr(c.ServerAddr()); ok {
			t.serviceSet[addr.String()] = true
		}
	}
}

// AddServiceAddress marks addr as a known STUN/TURN service, so
// inbound datagrams from it are classified as control traffic rather
// than application data (spec §4.5 step 1).
func (t *LocalUDPTransport) AddServiceAddress(addr net.Addr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := AddressFromAddr(addr); ok {
		t.serviceSet[a.String()] = true
	}
}

const maxDatagramSize = 1500

func (t *LocalUDPTransport) readLoop() {
	buf := make([]byte, maxDatagramSize)
	for {
		n, from, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-t.done:
			default:
				t.log.Debugf("transport: read error: %v", err)
			}
			close(t.incoming)
			return
		}
		t.classify(append([]byte{}, buf[:n]...), from)
	}
}

// classify implements spec §4.5's per-datagram dispatch.
func (t *LocalUDPTransport) classify(data []byte, from *net.UDPAddr) {
	t.mu.Lock()
	sink := t.stunSink
	turnCodec := t.turn
	isService := t.isServiceAddressLocked(from)
	t.mu.Unlock()

	if isService {
		if sink != nil && sink.WriteIncoming(data, from) {
			return
		}
		if turnCodec != nil {
			if payload, peer, ok := turnCodec.Decode(data); ok {
				t.deliver(Datagram{Path: PathRelayed, From: peer, Data: payload})
				return
			}
		}
		// Known service address but neither consumer recognized the
		// datagram: drop it silently, matching the teacher's handling
		// of unparsable STUN traffic.
		return
	}

	t.deliver(Datagram{Path: PathDirect, From: from, Data: data})
}

func (t *LocalUDPTransport) isServiceAddressLocked(addr net.Addr) bool {
	a, ok := AddressFromAddr(addr)
	if !ok {
		return false
	}
	return t.serviceSet[a.String()]
}

func (t *LocalUDPTransport) deliver(d Datagram) {
	select {
	case t.incoming <- d:
	case <-t.done:
	}
}

// Write sends bytes on path to dest, applying TURN framing for
// PathRelayed (spec §4.5 outbound).
func (t *LocalUDPTransport) Write(path Path, b []byte, dest net.Addr) (int, error) {
	t.mu.Lock()
	turnCodec := t.turn
	t.mu.Unlock()

	switch path {
	case PathDirect:
		n, err := t.conn.WriteTo(b, dest)
		if err == nil && t.written != nil {
			t.written(path, 1, dest)
		}
		return n, err
	case PathRelayed:
		if turnCodec == nil {
			return 0, errNoRelayedPath
		}
		encoded, err := turnCodec.Encode(b, dest)
		if err != nil {
			return 0, err
		}
		n, err := t.conn.WriteTo(encoded, turnCodec.ServerAddr())
		if err == nil && t.written != nil {
			t.written(path, 1, dest)
		}
		return n, err
	default:
		return 0, errUnknownPath
	}
}

// Stop closes the socket, or returns it to its port reserver if it
// was borrowed from one (spec §4.5 "Borrowed sockets").
func (t *LocalUDPTransport) Stop() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	close(t.done)
	if t.borrowed && t.reserver != nil {
		t.reserver.Return(t.conn)
		return nil
	}
	return t.conn.Close()
}
