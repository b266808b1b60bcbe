package turn

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/netice/ice/stun"
)

// DefaultLifetime is the LIFETIME requested on Allocate and Refresh,
// per spec §4.4 ("requests a 3600s lifetime").
const DefaultLifetime = 3600 * time.Second

// maxAllocationMismatchRetries bounds the 437 Allocation Mismatch
// rebind retry loop (spec §4.4).
const maxAllocationMismatchRetries = 3

// Rebind is called when the server reports 437 Allocation Mismatch:
// the caller must bind a fresh local socket and return an Outgoing
// sender for it.
type Rebind func() (stun.Outgoing, error)

// Config collects AllocateClient construction arguments.
type Config struct {
	Server        net.Addr
	Send          stun.Outgoing
	Credentials   stun.LongTermCredentials
	LoggerFactory logging.LoggerFactory
	Rebind        Rebind
}

// AllocateClient drives one TURN allocation: Allocate, per-peer
// CreatePermission, and ChannelBind for peers that warrant the
// low-overhead ChannelData path (spec §4.4).
type AllocateClient struct {
	mu sync.Mutex

	server net.Addr
	pool   *stun.TransactionPool
	codec  *Codec
	log    logging.LeveledLogger
	creds  stun.LongTermCredentials
	rebind Rebind

	relayed     *net.UDPAddr
	mapped      *net.UDPAddr
	lifetime    time.Duration
	permissions map[string]bool // peer IP -> CreatePermission installed
	nextChannel uint16
}

// NewAllocateClient creates a client that has not yet allocated.
// Allocate must be called before CreatePermission, ChannelBind, or
// Encode/Decode are used.
func NewAllocateClient(cfg Config) *AllocateClient {
	log := cfg.LoggerFactory
	var logger logging.LeveledLogger
	if log != nil {
		logger = log.NewLogger("turn")
	} else {
		logger = logging.NewDefaultLoggerFactory().NewLogger("turn")
	}

	c := &AllocateClient{
		server:      cfg.Server,
		log:         logger,
		creds:       cfg.Credentials,
		rebind:      cfg.Rebind,
		permissions: make(map[string]bool),
		nextChannel: channelNumberMin,
		codec:       newCodec(cfg.Server),
	}
	c.pool = stun.NewTransactionPool(cfg.Send, &cfg.Credentials, logger)
	return c
}

// Codec returns the framer/deframer for this allocation's data
// traffic, suitable for transport.LocalUDPTransport.SetTURNCodec.
func (c *AllocateClient) Codec() *Codec { return c.codec }

// WriteIncoming feeds a datagram read from the TURN server socket to
// the control-plane transaction pool. Returns true if it was a
// control message (request/response), false if the caller should try
// Codec().Decode instead.
func (c *AllocateClient) WriteIncoming(b []byte, from net.Addr) bool {
	return c.pool.WriteIncoming(b, from)
}

func buildAllocate(id stun.TransactionID, realm, nonce string, creds stun.LongTermCredentials) ([]byte, error) {
	setters := []stun.Setter{
		stun.RequestedTransportUDP(),
		stun.Lifetime(uint32(DefaultLifetime.Seconds())),
		stun.DontFragment(),
	}
	if creds.Username != "" {
		setters = append(setters, stun.Username(creds.Username))
	}
	if realm != "" {
		setters = append(setters, stun.Realm(realm))
	}
	if nonce != "" {
		setters = append(setters, stun.Nonce(nonce))
	}
	if realm != "" && creds.Password != "" {
		key := stun.LongTermKey(creds.Username, realm, creds.Password)
		setters = append(setters, stun.MessageIntegrity(key))
	}
	setters = append(setters, stun.Fingerprint())
	return stun.Build(stun.Type{Class: stun.ClassRequest, Method: stun.MethodAllocate}, id, setters...)
}

// Allocate requests a relayed transport address from the server,
// retrying up to maxAllocationMismatchRetries times with a freshly
// bound socket on 437 Allocation Mismatch (spec §4.4).
func (c *AllocateClient) Allocate() (relayed *net.UDPAddr, mapped *net.UDPAddr, err error) {
	for attempt := 0; ; attempt++ {
		relayed, mapped, err = c.allocateOnce()
		if err == nil {
			c.mu.Lock()
			c.relayed, c.mapped, c.lifetime = relayed, mapped, DefaultLifetime
			c.mu.Unlock()
			return relayed, mapped, nil
		}

		var rejected *stun.RejectedError
		if !errors.As(err, &rejected) || rejected.Code != 437 {
			return nil, nil, err
		}
		if attempt >= maxAllocationMismatchRetries {
			return nil, nil, fmt.Errorf("turn: allocate: %w after %d rebinds", ErrAllocationMismatch, attempt)
		}
		if c.rebind == nil {
			return nil, nil, fmt.Errorf("turn: allocate: %w: no rebind configured", ErrAllocationMismatch)
		}
		send, rerr := c.rebind()
		if rerr != nil {
			return nil, nil, fmt.Errorf("turn: rebind after allocation mismatch: %w", rerr)
		}
		c.mu.Lock()
		c.pool = stun.NewTransactionPool(send, &c.creds, c.log)
		c.mu.Unlock()
		c.log.Warnf("turn: allocation mismatch, rebinding (attempt %d)", attempt+1)
	}
}

func (c *AllocateClient) allocateOnce() (*net.UDPAddr, *net.UDPAddr, error) {
	id, err := stun.NewTransactionID()
	if err != nil {
		return nil, nil, err
	}
	msg, err := buildAllocate(id, "", "", stun.LongTermCredentials{})
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	pool := c.pool
	c.mu.Unlock()

	h, err := pool.Start(stun.Request{
		Message: msg,
		ID:      id,
		Rebuild: func(realm, nonce string, creds stun.LongTermCredentials) ([]byte, stun.TransactionID, error) {
			newID, err := stun.NewTransactionID()
			if err != nil {
				return nil, newID, err
			}
			encoded, err := buildAllocate(newID, realm, nonce, creds)
			return encoded, newID, err
		},
	}, c.server)
	if err != nil {
		return nil, nil, err
	}

	<-h.Done()
	resp, err := h.Result()
	if err != nil {
		return nil, nil, err
	}

	relayedAttr, ok := resp.Get(stun.AttrXORRelayedAddress)
	if !ok {
		return nil, nil, fmt.Errorf("%w: Allocate response missing XOR-RELAYED-ADDRESS", stun.ErrProtocol)
	}
	relayedIP, relayedPort, err := stun.DecodeAddress(relayedAttr.Value, true, resp.TransactionID)
	if err != nil {
		return nil, nil, err
	}

	var mapped *net.UDPAddr
	if mappedAttr, ok := resp.Get(stun.AttrXORMappedAddress); ok {
		mappedIP, mappedPort, err := stun.DecodeAddress(mappedAttr.Value, true, resp.TransactionID)
		if err == nil {
			mapped = &net.UDPAddr{IP: mappedIP, Port: mappedPort}
		}
	}

	return &net.UDPAddr{IP: relayedIP, Port: relayedPort}, mapped, nil
}

// CreatePermission installs (or refreshes) a permission for peer's IP
// address, required before any Send indication or ChannelData to that
// peer is forwarded by the server (spec §4.4, one permission per
// distinct peer IP, ignoring port).
func (c *AllocateClient) CreatePermission(peer *net.UDPAddr) error {
	c.mu.Lock()
	if c.relayed == nil {
		c.mu.Unlock()
		return ErrNoAllocation
	}
	if c.permissions[peer.IP.String()] {
		c.mu.Unlock()
		return nil
	}
	pool := c.pool
	c.mu.Unlock()

	id, err := stun.NewTransactionID()
	if err != nil {
		return err
	}
	msg, err := stun.Build(
		stun.Type{Class: stun.ClassRequest, Method: stun.MethodCreatePermission},
		id,
		stun.XORPeerAddress(peer.IP, peer.Port, id),
		stun.Fingerprint(),
	)
	if err != nil {
		return err
	}

	h, err := pool.Start(stun.Request{Message: msg, ID: id}, c.server)
	if err != nil {
		return err
	}
	<-h.Done()
	if _, err := h.Result(); err != nil {
		return fmt.Errorf("turn: create permission for %s: %w", peer.IP, err)
	}

	c.mu.Lock()
	c.permissions[peer.IP.String()] = true
	c.mu.Unlock()
	return nil
}

// ChannelBind binds a 4-byte ChannelData channel to peer, so
// subsequent traffic to/from peer uses the low-overhead framing
// instead of Send/Data indications (spec §4.4). CreatePermission must
// have been called for peer first.
func (c *AllocateClient) ChannelBind(peer *net.UDPAddr) error {
	c.mu.Lock()
	if c.relayed == nil {
		c.mu.Unlock()
		return ErrNoAllocation
	}
	if _, bound := c.codec.channelFor(peer); bound {
		c.mu.Unlock()
		return nil
	}
	channel := c.nextChannel
	if channel > channelNumberMax {
		c.mu.Unlock()
		return ErrChannelsExhausted
	}
	c.nextChannel++
	pool := c.pool
	c.mu.Unlock()

	if err := c.sendChannelBind(pool, peer, channel); err != nil {
		return err
	}

	c.codec.bind(peer, channel)
	return nil
}

// sendChannelBind sends one ChannelBind request for the given
// already-assigned channel number and waits for the response.
func (c *AllocateClient) sendChannelBind(pool *stun.TransactionPool, peer *net.UDPAddr, channel uint16) error {
	id, err := stun.NewTransactionID()
	if err != nil {
		return err
	}
	msg, err := stun.Build(
		stun.Type{Class: stun.ClassRequest, Method: stun.MethodChannelBind},
		id,
		stun.ChannelNumber(channel),
		stun.XORPeerAddress(peer.IP, peer.Port, id),
		stun.Fingerprint(),
	)
	if err != nil {
		return err
	}

	h, err := pool.Start(stun.Request{Message: msg, ID: id}, c.server)
	if err != nil {
		return err
	}
	<-h.Done()
	if _, err := h.Result(); err != nil {
		return fmt.Errorf("turn: channel bind for %s: %w", peer, err)
	}
	return nil
}

// RefreshChannelBindings re-sends ChannelBind for every peer this
// allocation has bound a channel to, resetting the server's 10-minute
// channel timeout (RFC 5766 §11, refreshed every ~9 min per spec §5).
func (c *AllocateClient) RefreshChannelBindings() error {
	c.mu.Lock()
	if c.relayed == nil {
		c.mu.Unlock()
		return ErrNoAllocation
	}
	pool := c.pool
	bindings := c.codec.Bindings()
	c.mu.Unlock()

	for _, peer := range bindings {
		udp, ok := peer.(*net.UDPAddr)
		if !ok {
			continue
		}
		channel, bound := c.codec.channelFor(udp)
		if !bound {
			continue
		}
		if err := c.sendChannelBind(pool, udp, channel); err != nil {
			return err
		}
	}
	return nil
}

func buildRefresh(id stun.TransactionID, lifetimeSeconds uint32, realm, nonce string, creds stun.LongTermCredentials) ([]byte, error) {
	setters := []stun.Setter{
		stun.Lifetime(lifetimeSeconds),
	}
	if creds.Username != "" {
		setters = append(setters, stun.Username(creds.Username))
	}
	if realm != "" {
		setters = append(setters, stun.Realm(realm))
	}
	if nonce != "" {
		setters = append(setters, stun.Nonce(nonce))
	}
	if realm != "" && creds.Password != "" {
		key := stun.LongTermKey(creds.Username, realm, creds.Password)
		setters = append(setters, stun.MessageIntegrity(key))
	}
	setters = append(setters, stun.Fingerprint())
	return stun.Build(stun.Type{Class: stun.ClassRequest, Method: stun.MethodRefresh}, id, setters...)
}

// Refresh sends a Refresh request extending (or, with lifetimeSeconds
// 0, deallocating) the allocation, per spec §5: "TURN allocation
// lifetime is refreshed at ~half-lifetime" and stop() sends a Refresh
// with lifetime=0 to deallocate cleanly. The request is first sent
// without credentials; on a 401 or 438 challenge the pool re-encodes
// it once with the realm and nonce from that challenge and the
// configured long-term credentials.
func (c *AllocateClient) Refresh(lifetimeSeconds uint32) error {
	c.mu.Lock()
	if c.relayed == nil {
		c.mu.Unlock()
		return ErrNoAllocation
	}
	pool := c.pool
	c.mu.Unlock()

	id, err := stun.NewTransactionID()
	if err != nil {
		return err
	}
	msg, err := buildRefresh(id, lifetimeSeconds, "", "", stun.LongTermCredentials{})
	if err != nil {
		return err
	}

	h, err := pool.Start(stun.Request{
		Message: msg,
		ID:      id,
		Rebuild: func(realm, nonce string, rcreds stun.LongTermCredentials) ([]byte, stun.TransactionID, error) {
			newID, err := stun.NewTransactionID()
			if err != nil {
				return nil, newID, err
			}
			encoded, err := buildRefresh(newID, lifetimeSeconds, realm, nonce, rcreds)
			return encoded, newID, err
		},
	}, c.server)
	if err != nil {
		return err
	}

	<-h.Done()
	if _, err := h.Result(); err != nil {
		return fmt.Errorf("turn: refresh(%d): %w", lifetimeSeconds, err)
	}

	c.mu.Lock()
	c.lifetime = time.Duration(lifetimeSeconds) * time.Second
	if lifetimeSeconds == 0 {
		c.relayed = nil
	}
	c.mu.Unlock()
	return nil
}

// Lifetime returns the lifetime granted by the most recent successful
// Allocate or Refresh.
func (c *AllocateClient) Lifetime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lifetime
}

// RelayedAddress returns the relayed transport address from the most
// recent successful Allocate, or nil if none has succeeded yet.
func (c *AllocateClient) RelayedAddress() *net.UDPAddr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.relayed
}

// MappedAddress returns the server-reflexive address observed during
// Allocate, if the server included one.
func (c *AllocateClient) MappedAddress() *net.UDPAddr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mapped
}

// Close tears down the underlying transaction pool. It does not send
// a Refresh with LIFETIME 0 itself; callers that need a clean
// deallocation must call Refresh(0) first.
func (c *AllocateClient) Close() {
	c.mu.Lock()
	pool := c.pool
	c.mu.Unlock()
	pool.Close()
}
