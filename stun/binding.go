package stun

import (
	"errors"
	"net"

	"github.com/pion/logging"
)

// BindingClient sends a single Binding Request through a
// TransactionPool and extracts the reflexive address from the
// response, per spec §4.3.
type BindingClient struct {
	pool *TransactionPool
	log  logging.LeveledLogger
}

// NewBindingClient wraps an existing pool (the pool is typically
// shared with a TURN allocation or owned solely by this client).
func NewBindingClient(pool *TransactionPool, log logging.LeveledLogger) *BindingClient {
	if log == nil {
		log = logging.NewDefaultLoggerFactory().NewLogger("stun")
	}
	return &BindingClient{pool: pool, log: log}
}

// Bind sends one Binding Request to server and returns the reflexive
// address once the transaction completes. Errors are ErrTimeout,
// ErrRejected, or ErrProtocol (spec §4.3).
func (c *BindingClient) Bind(server net.Addr) (net.IP, int, error) {
	id, err := NewTransactionID()
	if err != nil {
		return nil, 0, err
	}
	msg, err := Build(Type{Class: ClassRequest, Method: MethodBinding}, id, Fingerprint())
	if err != nil {
		return nil, 0, err
	}

	h, err := c.pool.Start(Request{Message: msg, ID: id}, server)
	if err != nil {
		return nil, 0, err
	}

	<-h.Done()
	resp, err := h.Result()
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, 0, ErrTimeout
		}
		return nil, 0, ErrRejected
	}

	return extractMappedAddress(resp)
}

// extractMappedAddress prefers XOR-MAPPED-ADDRESS, falling back to
// MAPPED-ADDRESS, per spec §4.3.
func extractMappedAddress(m *Message) (net.IP, int, error) {
	if attr, ok := m.Get(AttrXORMappedAddress); ok {
		ip, port, err := DecodeAddress(attr.Value, true, m.TransactionID)
		if err != nil {
			return nil, 0, ErrProtocol
		}
		return ip, port, nil
	}
	if attr, ok := m.Get(AttrMappedAddress); ok {
		ip, port, err := DecodeAddress(attr.Value, false, m.TransactionID)
		if err != nil {
			return nil, 0, ErrProtocol
		}
		return ip, port, nil
	}
	return nil, 0, ErrProtocol
}
