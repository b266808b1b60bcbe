package stun

import (
	"net"
	"sync"
	"time"

	"github.com/pion/logging"
)

// Retransmission schedule constants from spec §4.2 (RFC 8445
// appendix B.1 / RFC 5389 §7.2.1): initial RTO, doubling on each
// retry, Rc attempts, then one more wait of Rm times the final
// interval before declaring a timeout.
const (
	initialRTO   = 500 * time.Millisecond
	maxAttempts  = 7  // Rc
	finalWaitMul = 16 // Rm
)

// Outgoing is called by the pool whenever it needs to put bytes on
// the wire, for both original sends and retransmissions.
type Outgoing func(b []byte, to net.Addr)

// LongTermCredentials configures a pool to transparently answer
// 401 Unauthorized / 438 Stale Nonce with RFC 5389 §15.4 long-term
// credentials.
type LongTermCredentials struct {
	Username string
	Password string
}

// Request is one STUN request to submit to the pool.
type Request struct {
	// Message is the fully-encoded request, including any short-term
	// MESSAGE-INTEGRITY/USERNAME the caller has already attached.
	Message []byte
	// ID must match the transaction id encoded in Message.
	ID TransactionID
	// Rebuild re-encodes the request once realm/nonce are known, for
	// long-term auth retries. Left nil, a 401/438 response surfaces as
	// ErrAuth instead of being retried.
	Rebuild func(realm, nonce string, creds LongTermCredentials) (encoded []byte, id TransactionID, err error)
	// ResponseIntegrityKey, when non-nil, requires a matching success
	// response to carry a valid MESSAGE-INTEGRITY computed with this
	// key; a response that fails the check is treated as though it
	// never arrived (NotOurs), so a retransmission or timeout follows
	// instead of trusting an unauthenticated answer.
	ResponseIntegrityKey []byte
}

// Handle represents one in-flight (or finished) transaction.
type Handle struct {
	done chan struct{}
	mu   sync.Mutex
	resp *Message
	err  error
}

// Done is closed when the transaction finishes, successfully or not.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Result returns the response and/or error once Done is closed. Safe
// to call before Done closes, but will return zero values.
func (h *Handle) Result() (*Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resp, h.err
}

func (h *Handle) finish(resp *Message, err error) {
	h.mu.Lock()
	h.resp, h.err = resp, err
	h.mu.Unlock()
	close(h.done)
}

type transaction struct {
	id      TransactionID
	dest    net.Addr
	req     Request
	attempt int
	timer   Timer
	handle  *Handle
	// triedLongTerm is set once we've retried with long-term
	// credentials; a second 401 surfaces as ErrAuth rather than
	// retrying forever.
	triedLongTerm bool
	triedStale    bool
}

// TransactionPool matches responses to in-flight requests by
// transaction id, drives the UDP retransmission schedule, and holds
// long-term auth state (spec §4.2).
type TransactionPool struct {
	mu           sync.Mutex
	clock        Clock
	log          logging.LeveledLogger
	send         Outgoing
	transactions map[TransactionID]*transaction
	creds        *LongTermCredentials
	realm        string
	nonce        string
	closed       bool
}

// NewTransactionPool creates a pool that writes outgoing bytes via
// send and (optionally) answers long-term challenges using creds.
func NewTransactionPool(send Outgoing, creds *LongTermCredentials, log logging.LeveledLogger) *TransactionPool {
	if log == nil {
		log = logging.NewDefaultLoggerFactory().NewLogger("stun")
	}
	return &TransactionPool{
		clock:        RealClock(),
		log:          log,
		send:         send,
		transactions: make(map[TransactionID]*transaction),
		creds:        creds,
	}
}

// SetClock overrides the pool's time source, for deterministic tests.
func (p *TransactionPool) SetClock(c Clock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = c
}

// Start begins a new transaction and sends the first copy of the
// request immediately.
func (p *TransactionPool) Start(req Request, dest net.Addr) (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	h := &Handle{done: make(chan struct{})}
	tx := &transaction{
		id:      req.ID,
		dest:    dest,
		req:     req,
		attempt: 1,
		handle:  h,
	}
	p.transactions[req.ID] = tx
	p.armTimer(tx, initialRTO)
	p.send(req.Message, dest)
	return h, nil
}

// armTimer schedules the next retransmission or the final timeout.
// Caller must hold p.mu.
func (p *TransactionPool) armTimer(tx *transaction, interval time.Duration) {
	tx.timer = p.clock.AfterFunc(interval, func() { p.onTimer(tx.id, interval) })
}

func (p *TransactionPool) onTimer(id TransactionID, lastInterval time.Duration) {
	p.mu.Lock()
	tx, ok := p.transactions[id]
	if !ok {
		p.mu.Unlock()
		return
	}

	if tx.attempt >= maxAttempts {
		// Final wait already elapsed: declare timeout.
		delete(p.transactions, id)
		p.mu.Unlock()
		tx.handle.finish(nil, ErrTimeout)
		return
	}

	tx.attempt++
	nextInterval := lastInterval * 2
	if tx.attempt == maxAttempts {
		// After the last retransmission, wait Rm times the final
		// interval before declaring timeout, per spec §4.2.
		p.armTimer(tx, lastInterval*finalWaitMul)
	} else {
		p.armTimer(tx, nextInterval)
	}
	msg := tx.req.Message
	dest := tx.dest
	p.mu.Unlock()

	p.send(msg, dest)
}

// WriteIncoming attempts to match b to an in-flight transaction.
// Returns true if the message was consumed (Handled), false if the
// caller should try other consumers (NotOurs).
func (p *TransactionPool) WriteIncoming(b []byte, _ net.Addr) bool {
	v, m, err := Decode(b, DecodeOptions{})
	if err != nil || v == BadFormat {
		return false
	}
	if m.Type.Class != ClassSuccessResponse && m.Type.Class != ClassErrorResponse {
		return false
	}

	p.mu.Lock()
	tx, ok := p.transactions[m.TransactionID]
	if !ok {
		p.mu.Unlock()
		return false
	}

	if m.Type.Class == ClassErrorResponse {
		code, handled := p.handleErrorResponseLocked(tx, m)
		p.mu.Unlock()
		if handled {
			return true
		}
		tx.handle.finish(nil, classifyError(code))
		return true
	}

	if key := tx.req.ResponseIntegrityKey; key != nil {
		p.mu.Unlock()
		validation, authed, err := Decode(b, DecodeOptions{IntegrityKey: key})
		if err != nil || validation != Good {
			return false
		}
		m = authed
		p.mu.Lock()
		tx, ok = p.transactions[m.TransactionID]
		if !ok {
			p.mu.Unlock()
			return false
		}
	}

	delete(p.transactions, m.TransactionID)
	if tx.timer != nil {
		tx.timer.Stop()
	}
	p.mu.Unlock()

	tx.handle.finish(m, nil)
	return true
}

// handleErrorResponseLocked implements the 401/438 long-term-auth
// retry dance. Caller holds p.mu. Returns (code, true) if the error
// was consumed by a retry (no terminal result yet), or (code, false)
// if it should be surfaced to the caller as a terminal error.
func (p *TransactionPool) handleErrorResponseLocked(tx *transaction, m *Message) (int, bool) {
	attr, ok := m.Get(AttrErrorCode)
	if !ok {
		delete(p.transactions, tx.id)
		return 0, false
	}
	code, _, err := ParseErrorCode(attr.Value)
	if err != nil {
		delete(p.transactions, tx.id)
		return 0, false
	}

	if (code == 401 || code == 438) && p.creds != nil && tx.req.Rebuild != nil {
		realmAttr, hasRealm := m.Get(AttrRealm)
		nonceAttr, hasNonce := m.Get(AttrNonce)
		if hasRealm {
			p.realm = string(realmAttr.Value)
		}
		if hasNonce {
			p.nonce = string(nonceAttr.Value)
		}

		if code == 401 {
			if tx.triedLongTerm {
				delete(p.transactions, tx.id)
				return code, false
			}
			tx.triedLongTerm = true
		} else { // 438 stale nonce
			if tx.triedStale {
				delete(p.transactions, tx.id)
				return code, false
			}
			tx.triedStale = true
		}

		if tx.timer != nil {
			tx.timer.Stop()
		}
		delete(p.transactions, tx.id)

		encoded, newID, rerr := tx.req.Rebuild(p.realm, p.nonce, *p.creds)
		if rerr != nil {
			p.log.Warnf("stun: failed to rebuild request with long-term credentials: %v", rerr)
			return code, false
		}

		newTx := &transaction{
			id:            newID,
			dest:          tx.dest,
			req:           Request{Message: encoded, ID: newID, Rebuild: tx.req.Rebuild},
			attempt:       1,
			handle:        tx.handle,
			triedLongTerm: tx.triedLongTerm,
			triedStale:    tx.triedStale,
		}
		p.transactions[newID] = newTx
		p.armTimer(newTx, initialRTO)
		dest := tx.dest
		p.send(encoded, dest)
		return code, true
	}

	delete(p.transactions, tx.id)
	return code, false
}

func classifyError(code int) error {
	if code == 401 || code == 438 {
		return ErrAuth
	}
	return &RejectedError{Code: code}
}

// Close cancels every in-flight transaction with ErrClosed.
func (p *TransactionPool) Close() {
	p.mu.Lock()
	p.closed = true
	txs := p.transactions
	p.transactions = make(map[TransactionID]*transaction)
	p.mu.Unlock()

	for _, tx := range txs {
		if tx.timer != nil {
			tx.timer.Stop()
		}
		tx.handle.finish(nil, ErrClosed)
	}
}
