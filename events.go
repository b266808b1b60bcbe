package ice

import "net"

// ErrorKind classifies the failures the agent can surface through
// OnError before transitioning to Stopped (spec §7).
type ErrorKind int

// Error kinds.
const (
	ErrorBind ErrorKind = iota
	ErrorStun
	ErrorTurn
	ErrorGeneric
	ErrorDisconnected
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorBind:
		return "bind"
	case ErrorStun:
		return "stun"
	case ErrorTurn:
		return "turn"
	case ErrorGeneric:
		return "generic"
	case ErrorDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Handler collects the signal callbacks an Agent emits (spec §6
// "Signals"). Every field is optional; nil callbacks are simply not
// invoked. Handlers are called synchronously on whichever goroutine
// raised the event (an API call, a socket reader or a timer), so they
// can run concurrently with one another, and must not block.
type Handler struct {
	OnStarted                func()
	OnLocalCandidatesReady    func(candidates []CandidateInfo)
	OnLocalGatheringComplete  func()
	OnComponentReady          func(componentID int)
	OnReadyToSendMedia        func()
	OnICEFinished             func()
	OnReadyRead               func(componentID int)
	OnDatagramsWritten        func(componentID int, count int)
	OnError                   func(kind ErrorKind)
	OnStopped                 func()
}

func (h *Handler) started() {
	if h != nil && h.OnStarted != nil {
		h.OnStarted()
	}
}

func (h *Handler) localCandidatesReady(cands []CandidateInfo) {
	if h != nil && h.OnLocalCandidatesReady != nil {
		h.OnLocalCandidatesReady(cands)
	}
}

func (h *Handler) localGatheringComplete() {
	if h != nil && h.OnLocalGatheringComplete != nil {
		h.OnLocalGatheringComplete()
	}
}

func (h *Handler) componentReady(id int) {
	if h != nil && h.OnComponentReady != nil {
		h.OnComponentReady(id)
	}
}

func (h *Handler) readyToSendMedia() {
	if h != nil && h.OnReadyToSendMedia != nil {
		h.OnReadyToSendMedia()
	}
}

func (h *Handler) iceFinished() {
	if h != nil && h.OnICEFinished != nil {
		h.OnICEFinished()
	}
}

func (h *Handler) readyRead(id int) {
	if h != nil && h.OnReadyRead != nil {
		h.OnReadyRead(id)
	}
}

func (h *Handler) datagramsWritten(id int, count int) {
	if h != nil && h.OnDatagramsWritten != nil {
		h.OnDatagramsWritten(id, count)
	}
}

func (h *Handler) errorOccurred(kind ErrorKind) {
	if h != nil && h.OnError != nil {
		h.OnError(kind)
	}
}

func (h *Handler) stopped() {
	if h != nil && h.OnStopped != nil {
		h.OnStopped()
	}
}

// ExternalAddress maps a base local address to a statically-known NAT
// mapping (spec §6 set_external_addresses).
type ExternalAddress struct {
	Base net.IP
	Addr net.IP
	Port int
}
