package ice

import "errors"

// Sentinel errors returned directly by the Agent API (spec §7; the
// signalled ErrorKind values are distinct from these, since those are
// asynchronous notifications rather than call-site returns).
var (
	// ErrNotStarted is returned by operations that require start() to
	// have been called first.
	ErrNotStarted = errors.New("ice: agent not started")
	// ErrAlreadyStarted is returned by start() on an agent that is
	// already Starting, Started, or Active.
	ErrAlreadyStarted = errors.New("ice: agent already started")
	// ErrUnknownComponent is returned by component-scoped operations
	// given an id outside [1, component count].
	ErrUnknownComponent = errors.New("ice: unknown component id")
	// ErrStopped names the stopped condition. No Agent method returns
	// it: operations that require a running agent report ErrNotStarted
	// after stop(), and WriteDatagram drops data silently.
	ErrStopped = errors.New("ice: agent stopped")
	// ErrNoCandidates is returned by start_checks() when the checklist
	// holds no candidate pairs at all. A component without local
	// candidates is not detected while other components have pairs.
	ErrNoCandidates = errors.New("ice: no local candidates gathered")
)
