package transport

import "errors"

// Sentinel errors returned by LocalUDPTransport (spec §4.5, §7).
var (
	errNoRelayedPath = errors.New("transport: no relayed path: TURN codec not installed")
	errUnknownPath   = errors.New("transport: unknown path")
)
