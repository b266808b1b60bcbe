// Package turn implements a Traversal Using Relays around NAT (RFC
// 5766) allocation client over UDP: Allocate, CreatePermission,
// ChannelBind, and the Send/Data indication and ChannelData framing
// used to move application bytes through a relay (spec §4.4).
package turn

import "errors"

// Errors surfaced by AllocateClient (spec §7).
var (
	// ErrAllocationMismatch is returned when the server answers
	// Allocate with 437 Allocation Mismatch after the client has
	// exhausted its rebind retries.
	ErrAllocationMismatch = errors.New("turn: allocation mismatch")
	// ErrNoAllocation is returned by operations that require an active
	// allocation (CreatePermission, ChannelBind, Refresh,
	// RefreshChannelBindings) before one has been established.
	ErrNoAllocation = errors.New("turn: no active allocation")
	// ErrChannelsExhausted is returned when every channel number in the
	// valid range (0x4000-0x7FFE) is already bound.
	ErrChannelsExhausted = errors.New("turn: no channel numbers available")
)
