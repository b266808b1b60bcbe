package ice

import (
	"sync"

	"github.com/pion/logging"

	"github.com/netice/ice/transport"
)

// relayedSlotOffset gives the relayed path's ordinal a disjoint range
// from the direct path's when computing peer-reflexive priority slots
// (spec §4.6). A transport carries at most one TURN allocation in
// this implementation, so only the single +512 offset is used.
const relayedSlotOffset = 512

// Component is the runtime state for one media component: its
// gathered candidates, its selected pair once chosen, and the
// bookkeeping the agent's check scheduler needs (spec §3).
type Component struct {
	mu sync.Mutex

	id  int
	log logging.LeveledLogger

	candidates      []*Candidate
	directOrdinal   int
	relayedOrdinal  int

	checklist *CheckList

	highestPriorityValid *CandidatePair
	nominated            *CandidatePair
	selectedPair         *CandidatePair
	hasValid             bool
	hasNominated         bool
	lowOverhead          bool
	stopped              bool

	localFinished      bool
	gatheringComplete  bool
}

// NewComponent creates a Component backed by checklist for pairing.
func NewComponent(id int, checklist *CheckList, log logging.LeveledLogger) *Component {
	return &Component{id: id, checklist: checklist, log: log}
}

// ID returns the component's 1-based identifier.
func (c *Component) ID() int { return c.id }

// AddCandidate registers a newly gathered local candidate, assigning
// it the next ordinal on its path and deduplicating against
// candidates that share (base, address) (spec §4.6: "two candidates
// are redundant when they share (base, address, component) and the
// lower-priority one is dropped").
func (c *Component) AddCandidate(cand *Candidate) (added bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.candidates {
		if existing.Base == cand.Base && existing.Address == cand.Address {
			if cand.Priority <= existing.Priority {
				return false
			}
			c.candidates[i] = cand
			return true
		}
	}

	switch cand.Path {
	case transport.PathDirect:
		c.directOrdinal++
	case transport.PathRelayed:
		c.relayedOrdinal++
	}
	c.candidates = append(c.candidates, cand)
	return true
}

// RemoveCandidate drops the candidate with the given id, if present,
// so a withdrawn STUN/TURN service's stale candidates can be cleaned
// up (spec §6 service_removed). It does not touch any pair already
// built from the candidate; a pair referencing a removed candidate
// simply stops being offered new checks once its foundation group is
// exhausted.
func (c *Component) RemoveCandidate(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cand := range c.candidates {
		if cand.ID == id {
			c.candidates = append(c.candidates[:i], c.candidates[i+1:]...)
			return true
		}
	}
	return false
}

// Candidates returns every candidate gathered for this component.
func (c *Component) Candidates() []*Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Candidate, len(c.candidates))
	copy(out, c.candidates)
	return out
}

// PeerReflexivePriority computes the priority a peer-reflexive
// candidate discovered via a check sent from local would carry, per
// spec §4.6: default priority(PeerReflexive, 65535-slot, iface,
// component) where slot is local's ordinal within its path's
// candidate array.
func (c *Component) PeerReflexivePriority(local *Candidate, onVirtualInterface bool) uint32 {
	c.mu.Lock()
	slot := 0
	for i, existing := range c.candidates {
		if existing == local {
			slot = c.pathOrdinal(i, local.Path)
			break
		}
	}
	c.mu.Unlock()

	localPref := uint16(65535 - slot)
	return Priority(CandidateTypePeerReflexive, onVirtualInterface, localPref, c.id)
}

// pathOrdinal returns index's ordinal within its own path's
// candidate array, offset per relayedSlotOffset for the Relayed path.
// Caller holds c.mu.
func (c *Component) pathOrdinal(index int, path transport.Path) int {
	ordinal := 0
	for i := 0; i < index; i++ {
		if c.candidates[i].Path == path {
			ordinal++
		}
	}
	if path == transport.PathRelayed {
		return ordinal + relayedSlotOffset
	}
	return ordinal
}

// MarkLocalFinished records that every host candidate has been
// reported, emitting local_finished semantics to the caller (spec
// §4.6). It returns true the first time it transitions.
func (c *Component) MarkLocalFinished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.localFinished {
		return false
	}
	c.localFinished = true
	return true
}

// LocalFinished reports whether MarkLocalFinished has been called.
func (c *Component) LocalFinished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localFinished
}

// MarkGatheringComplete records that no further candidates of any
// type can arrive (spec §4.6). It returns true the first time it
// transitions.
func (c *Component) MarkGatheringComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gatheringComplete {
		return false
	}
	c.gatheringComplete = true
	return true
}

// GatheringComplete reports whether MarkGatheringComplete has fired.
func (c *Component) GatheringComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gatheringComplete
}

// FlagLowOverhead marks this component as carrying frequent small
// datagrams, a hint that feeds ChannelBind decisions on any relayed
// pair it ends up using (spec §6 flag_component_as_low_overhead).
func (c *Component) FlagLowOverhead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lowOverhead = true
}

// LowOverhead reports the flag set by FlagLowOverhead.
func (c *Component) LowOverhead() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lowOverhead
}

// SetHighestPriorityValid updates the component's record of its best
// valid pair if candidate outranks the current one.
func (c *Component) SetHighestPriorityValid(pair *CandidatePair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasValid = true
	if c.highestPriorityValid == nil || pair.Priority > c.highestPriorityValid.Priority {
		c.highestPriorityValid = pair
	}
}

// HighestPriorityValid returns the component's best valid pair so
// far, if any.
func (c *Component) HighestPriorityValid() (*CandidatePair, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highestPriorityValid, c.highestPriorityValid != nil
}

// HasValid reports whether any pair has ever succeeded for this
// component.
func (c *Component) HasValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasValid
}

// Select permanently sets the component's selected pair. Once set, it
// is never replaced for the remainder of the session (spec §3
// invariant).
func (c *Component) Select(pair *CandidatePair) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selectedPair != nil {
		return false
	}
	c.selectedPair = pair
	return true
}

// SelectedPair returns the component's permanently selected pair, if
// any has been chosen.
func (c *Component) SelectedPair() (*CandidatePair, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedPair, c.selectedPair != nil
}

// MarkNominated records pair as nominated, keeping track of the
// highest-priority nominated pair seen so far so the responder's
// ordinary-mode nomination timer can pick the peer's actual choice
// rather than merely the best valid pair (spec §4.9 "Responder").
func (c *Component) MarkNominated(pair *CandidatePair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasNominated = true
	if c.nominated == nil || pair.Priority > c.nominated.Priority {
		c.nominated = pair
	}
}

// HasNominated reports whether any pair has been nominated yet.
func (c *Component) HasNominated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasNominated
}

// Nominated returns the highest-priority pair marked nominated so
// far, if any.
func (c *Component) Nominated() (*CandidatePair, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nominated, c.nominated != nil
}

// Stop marks the component stopped; further checks and writes are
// expected to be dropped by the caller.
func (c *Component) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

// Stopped reports whether Stop has been called.
func (c *Component) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}
