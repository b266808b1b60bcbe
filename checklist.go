package ice

import "sort"

// checklistCapPerComponent is the RFC 8445-specified safety limit:
// 100 pairs per component (spec §4.7 step 7).
const checklistCapPerComponent = 100

// pairRef is a generation-indexed reference to a pair, the
// arena+generation-index translation of the source's weak-pointer
// triggered-check FIFO (spec §9 "Object identity with weak
// references"): a pruned pair's seq is removed from CheckList.pairs,
// so a stale pairRef resolves to (nil, false) instead of resurrecting
// a freed pair.
type pairRef struct{ seq uint64 }

// CheckList holds one agent component-group's candidate pairs: the
// sorted pair list, the triggered-check FIFO, and the valid-list
// (spec §3).
type CheckList struct {
	components int

	nextSeq uint64
	pairs   map[uint64]*CandidatePair
	order   []uint64 // seq, kept sorted by (priority desc, component asc)

	triggered []pairRef
	valid     []uint64 // seq, kept sorted by (priority desc, component asc)
}

// NewCheckList creates an empty checklist for a session with the
// given component count.
func NewCheckList(components int) *CheckList {
	return &CheckList{
		components: components,
		pairs:      make(map[uint64]*CandidatePair),
	}
}

// Add inserts pair into the checklist in sorted position, then prunes
// redundant pairs and enforces the per-component cap (spec §4.7 steps
// 5-7). It returns false if the pair was pruned away (a
// higher-priority redundant pair already existed).
func (c *CheckList) Add(pair *CandidatePair) bool {
	c.nextSeq++
	seq := c.nextSeq
	c.pairs[seq] = pair
	c.order = append(c.order, seq)
	c.sortOrder()
	c.pruneRedundant()
	c.capPerComponent()
	_, stillPresent := c.pairs[seq]
	return stillPresent
}

func (c *CheckList) sortOrder() {
	sort.SliceStable(c.order, func(i, j int) bool {
		a, b := c.pairs[c.order[i]], c.pairs[c.order[j]]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Local.ComponentID < b.Local.ComponentID
	})
}

// pruneRedundant keeps only the highest-priority pair for each
// (component, local base, remote address) key (spec §4.7 step 6). The
// order slice is already priority-descending, so the first pair seen
// for a key is the one kept.
func (c *CheckList) pruneRedundant() {
	seen := make(map[string]bool)
	var kept []uint64
	for _, seq := range c.order {
		p := c.pairs[seq]
		key := p.pruneKey()
		if seen[key] {
			delete(c.pairs, seq)
			continue
		}
		seen[key] = true
		kept = append(kept, seq)
	}
	c.order = kept
}

// capPerComponent drops the lowest-priority pairs once the whole
// checklist exceeds checklistCapPerComponent×components entries
// (spec §4.7 step 7). The limit is global: it is not divided among
// component groups.
func (c *CheckList) capPerComponent() {
	limit := checklistCapPerComponent * c.components
	if limit <= 0 || len(c.order) <= limit {
		return
	}
	for _, seq := range c.order[limit:] {
		delete(c.pairs, seq)
	}
	c.order = c.order[:limit]
}

// Pairs returns the checklist in sorted (priority desc, component asc)
// order.
func (c *CheckList) Pairs() []*CandidatePair {
	out := make([]*CandidatePair, 0, len(c.order))
	for _, seq := range c.order {
		out = append(out, c.pairs[seq])
	}
	return out
}

// Len reports how many pairs remain in the checklist.
func (c *CheckList) Len() int { return len(c.order) }

func (c *CheckList) seqOf(pair *CandidatePair) (uint64, bool) {
	for _, seq := range c.order {
		if c.pairs[seq] == pair {
			return seq, true
		}
	}
	return 0, false
}

// PushTriggered enqueues pair onto the triggered-check FIFO, storing a
// generation-stable reference rather than the pointer itself.
func (c *CheckList) PushTriggered(pair *CandidatePair) {
	seq, ok := c.seqOf(pair)
	if !ok {
		return
	}
	c.triggered = append(c.triggered, pairRef{seq: seq})
}

// PopTriggered dequeues the next live triggered pair, skipping any
// references to pairs pruned out from under the FIFO.
func (c *CheckList) PopTriggered() (*CandidatePair, bool) {
	for len(c.triggered) > 0 {
		ref := c.triggered[0]
		c.triggered = c.triggered[1:]
		if p, ok := c.pairs[ref.seq]; ok {
			return p, true
		}
	}
	return nil, false
}

// NextWaiting returns the highest-priority Waiting pair, if any
// (checklist scheduler step 2, spec §4.8).
func (c *CheckList) NextWaiting() (*CandidatePair, bool) {
	for _, seq := range c.order {
		if p := c.pairs[seq]; p.State == PairWaiting {
			return p, true
		}
	}
	return nil, false
}

// NextFrozen returns the highest-priority Frozen pair, if any
// (checklist scheduler step 3, spec §4.8).
func (c *CheckList) NextFrozen() (*CandidatePair, bool) {
	for _, seq := range c.order {
		if p := c.pairs[seq]; p.State == PairFrozen {
			return p, true
		}
	}
	return nil, false
}

// Unfreeze transitions every Frozen pair sharing foundationPair to
// Waiting (spec §4.8 "Unfreeze", RFC 8445 §7.2.5.3.3).
func (c *CheckList) Unfreeze(foundationPair string) {
	for _, seq := range c.order {
		p := c.pairs[seq]
		if p.State == PairFrozen && p.FoundationPair == foundationPair {
			p.State = PairWaiting
		}
	}
}

// Optimize fails every Frozen/Waiting pair in component whose priority
// is below the component's current best, since a better valid
// candidate already exists (spec §4.8 "Optimize").
func (c *CheckList) Optimize(componentID int, bestPriority int64) {
	for _, seq := range c.order {
		p := c.pairs[seq]
		if p.Local.ComponentID != componentID {
			continue
		}
		if (p.State == PairFrozen || p.State == PairWaiting) && p.Priority < bestPriority {
			p.State = PairFailed
		}
	}
}

// AddValid inserts pair's seq into the valid-list in sorted order
// (priority desc, component asc), matching the checklist's own
// ordering invariant (spec §8 property 3).
func (c *CheckList) AddValid(pair *CandidatePair) {
	seq, ok := c.seqOf(pair)
	if !ok {
		return
	}
	for _, existing := range c.valid {
		if existing == seq {
			return
		}
	}
	c.valid = append(c.valid, seq)
	sort.SliceStable(c.valid, func(i, j int) bool {
		a, b := c.pairs[c.valid[i]], c.pairs[c.valid[j]]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Local.ComponentID < b.Local.ComponentID
	})
}

// RemoveValid drops pair from the valid-list, used when a Binding
// Error arrives for a pair that had previously succeeded.
func (c *CheckList) RemoveValid(pair *CandidatePair) {
	seq, ok := c.seqOf(pair)
	if !ok {
		return
	}
	for i, existing := range c.valid {
		if existing == seq {
			c.valid = append(c.valid[:i], c.valid[i+1:]...)
			return
		}
	}
}

// ValidPairs returns the valid-list in sorted order.
func (c *CheckList) ValidPairs() []*CandidatePair {
	out := make([]*CandidatePair, 0, len(c.valid))
	for _, seq := range c.valid {
		out = append(out, c.pairs[seq])
	}
	return out
}

// AllFrozenOrWaitingDone reports whether every pair in the checklist
// has left the Frozen/Waiting/InProgress states, i.e. the check phase
// for this checklist has nothing left to schedule.
func (c *CheckList) AllFrozenOrWaitingDone() bool {
	for _, seq := range c.order {
		switch c.pairs[seq].State {
		case PairFrozen, PairWaiting, PairInProgress:
			return false
		}
	}
	return true
}
