package ice

import (
	"fmt"

	"github.com/netice/ice/stun"
)

// CandidatePairState is one of the five states a pair moves through
// during the check phase (spec §3, §4.8).
type CandidatePairState int

// Pair states. The zero value, Frozen, is the state every newly
// constructed pair starts in.
const (
	PairFrozen CandidatePairState = iota
	PairWaiting
	PairInProgress
	PairSucceeded
	PairFailed
)

func (s CandidatePairState) String() string {
	switch s {
	case PairFrozen:
		return "frozen"
	case PairWaiting:
		return "waiting"
	case PairInProgress:
		return "in-progress"
	case PairSucceeded:
		return "succeeded"
	case PairFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PairPriority computes the RFC 8445 §6.1.2.3 combined pair priority:
// 2^32·min(G,D) + 2·max(G,D) + (G>D ? 1 : 0), where G is the
// controlling side's candidate priority and D is the controlled
// side's. The formula is symmetric: both agents compute the same
// 64-bit value given the same (G, D) (spec §8 property 6).
func PairPriority(controllingPriority, controlledPriority uint32) int64 {
	g, d := int64(controllingPriority), int64(controlledPriority)
	minGD, maxGD := g, d
	if d < g {
		minGD, maxGD = d, g
	}
	extra := int64(0)
	if g > d {
		extra = 1
	}
	return (minGD << 32) + 2*maxGD + extra
}

// CandidatePair is one local candidate paired with one remote
// candidate under evaluation by the checklist (spec §3).
type CandidatePair struct {
	Local  *Candidate
	Remote *CandidateInfo

	Priority int64
	State    CandidatePairState

	// FoundationPair groups this pair with others sharing the same
	// local and remote foundations, used by the unfreeze step
	// (spec §4.8).
	FoundationPair string

	IsValid                bool
	IsNominated             bool
	IsTriggered             bool
	IsTriggeredForNominated bool
	FinalNomination         bool

	// bindingCount tracks how many Binding Requests have been sent on
	// this pair, used to distinguish a fresh check from a retry for
	// logging.
	bindingCount int

	handle *stun.Handle
	pool   *stun.TransactionPool
}

func pairFoundation(local, remote *CandidateInfo) string {
	return local.Foundation + "/" + remote.Foundation
}

// NewCandidatePair constructs a Frozen pair and computes its priority
// from the controlling side's perspective (spec §4.7 step 4).
func NewCandidatePair(local *Candidate, remote *CandidateInfo, weAreControlling bool) *CandidatePair {
	var g, d uint32
	if weAreControlling {
		g, d = local.Priority, remote.Priority
	} else {
		g, d = remote.Priority, local.Priority
	}
	return &CandidatePair{
		Local:          local,
		Remote:         remote,
		Priority:       PairPriority(g, d),
		State:          PairFrozen,
		FoundationPair: pairFoundation(&local.CandidateInfo, remote),
	}
}

// pruneKey identifies pairs that are redundant for checklist pruning:
// same component, same local base, same remote address (spec §4.7
// step 6).
func (p *CandidatePair) pruneKey() string {
	return fmt.Sprintf("%d|%s|%s", p.Local.ComponentID, p.Local.Base.String(), p.Remote.Address.String())
}
