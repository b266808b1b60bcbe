package ice

// Selector implements the role-specific nomination behaviour of spec
// §4.9, mirroring the real pion/ice agent's pairCandidateSelector
// split between controlling and controlled roles (grounded on the
// retrieved pion/ice v2 Agent's `selector` field and its
// ControllingSelector/ControlledSelector pair).
type Selector interface {
	// OnValidPair is called once per connectivity check success, after
	// the pair has already been recorded in the component's valid-list.
	// useCandidate reports whether the check that just succeeded carried
	// USE-CANDIDATE.
	OnValidPair(a *Agent, comp *Component, pair *CandidatePair, useCandidate bool)
}

// controllingSelector implements the initiator's nomination rules
// (spec §4.9 "Initiator, Aggressive mode" / "Initiator, Ordinary
// mode").
type controllingSelector struct {
	aggressive bool
}

func (s *controllingSelector) OnValidPair(a *Agent, comp *Component, pair *CandidatePair, useCandidate bool) {
	if s.aggressive {
		// Aggressive mode: every outgoing check already carried
		// USE-CANDIDATE, so the first valid pair is already a
		// nomination and finalizes selection immediately — there is
		// nothing further to wait for, since any subsequent pair is
		// either redundant or arrives too late to matter once a
		// selection is permanent.
		pair.IsNominated = true
		comp.MarkNominated(pair)
		comp.Select(pair)
		a.finalizeComponentIfReady(comp)
		return
	}

	if useCandidate {
		// This was the synthetic final-nomination check the ordinary
		// nomination timer enqueued; its success finalizes selection.
		comp.Select(pair)
		a.finalizeComponentIfReady(comp)
		return
	}

	// A plain (non-nominating) check just succeeded: arm the ordinary
	// nomination timer if this is the first valid pair for the
	// component.
	a.armNominationTimer(comp)
}

// controlledSelector implements the responder's acceptance rules
// (spec §4.9 "Responder").
type controlledSelector struct {
	aggressive bool
}

func (s *controlledSelector) OnValidPair(a *Agent, comp *Component, pair *CandidatePair, useCandidate bool) {
	if !useCandidate {
		return
	}
	pair.IsNominated = true
	comp.MarkNominated(pair)

	if s.aggressive {
		comp.Select(pair)
		a.finalizeComponentIfReady(comp)
		return
	}

	// Ordinary mode: wait for the nomination timer so a late,
	// higher-priority nomination from the peer can still win.
	a.armNominationTimer(comp)
}
