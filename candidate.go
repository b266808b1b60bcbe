// Package ice implements the core of RFC 8445 Interactive
// Connectivity Establishment: candidate gathering, checklist
// construction and scheduling, connectivity checks, nomination, and
// selected-pair resolution, driven by the stun, turn and transport
// packages.
package ice

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/netice/ice/transport"
)

// CandidateType is one of the four kinds of transport endpoint a
// candidate can represent (spec §3).
type CandidateType int

// Candidate types, in descending order of the preference they carry
// by default (spec §4.6).
const (
	CandidateTypeHost CandidateType = iota
	CandidateTypePeerReflexive
	CandidateTypeServerReflexive
	CandidateTypeRelayed
)

func (t CandidateType) String() string {
	switch t {
	case CandidateTypeHost:
		return "host"
	case CandidateTypePeerReflexive:
		return "prflx"
	case CandidateTypeServerReflexive:
		return "srflx"
	case CandidateTypeRelayed:
		return "relay"
	default:
		return "unknown"
	}
}

// typePreference returns the type-preference constant used by the
// priority formula (spec §3): Host drops from 126 to 0 on a virtual
// interface, since such addresses are typically NATed twice.
func typePreference(t CandidateType, onVirtualInterface bool) uint32 {
	switch t {
	case CandidateTypeHost:
		if onVirtualInterface {
			return 0
		}
		return 126
	case CandidateTypePeerReflexive:
		return 110
	case CandidateTypeServerReflexive:
		return 100
	case CandidateTypeRelayed:
		return 0
	default:
		return 0
	}
}

// Priority computes the RFC 8445 §5.1.2.1 candidate priority:
// (2^24 · type-pref) + (2^8 · local-pref) + (256 − component-id).
func Priority(t CandidateType, onVirtualInterface bool, localPref uint16, componentID int) uint32 {
	tp := typePreference(t, onVirtualInterface)
	return tp<<24 | uint32(localPref)<<8 | uint32(256-componentID)
}

// CandidateInfo is the provenance and addressing data shared by every
// candidate, local or remote (spec §3).
type CandidateInfo struct {
	ID              string
	Type            CandidateType
	Priority        uint32
	ComponentID     int
	Foundation      string
	Address         transport.Address
	Base            transport.Address
	RelatedAddress  transport.Address
	HasRelated      bool
	NetworkIndex    int
	Generation      int
}

// Candidate is a local CandidateInfo bound to the transport it was
// gathered on, and the logical path (Direct or Relayed) that carries
// its traffic (spec §3).
type Candidate struct {
	CandidateInfo
	Transport *transport.LocalUDPTransport
	Path      transport.Path
}

// Foundation returns the stable grouping key shared by candidates of
// identical provenance, keyed by (type, base ip, stun/turn server ip,
// transport), per spec §3. Host candidates have no server, so their
// foundation is keyed by base address alone.
func Foundation(t CandidateType, baseIP string, serverIP string, proto string) string {
	h := sha256.New()
	h.Write([]byte(t.String()))
	h.Write([]byte{0})
	h.Write([]byte(baseIP))
	h.Write([]byte{0})
	h.Write([]byte(serverIP))
	h.Write([]byte{0})
	h.Write([]byte(proto))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}

// NewCandidateID returns a fresh, globally-unique identifier, used so
// CandidateInfo values can be compared/logged without full structural
// equality.
func NewCandidateID() string {
	return uuid.New().String()
}
